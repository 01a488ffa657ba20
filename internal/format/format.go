// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders search results for the terminal and for machine
// consumers.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/thesis-search/pkg/types"
)

// Placeholders for fields the service left empty.
const (
	UntitledText      = "Untitled"
	UnknownAuthorText = "Unknown author"
	NoResultsText     = "No results."
	missingPage       = "?"
)

// Heading returns "Title (year)", substituting UntitledText for a missing
// title and dropping the year when absent.
func Heading(h types.SearchHit) string {
	title := strings.TrimSpace(h.Title)
	if title == "" {
		title = UntitledText
	}
	if y := h.Year.String(); h.Year.Valid() && y != "" {
		return fmt.Sprintf("%s (%s)", title, y)
	}
	return title
}

// Authors joins the author list, or returns UnknownAuthorText.
func Authors(authors []string) string {
	var names []string
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	if len(names) == 0 {
		return UnknownAuthorText
	}
	return strings.Join(names, ", ")
}

// Pages returns "Pages: a–b" with "?" for a missing side, or "" when both
// sides are absent.
func Pages(h types.SearchHit) string {
	if !h.PageStart.Valid() && !h.PageEnd.Valid() {
		return ""
	}
	return fmt.Sprintf("Pages: %s–%s", pageOrMissing(h.PageStart), pageOrMissing(h.PageEnd))
}

func pageOrMissing(s types.Scalar) string {
	if !s.Valid() {
		return missingPage
	}
	return s.String()
}

// Score formats a similarity score with three decimals.
func Score(score float64) string {
	return fmt.Sprintf("%.3f", score)
}

// Text writes a numbered, human-readable listing of results to w.
func Text(w io.Writer, results []types.SearchHit) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, NoResultsText)
		return err
	}

	var b strings.Builder
	for i, h := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, Heading(h))
		fmt.Fprintf(&b, "   score: %s\n", Score(h.Score))
		fmt.Fprintf(&b, "   %s\n", Authors(h.Authors))
		if snippet := strings.TrimSpace(h.Snippet); snippet != "" {
			for _, line := range strings.Split(snippet, "\n") {
				fmt.Fprintf(&b, "   %s\n", line)
			}
		}
		if pdf := h.PDF(); pdf != "" {
			fmt.Fprintf(&b, "   PDF: %s\n", pdf)
		}
		if pages := Pages(h); pages != "" {
			fmt.Fprintf(&b, "   %s\n", pages)
		}
	}
	fmt.Fprintf(&b, "\n%d results\n", len(results))

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes resp as indented JSON to w.
func JSON(w io.Writer, resp types.SearchResponse) error {
	if resp.Results == nil {
		resp.Results = []types.SearchHit{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// YAML writes resp as YAML to w.
func YAML(w io.Writer, resp types.SearchResponse) error {
	if resp.Results == nil {
		resp.Results = []types.SearchHit{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// Write renders resp in the named format: text, json or yaml.
func Write(w io.Writer, name string, resp types.SearchResponse) error {
	switch strings.ToLower(name) {
	case "", "text":
		return Text(w, resp.Results)
	case "json":
		return JSON(w, resp)
	case "yaml", "yml":
		return YAML(w, resp)
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", name)
	}
}
