// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the wire and configuration structures shared by the
// thesis-search client, its presentation adapters and the CLI.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SearchRequest is the body sent to POST /search. TopK must already be
// clamped by the caller; see thesis.ClampTopK.
type SearchRequest struct {
	Query string `json:"q" yaml:"q"`
	TopK  int    `json:"top_k" yaml:"top_k"`
}

// SearchHit is one ranked result returned by the search service. Only Score
// is guaranteed; every other field may be absent or null.
type SearchHit struct {
	// Score is the similarity score assigned by the service.
	Score float64 `json:"score" yaml:"score"`

	// Rank is the 1-based position reported by the service, when present.
	Rank int `json:"rank,omitempty" yaml:"rank,omitempty"`

	// Title is the thesis title.
	Title string `json:"titulo,omitempty" yaml:"titulo,omitempty"`

	// Authors lists the thesis authors in source order.
	Authors []string `json:"autores,omitempty" yaml:"autores,omitempty"`

	// Year is the publication year. The service sends a number, a string or null.
	Year Scalar `json:"anio_publicacion" yaml:"anio_publicacion,omitempty"`

	// PageStart and PageEnd delimit the matched passage inside the PDF.
	PageStart Scalar `json:"pagina_inicio" yaml:"pagina_inicio,omitempty"`
	PageEnd   Scalar `json:"pagina_fin" yaml:"pagina_fin,omitempty"`

	// PDFURL links to the full document. Nil when the service sent null.
	PDFURL *string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// FileName is the source file name in the repository, when present.
	FileName string `json:"nombre_archivo,omitempty" yaml:"nombre_archivo,omitempty"`

	// VectorID is the index position of the matched chunk.
	VectorID *int `json:"vector_id,omitempty" yaml:"vector_id,omitempty"`

	// Snippet is a short excerpt of the matched text.
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty"`
}

// PDF returns the PDF link or "" when absent.
func (h SearchHit) PDF() string {
	if h.PDFURL == nil {
		return ""
	}
	return *h.PDFURL
}

// SearchResponse is the body returned by POST /search. Results are in rank
// order and that order must be preserved.
type SearchResponse struct {
	Results []SearchHit `json:"results" yaml:"results"`
}

// HealthStatus is the body returned by GET /healthz.
type HealthStatus struct {
	OK bool `json:"ok" yaml:"ok"`
}

// ReadyStatus is the body returned by GET /ready.
type ReadyStatus struct {
	MappingReady bool `json:"mapping_ready" yaml:"mapping_ready"`
}

// Scalar holds a JSON value that the service may send as a number, a string
// or null. The zero value is an absent value.
type Scalar struct {
	raw string
	set bool
	num bool
}

// NewScalar builds a present Scalar from its textual form.
func NewScalar(s string) Scalar {
	return Scalar{raw: s, set: true}
}

// Valid reports whether a non-null value was present.
func (s Scalar) Valid() bool { return s.set }

// String returns the value as text, or "" when absent. Numbers with an
// integral value print without a decimal point.
func (s Scalar) String() string {
	return s.raw
}

// UnmarshalJSON accepts numbers, strings and null.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Scalar{}
		return nil
	}
	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return fmt.Errorf("decoding scalar string: %w", err)
		}
		*s = Scalar{raw: str, set: true}
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("scalar must be a number, string or null: %w", err)
		}
		*s = Scalar{raw: formatNumber(n), set: true, num: true}
		return nil
	}
}

// MarshalJSON writes numeric values back as numbers and everything else as a
// string; an absent value is null.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.set {
		return []byte("null"), nil
	}
	if s.num {
		return []byte(s.raw), nil
	}
	return json.Marshal(s.raw)
}

// IsZero lets yaml omitempty drop absent values.
func (s Scalar) IsZero() bool { return !s.set }

// MarshalYAML renders the value as plain text.
func (s Scalar) MarshalYAML() (any, error) {
	if !s.set {
		return nil, nil
	}
	return s.raw, nil
}

func formatNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
