// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/thesis-search/pkg/types"
)

// Record is the on-disk export of one search: what was asked, where, and
// what came back. It is written for people and other tools to read; the
// client never loads it back.
type Record struct {
	Query   RecordQuery       `yaml:"query"`
	Results []types.SearchHit `yaml:"results"`
	Summary RecordSummary     `yaml:"summary"`
}

// RecordQuery stores the request parameters.
type RecordQuery struct {
	Text    string `yaml:"q"`
	TopK    int    `yaml:"top_k"`
	APIBase string `yaml:"api_base"`
}

// RecordSummary stores result statistics and a timestamp.
type RecordSummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// NewRecord builds a Record stamped with now.
func NewRecord(apiBase string, req types.SearchRequest, resp types.SearchResponse, now time.Time) Record {
	results := resp.Results
	if results == nil {
		results = []types.SearchHit{}
	}
	return Record{
		Query: RecordQuery{
			Text:    req.Query,
			TopK:    req.TopK,
			APIBase: apiBase,
		},
		Results: results,
		Summary: RecordSummary{
			Total:     len(results),
			Timestamp: now.UTC(),
		},
	}
}

// WriteRecord saves rec as YAML at path.
func WriteRecord(path string, rec Record) error {
	data, err := yaml.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("marshaling search record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing search record: %w", err)
	}
	return nil
}
