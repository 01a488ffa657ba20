// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestScalarUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantText  string
	}{
		{"integer", `2021`, true, "2021"},
		{"integral float", `2021.0`, true, "2021"},
		{"fraction", `12.5`, true, "12.5"},
		{"string", `"2019"`, true, "2019"},
		{"free text", `"s/f"`, true, "s/f"},
		{"null", `null`, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Scalar
			require.NoError(t, json.Unmarshal([]byte(tt.input), &s))
			assert.Equal(t, tt.wantValid, s.Valid())
			assert.Equal(t, tt.wantText, s.String())
		})
	}
}

func TestScalarRejectsObjects(t *testing.T) {
	var s Scalar
	err := json.Unmarshal([]byte(`{"year":2020}`), &s)
	assert.Error(t, err)
}

func TestSearchHitOptionalFields(t *testing.T) {
	body := `{"results":[
		{"score":0.91,"titulo":"Redes neuronales","autores":["Ana","Luis"],"anio_publicacion":2020,
		 "pagina_inicio":"3","pagina_fin":7,"pdf_url":"https://repo.example/t.pdf","snippet":"texto"},
		{"score":0.42,"anio_publicacion":null,"pdf_url":null}
	]}`

	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Results, 2)

	full := resp.Results[0]
	assert.Equal(t, "Redes neuronales", full.Title)
	assert.Equal(t, []string{"Ana", "Luis"}, full.Authors)
	assert.Equal(t, "2020", full.Year.String())
	assert.Equal(t, "3", full.PageStart.String())
	assert.Equal(t, "7", full.PageEnd.String())
	assert.Equal(t, "https://repo.example/t.pdf", full.PDF())

	sparse := resp.Results[1]
	assert.InDelta(t, 0.42, sparse.Score, 1e-9)
	assert.Empty(t, sparse.Title)
	assert.Nil(t, sparse.Authors)
	assert.False(t, sparse.Year.Valid())
	assert.False(t, sparse.PageStart.Valid())
	assert.Empty(t, sparse.PDF())
}

func TestScalarMarshalKeepsKind(t *testing.T) {
	hit := SearchHit{Score: 1, Year: NewScalar("2020")}
	var n Scalar
	require.NoError(t, json.Unmarshal([]byte(`2020`), &n))
	hit.PageStart = n

	data, err := json.Marshal(hit)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"anio_publicacion":"2020"`)
	assert.Contains(t, string(data), `"pagina_inicio":2020`)
	assert.Contains(t, string(data), `"pagina_fin":null`)
}

func TestScalarYAMLOmitsAbsent(t *testing.T) {
	hit := SearchHit{Score: 0.5, Year: NewScalar("2018")}
	data, err := yaml.Marshal(hit)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "anio_publicacion: \"2018\"")
	assert.NotContains(t, out, "pagina_inicio")
}

func TestApplyDefaults(t *testing.T) {
	var cfg ClientConfig
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultSearchTimeout, cfg.Search.Timeout)
	assert.Equal(t, 0, cfg.Search.Retries)
	assert.Equal(t, DefaultSearchBackoff, cfg.Search.Backoff)
	assert.Equal(t, DefaultTopK, cfg.Search.TopK)
	assert.Equal(t, DefaultProbeTimeout, cfg.Probe.Timeout)
	assert.Equal(t, DefaultDebounce, cfg.Session.Debounce)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
}
