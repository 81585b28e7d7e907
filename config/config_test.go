package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pb33f/gqlific/motor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_YAML(t *testing.T) {
	data := []byte(`
active: staging
environments:
  - name: local
    url: http://localhost:4000/graphql
  - name: staging
    url: https://staging.example.com/graphql
    token: s3cret
    color: "45"
defaults:
  variables: '{"first": 10}'
quickHeaders:
  - name: X-Tenant
    value: acme
collections:
  - id: c1
    name: Users
    queries:
      - id: q1
        name: All users
        query: "{ users { id } }"
`)

	cfg, err := Parse(data, ".yaml")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Active)
	require.Len(t, cfg.Environments, 2)
	assert.Equal(t, "s3cret", cfg.ActiveEnvironment().Token)
	assert.Equal(t, `{"first": 10}`, cfg.Defaults.Variables)
	assert.Equal(t, SampleQuery, cfg.Defaults.Query)
	assert.Equal(t, []model.NameValuePair{{Name: "X-Tenant", Value: "acme"}}, cfg.QuickHeaders)
	require.Len(t, cfg.Collections, 1)
	assert.Equal(t, "All users", cfg.Collections[0].Queries[0].Name)
	assert.Equal(t, 50, cfg.HistoryLimit)
}

func TestParse_JSONWithComments(t *testing.T) {
	data := []byte(`{
  // local development server
  "environments": [{"name": "dev", "url": "http://localhost:8080/query"}],
  "historyLimit": 5, /* keep it short */
}`)

	cfg, err := Parse(data, ".jsonc")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Active)
	assert.Equal(t, 5, cfg.HistoryLimit)
	assert.Equal(t, Default().QuickHeaders, cfg.QuickHeaders)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad yaml", "environments: [", "invalid YAML"},
		{"missing url", "environments:\n  - name: a\n", `environment "a" has no url`},
		{"duplicate", "environments:\n  - {name: a, url: x}\n  - {name: a, url: y}\n", "defined more than once"},
		{"unknown active", "active: b\nenvironments:\n  - {name: a, url: x}\n", `active environment "b" is not defined`},
		{"empty query", "collections:\n  - id: c\n    name: C\n    queries:\n      - {id: q, name: Q, query: ' '}\n", "has no query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), ".yml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Environments = append(cfg.Environments, model.Environment{Name: "prod", URL: "https://api.example.com/graphql"})
	require.NoError(t, Save(path, cfg))

	_, err := os.Stat(path)
	require.NoError(t, err)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExpandQuickHeader(t *testing.T) {
	h := model.NameValuePair{Name: "Authorization", Value: "Bearer {{token}}"}

	value, ok := ExpandQuickHeader(h, model.Environment{Token: "abc"})
	assert.True(t, ok)
	assert.Equal(t, "Bearer abc", value)

	_, ok = ExpandQuickHeader(h, model.Environment{})
	assert.False(t, ok)

	value, ok = ExpandQuickHeader(model.NameValuePair{Name: "Accept", Value: "*/*"}, model.Environment{})
	assert.True(t, ok)
	assert.Equal(t, "*/*", value)
}
