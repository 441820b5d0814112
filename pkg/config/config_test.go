package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "test")
	require.NoError(t, err)

	assert.Equal(t, "compensation.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Query.RowLimit)
	assert.Equal(t, 0.20, cfg.Extraction.DefaultSpread)
	assert.Equal(t, []string{"%Roll-Up%", "%Executive%"}, cfg.Query.ExcludedLevelPatterns)
	assert.False(t, cfg.LLM.Enabled())
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
database:
  path: /data/comp.db
query:
  row_limit: 25
llm:
  provider: anthropic
  model: claude-sonnet-4-20250514
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path, "test")
	require.NoError(t, err)

	assert.Equal(t, "/data/comp.db", cfg.Database.Path)
	assert.Equal(t, 25, cfg.Query.RowLimit)
	assert.True(t, cfg.LLM.Enabled())
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("query:\n  row_limit: 25\n"), 0o644))

	t.Setenv("COMP_QUERY_ROW_LIMIT", "50")

	cfg, err := Load(path, "test")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Query.RowLimit)
}

func TestLoad_APIKeyIsEnvOnly(t *testing.T) {
	t.Setenv("COMP_LLM_API_KEY", "sk-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "test")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "negative row limit",
			yaml:    "query:\n  row_limit: -1\n",
			wantErr: "row_limit",
		},
		{
			name:    "spread out of range",
			yaml:    "extraction:\n  default_spread: 1.5\n",
			wantErr: "default_spread",
		},
		{
			name:    "unknown provider",
			yaml:    "llm:\n  provider: cohere\n  model: x\n",
			wantErr: "llm.provider",
		},
		{
			name:    "openai without endpoint",
			yaml:    "llm:\n  provider: openai\n  model: gpt-4o\n",
			wantErr: "llm.endpoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := Load(path, "test")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
