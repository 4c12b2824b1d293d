package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "food_mappings.json", cfg.Catalog.Path)
	assert.Equal(t, 20, cfg.Search.MaxResults)
	assert.Equal(t, 5, cfg.Search.MaxSuggestions)
	assert.Equal(t, 3, cfg.Search.SuggestBelow)
	assert.Equal(t, 3, cfg.Search.FallbackSuggestions)
	assert.True(t, cfg.Search.Fuzzy)
	assert.Equal(t, 64, cfg.Server.MaxLimit)
	assert.Equal(t, 10, cfg.CLI.DefaultLimit)
}

func TestLoadConfig(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "full file",
			content: `
[catalog]
path = "/srv/foods.toml"

[search]
max_results = 7
fuzzy = false

[server]
max_limit = 12
batch_workers = 2
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/foods.toml", cfg.Catalog.Path)
				assert.Equal(t, 7, cfg.Search.MaxResults)
				assert.False(t, cfg.Search.Fuzzy)
				assert.Equal(t, 12, cfg.Server.MaxLimit)
				assert.Equal(t, 2, cfg.Server.BatchWorkers)
				// untouched values keep defaults
				assert.Equal(t, 5, cfg.Search.MaxSuggestions)
				assert.Equal(t, 10, cfg.CLI.DefaultLimit)
			},
		},
		{
			name: "wrong type recovers other values",
			content: `
[search]
max_results = "many"
max_suggestions = 2

[cli]
default_limit = 4
show_scores = false
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 20, cfg.Search.MaxResults)
				assert.Equal(t, 2, cfg.Search.MaxSuggestions)
				assert.Equal(t, 4, cfg.CLI.DefaultLimit)
				assert.False(t, cfg.CLI.ShowScores)
			},
		},
		{
			name:    "broken syntax falls back to defaults",
			content: "[search\nmax_results = 3",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultConfig(), cfg)
			},
		},
		{
			name: "invalid values are replaced",
			content: `
[search]
max_results = 0
max_suggestions = -3

[server]
max_limit = -1
batch_workers = -2
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 20, cfg.Search.MaxResults)
				assert.Equal(t, 5, cfg.Search.MaxSuggestions)
				assert.Equal(t, 64, cfg.Server.MaxLimit)
				assert.Equal(t, 0, cfg.Server.BatchWorkers)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tc.content))
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestInitConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeConfig(t, "[cli]\ndefault_limit = 3\n")

	cfg, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 3, cfg.CLI.DefaultLimit)
}

func TestUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()

	results, fuzzy := 9, false
	require.NoError(t, cfg.Update(path, &results, nil, &fuzzy))
	assert.Equal(t, 9, cfg.Search.MaxResults)
	assert.Equal(t, 5, cfg.Search.MaxSuggestions)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9, reloaded.Search.MaxResults)
	assert.False(t, reloaded.Search.Fuzzy)

	bad := -1
	require.NoError(t, cfg.Update("", &bad, nil, nil))
	assert.Equal(t, 20, cfg.Search.MaxResults)
}

func TestRebuildConfigFile(t *testing.T) {
	path := writeConfig(t, "[search]\nmax_results = 2\n")

	used, err := RebuildConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
