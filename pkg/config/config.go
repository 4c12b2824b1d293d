/*
Package config manages the TOML config for foodserve.

Values missing from the file keep their defaults. A file that fails to decode
as a whole is read again section by section, so one bad value does not throw
away the rest:

	[catalog]
	path = "food_mappings.json"

	[search]
	max_results = 20
	max_suggestions = 5
	suggest_below = 3
	fallback_suggestions = 3
	fuzzy = true

	[server]
	max_limit = 64
	max_query_len = 256
	max_batch = 64
	batch_workers = 0
	cache_size = 256

	[cli]
	default_limit = 10
	show_scores = true
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/foodserve/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Catalog CatalogConfig `toml:"catalog"`
	Search  SearchConfig  `toml:"search"`
	Server  ServerConfig  `toml:"server"`
	CLI     CliConfig     `toml:"cli"`
}

// CatalogConfig says where the food mappings live.
type CatalogConfig struct {
	Path string `toml:"path"`
}

// SearchConfig holds engine defaults.
type SearchConfig struct {
	MaxResults     int `toml:"max_results"`
	MaxSuggestions int `toml:"max_suggestions"`
	// Suggestions are attached to search responses with fewer results.
	SuggestBelow        int  `toml:"suggest_below"`
	FallbackSuggestions int  `toml:"fallback_suggestions"`
	Fuzzy               bool `toml:"fuzzy"`
}

// ServerConfig has IPC server options.
type ServerConfig struct {
	MaxLimit    int `toml:"max_limit"`
	MaxQueryLen int `toml:"max_query_len"`
	MaxBatch    int `toml:"max_batch"`
	// 0 means GOMAXPROCS.
	BatchWorkers int `toml:"batch_workers"`
	// Cached search result lists; 0 disables the cache.
	CacheSize int `toml:"cache_size"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	ShowScores   bool `toml:"show_scores"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Path: "food_mappings.json",
		},
		Search: SearchConfig{
			MaxResults:          20,
			MaxSuggestions:      5,
			SuggestBelow:        3,
			FallbackSuggestions: 3,
			Fuzzy:               true,
		},
		Server: ServerConfig{
			MaxLimit:     64,
			MaxQueryLen:  256,
			MaxBatch:     64,
			BatchWorkers: 0,
			CacheSize:    256,
		},
		CLI: CliConfig{
			DefaultLimit: 10,
			ShowScores:   true,
		},
	}
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/foodserve
// 2. ~/Library/Application Support/foodserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "foodserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "foodserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/foodserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.normalize()
	return config, nil
}

// tryPartialParse keeps every value of the file that decodes on its own.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "catalog"); ok {
		extractCatalogConfig(section, &config.Catalog)
	}
	if section, ok := utils.ExtractSection(tempConfig, "search"); ok {
		extractSearchConfig(section, &config.Search)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	config.normalize()
	return config, nil
}

func extractCatalogConfig(data map[string]any, catalog *CatalogConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		catalog.Path = val
	}
}

func extractSearchConfig(data map[string]any, search *SearchConfig) {
	if val, ok := utils.ExtractInt(data, "max_results"); ok {
		search.MaxResults = val
	}
	if val, ok := utils.ExtractInt(data, "max_suggestions"); ok {
		search.MaxSuggestions = val
	}
	if val, ok := utils.ExtractInt(data, "suggest_below"); ok {
		search.SuggestBelow = val
	}
	if val, ok := utils.ExtractInt(data, "fallback_suggestions"); ok {
		search.FallbackSuggestions = val
	}
	if val, ok := utils.ExtractBool(data, "fuzzy"); ok {
		search.Fuzzy = val
	}
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt(data, "max_query_len"); ok {
		server.MaxQueryLen = val
	}
	if val, ok := utils.ExtractInt(data, "max_batch"); ok {
		server.MaxBatch = val
	}
	if val, ok := utils.ExtractInt(data, "batch_workers"); ok {
		server.BatchWorkers = val
	}
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		server.CacheSize = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "show_scores"); ok {
		cli.ShowScores = val
	}
}

// normalize replaces values that cannot work with their defaults.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Catalog.Path == "" {
		c.Catalog.Path = def.Catalog.Path
	}
	if c.Search.MaxResults <= 0 {
		log.Warnf("Invalid search.max_results %d, using %d", c.Search.MaxResults, def.Search.MaxResults)
		c.Search.MaxResults = def.Search.MaxResults
	}
	if c.Search.MaxSuggestions <= 0 {
		log.Warnf("Invalid search.max_suggestions %d, using %d", c.Search.MaxSuggestions, def.Search.MaxSuggestions)
		c.Search.MaxSuggestions = def.Search.MaxSuggestions
	}
	if c.Search.SuggestBelow < 0 {
		c.Search.SuggestBelow = def.Search.SuggestBelow
	}
	if c.Search.FallbackSuggestions < 0 {
		c.Search.FallbackSuggestions = def.Search.FallbackSuggestions
	}
	if c.Server.MaxLimit <= 0 {
		log.Warnf("Invalid server.max_limit %d, using %d", c.Server.MaxLimit, def.Server.MaxLimit)
		c.Server.MaxLimit = def.Server.MaxLimit
	}
	if c.Server.MaxQueryLen <= 0 {
		c.Server.MaxQueryLen = def.Server.MaxQueryLen
	}
	if c.Server.MaxBatch <= 0 {
		c.Server.MaxBatch = def.Server.MaxBatch
	}
	if c.Server.BatchWorkers < 0 {
		c.Server.BatchWorkers = def.Server.BatchWorkers
	}
	if c.Server.CacheSize < 0 {
		c.Server.CacheSize = 0
	}
	if c.CLI.DefaultLimit <= 0 {
		c.CLI.DefaultLimit = def.CLI.DefaultLimit
	}
}

// RebuildConfigFile force creates a new config.toml at configPath, or at
// the default path when configPath is empty.
func RebuildConfigFile(configPath string) (string, error) {
	if configPath == "" {
		defaultPath, err := GetDefaultConfigPath()
		if err != nil {
			return "", err
		}
		configPath = defaultPath
	}
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return "", err
	}
	return configPath, SaveConfig(DefaultConfig(), configPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes search values and saves to file. Nil arguments are left
// alone; an empty configPath only updates memory.
func (c *Config) Update(configPath string, maxResults, maxSuggestions *int, fuzzy *bool) error {
	search := &c.Search
	if maxResults != nil {
		search.MaxResults = *maxResults
	}
	if maxSuggestions != nil {
		search.MaxSuggestions = *maxSuggestions
	}
	if fuzzy != nil {
		search.Fuzzy = *fuzzy
	}
	c.normalize()
	if configPath == "" {
		return nil
	}
	return SaveConfig(c, configPath)
}
