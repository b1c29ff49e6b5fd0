/*
Package config manages TOML config for symserve.
*/
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/bastiangx/symserve/internal/utils"
	"github.com/bastiangx/symserve/pkg/discover"
	"github.com/bastiangx/symserve/pkg/server"
	"github.com/bastiangx/symserve/pkg/suggest"
	"github.com/bastiangx/symserve/pkg/symbol"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Index    IndexConfig    `toml:"index"`
	Complete CompleteConfig `toml:"complete"`
	Server   ServerConfig   `toml:"server"`
	Watch    WatchConfig    `toml:"watch"`
	CLI      CliConfig      `toml:"cli"`
}

// IndexConfig controls file discovery and extraction.
type IndexConfig struct {
	Extensions       []string `toml:"extensions"`
	RespectGitignore bool     `toml:"respect_gitignore"`
	ExcludeDirs      []string `toml:"exclude_dirs"`
	MaxFileSize      int      `toml:"max_file_size"`
	Workers          int      `toml:"workers"`
}

// CompleteConfig holds ranking options.
type CompleteConfig struct {
	MaxResults      int                `toml:"max_results"`
	FuzzyThreshold  float64            `toml:"fuzzy_threshold"`
	PrefixWeight    float64            `toml:"prefix_weight"`
	SubstringWeight float64            `toml:"substring_weight"`
	FuzzyWeight     float64            `toml:"fuzzy_weight"`
	KindBoosts      map[string]float64 `toml:"kind_boosts"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit     int  `toml:"max_limit"`
	MinQuery     int  `toml:"min_query"`
	MaxQuery     int  `toml:"max_query"`
	EnableFilter bool `toml:"enable_filter"`
}

// WatchConfig holds file watcher options.
type WatchConfig struct {
	Enabled    bool `toml:"enabled"`
	DebounceMs int  `toml:"debounce_ms"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int  `toml:"default_limit"`
	Highlight    bool `toml:"highlight"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "symserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "symserve")
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
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/symserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
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

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	srv := server.DefaultConfig()
	return &Config{
		Index: IndexConfig{
			Extensions:       []string{},
			RespectGitignore: true,
			ExcludeDirs:      slices.Clone(discover.DefaultExcludeDirs),
			MaxFileSize:      discover.DefaultMaxFileSize,
			Workers:          0,
		},
		Complete: CompleteConfig{
			MaxResults:      suggest.DefaultMaxResults,
			FuzzyThreshold:  suggest.DefaultFuzzyThreshold,
			PrefixWeight:    suggest.DefaultPrefixWeight,
			SubstringWeight: suggest.DefaultSubstringWeight,
			FuzzyWeight:     suggest.DefaultFuzzyWeight,
			KindBoosts:      map[string]float64{},
		},
		Server: ServerConfig{
			MaxLimit:     srv.MaxLimit,
			MinQuery:     srv.MinQuery,
			MaxQuery:     srv.MaxQuery,
			EnableFilter: srv.EnableFilter,
		},
		Watch: WatchConfig{
			Enabled:    false,
			DebounceMs: 300,
		},
		CLI: CliConfig{
			DefaultLimit: suggest.DefaultMaxResults,
			Highlight:    true,
		},
	}
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
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "index"); ok {
		extractIndexConfig(section, &config.Index)
	}
	if section, ok := utils.ExtractSection(tempConfig, "complete"); ok {
		extractCompleteConfig(section, &config.Complete)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(tempConfig, "watch"); ok {
		extractWatchConfig(section, &config.Watch)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractIndexConfig(data map[string]any, index *IndexConfig) {
	if val, ok := utils.ExtractStringSlice(data, "extensions"); ok {
		index.Extensions = val
	}
	if val, ok := utils.ExtractBool(data, "respect_gitignore"); ok {
		index.RespectGitignore = val
	}
	if val, ok := utils.ExtractStringSlice(data, "exclude_dirs"); ok {
		index.ExcludeDirs = val
	}
	if val, ok := utils.ExtractInt64(data, "max_file_size"); ok {
		index.MaxFileSize = val
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		index.Workers = val
	}
}

func extractCompleteConfig(data map[string]any, complete *CompleteConfig) {
	if val, ok := utils.ExtractInt64(data, "max_results"); ok {
		complete.MaxResults = val
	}
	if val, ok := utils.ExtractFloat64(data, "fuzzy_threshold"); ok {
		complete.FuzzyThreshold = val
	}
	if val, ok := utils.ExtractFloat64(data, "prefix_weight"); ok {
		complete.PrefixWeight = val
	}
	if val, ok := utils.ExtractFloat64(data, "substring_weight"); ok {
		complete.SubstringWeight = val
	}
	if val, ok := utils.ExtractFloat64(data, "fuzzy_weight"); ok {
		complete.FuzzyWeight = val
	}
	if val, ok := utils.ExtractFloatMap(data, "kind_boosts"); ok {
		complete.KindBoosts = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "min_query"); ok {
		server.MinQuery = val
	}
	if val, ok := utils.ExtractInt64(data, "max_query"); ok {
		server.MaxQuery = val
	}
	if val, ok := utils.ExtractBool(data, "enable_filter"); ok {
		server.EnableFilter = val
	}
}

func extractWatchConfig(data map[string]any, watch *WatchConfig) {
	if val, ok := utils.ExtractBool(data, "enabled"); ok {
		watch.Enabled = val
	}
	if val, ok := utils.ExtractInt64(data, "debounce_ms"); ok {
		watch.DebounceMs = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractBool(data, "highlight"); ok {
		cli.Highlight = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
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

// Update changes the server values and saves to file
func (c *Config) Update(configPath string, maxLimit, minQuery, maxQuery *int, enableFilter *bool) error {
	server := &c.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if minQuery != nil {
		server.MinQuery = *minQuery
	}
	if maxQuery != nil {
		server.MaxQuery = *maxQuery
	}
	if enableFilter != nil {
		server.EnableFilter = *enableFilter
	}
	return SaveConfig(c, configPath)
}

// DiscoverOptions converts the index section. An empty extension list
// leaves the choice to the caller.
func (c *Config) DiscoverOptions() discover.Options {
	return discover.Options{
		Extensions:       slices.Clone(c.Index.Extensions),
		RespectGitignore: c.Index.RespectGitignore,
		ExcludeDirs:      slices.Clone(c.Index.ExcludeDirs),
		MaxFileSize:      int64(c.Index.MaxFileSize),
	}
}

// CompleteOptions converts the complete section. Boost keys are kind display
// names; unknown names are logged and ignored. An empty table keeps the
// built-in boosts.
func (c *Config) CompleteOptions() suggest.Options {
	opts := suggest.DefaultOptions()
	opts.FuzzyThreshold = c.Complete.FuzzyThreshold
	opts.PrefixWeight = c.Complete.PrefixWeight
	opts.SubstringWeight = c.Complete.SubstringWeight
	opts.FuzzyWeight = c.Complete.FuzzyWeight
	if len(c.Complete.KindBoosts) == 0 {
		return opts
	}
	boosts := make(map[symbol.Kind]float64, len(c.Complete.KindBoosts))
	for name, boost := range c.Complete.KindBoosts {
		kind, ok := symbol.ParseKind(name)
		if !ok {
			log.Warnf("Ignoring boost for unknown kind %q", name)
			continue
		}
		boosts[kind] = boost
	}
	opts.KindBoosts = boosts
	return opts
}

// ServerOptions converts the server section.
func (c *Config) ServerOptions() server.Config {
	return server.Config{
		DefaultLimit: c.Complete.MaxResults,
		MaxLimit:     c.Server.MaxLimit,
		MinQuery:     c.Server.MinQuery,
		MaxQuery:     c.Server.MaxQuery,
		EnableFilter: c.Server.EnableFilter,
	}
}

// Debounce returns the watcher quiet period.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMs) * time.Millisecond
}
