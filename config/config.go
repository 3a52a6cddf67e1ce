package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/avalonia-tools/avalint/constants/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCacheEntry holds cached configuration with metadata
type configCacheEntry struct {
	config  *Config
	modTime time.Time
}

// Global cache for configuration files
var (
	configCache = make(map[string]*configCacheEntry)
	cacheMutex  sync.RWMutex
)

// Config represents the structure of the configuration file
type Config struct {
	Version     string   `mapstructure:"version"`
	Theme       string   `mapstructure:"theme"`
	Format      string   `mapstructure:"format"`
	FailOn      string   `mapstructure:"fail_on"`
	EnableCache bool     `mapstructure:"enable_cache"`
	Jobs        int      `mapstructure:"jobs"`
	Include     []string `mapstructure:"include"`
	ShowSource  bool     `mapstructure:"show_source"`
	ShowOutline bool     `mapstructure:"show_outline"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:     "0.4.2",
	Theme:       "dracula",
	Format:      "text",
	FailOn:      "error",
	EnableCache: true,
	Jobs:        0, // 0 lets the analyzer pick runtime.NumCPU()
	Include:     nil,
	ShowSource:  false,
	ShowOutline: false,
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	// Set default values using Viper
	setDefaults()

	// Automatically read environment variables
	viper.AutomaticEnv()

	// Explicitly bind environment variables to config keys
	bindEnv()

	// Check if the user provided a config file
	if cfgFile != "" {
		// Use the config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Look for configuration files in the scan root
		viper.SetConfigName("avalint-config") // Name of config file (without extension)
		viper.AddConfigPath(cwd)              // Look in the scan root directory

		// Support both JSON and YAML formats
		viper.SetConfigType("yaml") // Set default type
		if err := viper.ReadInConfig(); err != nil {
			// If YAML fails, try JSON
			viper.SetConfigType("json")
			if err := viper.ReadInConfig(); err != nil {
				// If both fail, we'll continue with defaults
				fmt.Println(lipgloss.Gray.Render("No configuration file found, using defaults"))
			}
		}
	}

	// Read the explicitly specified config file (if any)
	if cfgFile != "" {
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	}

	// Bind CLI flags to override config values
	bindFlags(rootCmd)

	// Unmarshal the configuration into the Config struct
	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	return config
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("format", DefaultConfig.Format)
	viper.SetDefault("fail_on", DefaultConfig.FailOn)
	viper.SetDefault("enable_cache", DefaultConfig.EnableCache)
	viper.SetDefault("jobs", DefaultConfig.Jobs)
	viper.SetDefault("include", DefaultConfig.Include)
	viper.SetDefault("show_source", DefaultConfig.ShowSource)
	viper.SetDefault("show_outline", DefaultConfig.ShowOutline)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("theme", "AVALINT_THEME")
	_ = viper.BindEnv("format", "AVALINT_FORMAT")
	_ = viper.BindEnv("fail_on", "AVALINT_FAIL_ON")
	_ = viper.BindEnv("enable_cache", "AVALINT_ENABLE_CACHE")
	_ = viper.BindEnv("jobs", "AVALINT_JOBS")
	_ = viper.BindEnv("show_source", "AVALINT_SHOW_SOURCE")
	_ = viper.BindEnv("show_outline", "AVALINT_SHOW_OUTLINE")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("fail_on", rootCmd.PersistentFlags().Lookup("fail-on"))
	_ = viper.BindPFlag("enable_cache", rootCmd.PersistentFlags().Lookup("enable-cache"))
	_ = viper.BindPFlag("jobs", rootCmd.PersistentFlags().Lookup("jobs"))
	_ = viper.BindPFlag("include", rootCmd.PersistentFlags().Lookup("include"))
	_ = viper.BindPFlag("show_source", rootCmd.PersistentFlags().Lookup("show-source"))
	_ = viper.BindPFlag("show_outline", rootCmd.PersistentFlags().Lookup("show-outline"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the scanner.")

	// Output configuration
	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Chroma style used for highlighted source lines (e.g., 'dracula', 'github', 'monokai')")
	rootCmd.PersistentFlags().String("format", DefaultConfig.Format, "Report output format: 'text' or 'json'")
	rootCmd.PersistentFlags().Bool("show-source", DefaultConfig.ShowSource, "Show the highlighted source line under each finding")
	rootCmd.PersistentFlags().Bool("show-outline", DefaultConfig.ShowOutline, "Append the extracted C# symbol outlines after the report")

	// Scan configuration
	rootCmd.PersistentFlags().String("fail-on", DefaultConfig.FailOn, "Exit non-zero when findings at or above this severity exist: 'error', 'warning', 'info' or 'none'")
	rootCmd.PersistentFlags().Int("jobs", DefaultConfig.Jobs, "Number of parallel parse workers (0 = number of CPUs)")
	rootCmd.PersistentFlags().StringSlice("include", DefaultConfig.Include, "Glob patterns of files to scan (default: *.cs, *.axaml, *.xaml, *.csproj)")

	// Cache configuration
	rootCmd.PersistentFlags().Bool("enable-cache", DefaultConfig.EnableCache, "Enable or disable the on-disk parse cache")

	// Version flag
	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")
}

// GetConfigFileType returns the type of the configuration file based on its extension
func GetConfigFileType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return "yaml"
	}
	return ""
}

// LoadConfigWithCache loads configuration with caching support
func LoadConfigWithCache(rootCmd *cobra.Command, cwd string) *Config {
	var configFilePath string

	// Determine config file path
	if cfgFile != "" {
		configFilePath = cfgFile
	} else {
		// Check for default config files
		yamlPath := fmt.Sprintf("%s/avalint-config.yaml", cwd)
		ymlPath := fmt.Sprintf("%s/avalint-config.yml", cwd)
		jsonPath := fmt.Sprintf("%s/avalint-config.json", cwd)

		if _, err := os.Stat(yamlPath); err == nil {
			configFilePath = yamlPath
		} else if _, err := os.Stat(ymlPath); err == nil {
			configFilePath = ymlPath
		} else if _, err := os.Stat(jsonPath); err == nil {
			configFilePath = jsonPath
		}
	}

	// If no config file exists, return default configuration loading
	if configFilePath == "" {
		return LoadConfigs(rootCmd, cwd)
	}

	// Check file modification time
	fileInfo, err := os.Stat(configFilePath)
	if err != nil {
		// File doesn't exist or error, fallback to regular loading
		return LoadConfigs(rootCmd, cwd)
	}

	// Check cache first
	cacheMutex.RLock()
	if cached, exists := configCache[configFilePath]; exists {
		// Check if file has been modified since cache
		if fileInfo.ModTime().Equal(cached.modTime) {
			cacheMutex.RUnlock()
			return cached.config
		}
	}
	cacheMutex.RUnlock()

	// Load configuration normally
	config := LoadConfigs(rootCmd, cwd)

	// Update cache
	cacheMutex.Lock()
	configCache[configFilePath] = &configCacheEntry{
		config:  config,
		modTime: fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return config
}

// ClearConfigCache clears all cached configuration files
func ClearConfigCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	configCache = make(map[string]*configCacheEntry)
}

// GetConfigCacheStats returns statistics about the configuration cache
func GetConfigCacheStats() map[string]interface{} {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()

	stats := make(map[string]interface{})
	stats["cached_files"] = len(configCache)
	stats["cache_entries"] = make([]string, 0, len(configCache))

	for path := range configCache {
		stats["cache_entries"] = append(stats["cache_entries"].([]string), path)
	}

	return stats
}

// InvalidateConfigCache removes a specific config file from cache
func InvalidateConfigCache(configPath string) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	delete(configCache, configPath)
}
