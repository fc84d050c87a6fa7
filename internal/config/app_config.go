// Package config loads the scheme configuration files.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/temirov/scheme/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	HomeDirectory    string
}

// ApplicationConfiguration holds rendering and delivery defaults.
// Pointer fields distinguish an unset value from an explicit false.
type ApplicationConfiguration struct {
	Output         string             `mapstructure:"output"`
	IgnoreDirs     []string           `mapstructure:"ignore_dirs"`
	IgnoreFiles    []string           `mapstructure:"ignore_files"`
	DefaultIgnores *bool              `mapstructure:"default_ignores"`
	LastVisible    *bool              `mapstructure:"last_visible"`
	Clipboard      *bool              `mapstructure:"clipboard"`
	Tokens         TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token estimation defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// GlobalConfigurationPath returns the global configuration file location under homeDirectory.
func GlobalConfigurationPath(homeDirectory string) string {
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
}

// LoadApplicationConfiguration loads configuration from the global and local files.
// Missing files are skipped; the local file overrides the global one.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, errors.Wrap(err, "determine working directory")
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalConfig, loadErr := loadConfigurationFromPath(GlobalConfigurationPath(homeDirectory))
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if options.ExplicitFilePath != "" {
		if _, statErr := os.Stat(localPath); statErr != nil {
			return ApplicationConfiguration{}, errors.Wrapf(statErr, "read configuration %s", localPath)
		}
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.IgnoreDirs = utils.DeduplicatePatterns(merged.IgnoreDirs)
	merged.IgnoreFiles = utils.DeduplicatePatterns(merged.IgnoreFiles)
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) string {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName)
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath
	}
	return filepath.Join(workingDirectory, explicitPath)
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, errors.Wrapf(statErr, "stat configuration %s", path)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, errors.Newf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, errors.Wrapf(readErr, "read configuration from %s", path)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, errors.Wrapf(decodeErr, "decode configuration from %s", path)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config.clone()
	if override.Output != "" {
		result.Output = override.Output
	}
	if len(override.IgnoreDirs) > 0 {
		result.IgnoreDirs = append([]string{}, override.IgnoreDirs...)
	}
	if len(override.IgnoreFiles) > 0 {
		result.IgnoreFiles = append([]string{}, override.IgnoreFiles...)
	}
	if override.DefaultIgnores != nil {
		result.DefaultIgnores = cloneBool(override.DefaultIgnores)
	}
	if override.LastVisible != nil {
		result.LastVisible = cloneBool(override.LastVisible)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config ApplicationConfiguration) clone() ApplicationConfiguration {
	result := config
	result.IgnoreDirs = append([]string(nil), config.IgnoreDirs...)
	result.IgnoreFiles = append([]string(nil), config.IgnoreFiles...)
	result.DefaultIgnores = cloneBool(config.DefaultIgnores)
	result.LastVisible = cloneBool(config.LastVisible)
	result.Clipboard = cloneBool(config.Clipboard)
	result.Tokens.Enabled = cloneBool(config.Tokens.Enabled)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

// BoolValue dereferences value, returning fallback when it is unset.
func BoolValue(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
