package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/temirov/scheme/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `# scheme configuration
output: scheme.txt
# directory names skipped entirely, e.g. [node_modules, .git]
ignore_dirs: []
# glob patterns matched against every entry name
ignore_files: []
# also apply *.pyc, .DS_Store, generate_structure.py, scheme.txt, design.txt
default_ignores: true
# close each listing with the last printed entry instead of the last sorted one
last_visible: false
clipboard: false
tokens:
  enabled: false
  model: gpt-4o
`
)

// ErrConfigurationExists is returned when init would overwrite a file without Force.
var ErrConfigurationExists = errors.New("configuration file already exists")

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// InitializeConfiguration writes the default configuration to the requested target and returns its path.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", errors.Wrap(err, "determine working directory for configuration")
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			resolvedHome, err := os.UserHomeDir()
			if err != nil {
				return "", errors.Wrap(err, "resolve home directory for configuration")
			}
			homeDirectory = resolvedHome
		}
		destinationPath = GlobalConfigurationPath(homeDirectory)
		configurationDirectory := filepath.Dir(destinationPath)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", errors.Wrapf(err, "create configuration directory %s", configurationDirectory)
		}
	default:
		return "", errors.Newf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", errors.Wrapf(ErrConfigurationExists, "at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "inspect configuration path %s", destinationPath)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", errors.Wrapf(err, "write configuration to %s", destinationPath)
	}
	return destinationPath, nil
}
