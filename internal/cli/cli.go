// Package cli provides the scheme command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/scheme/internal/config"
	"github.com/temirov/scheme/internal/output"
	"github.com/temirov/scheme/internal/services/clipboard"
	"github.com/temirov/scheme/internal/tokenizer"
	"github.com/temirov/scheme/internal/tree"
	"github.com/temirov/scheme/internal/utils"
)

const (
	outputFlagName           = "output"
	outputFlagShorthand      = "o"
	ignoreDirFlagName        = "ignore-dir"
	ignoreDirFlagShorthand   = "d"
	ignoreFileFlagName       = "ignore-file"
	ignoreFileFlagShorthand  = "i"
	noDefaultIgnoresFlagName = "no-default-ignores"
	lastVisibleFlagName      = "last-visible"
	clipboardFlagName        = "clipboard"
	tokensFlagName           = "tokens"
	modelFlagName            = "model"
	configFlagName           = "config"
	versionFlagName          = "version"
	globalFlagName           = "global"
	forceFlagName            = "force"

	defaultPath       = "."
	defaultOutputPath = "scheme.txt"
	versionTemplate   = "scheme version: %s\n"

	rootUse              = "scheme [path]"
	rootShortDescription = "render a directory tree into a text file"
	rootLongDescription  = `scheme walks a directory and draws it as an indented tree.
Directories are listed before files and each group is sorted by name.
The diagram is written to scheme.txt unless --output says otherwise; use --output - for stdout.`
	rootUsageExample = `  # Render the current directory into scheme.txt
  scheme

  # Skip dependency folders and logs, print to stdout
  scheme ./web -d node_modules -i '*.log' -o -`

	initUse              = "init"
	initShortDescription = "write a default configuration file"
	versionUse           = "version"
	versionShortDesc     = "print the application version"

	outputFlagDescription           = "output file, or - for stdout"
	ignoreDirFlagDescription        = "directory name to skip (repeatable)"
	ignoreFileFlagDescription       = "glob pattern of entry names to skip (repeatable)"
	noDefaultIgnoresFlagDescription = "do not apply the built-in ignore patterns"
	lastVisibleFlagDescription      = "close each listing with the last printed entry"
	clipboardFlagDescription        = "also copy the tree to the clipboard"
	tokensFlagDescription           = "log a token estimate of the rendered tree"
	modelFlagDescription            = "tokenizer model used with --tokens"
	configFlagDescription           = "configuration file to use instead of ./" + utils.ConfigFileName
	versionFlagDescription          = "display application version"
	globalFlagDescription           = "write the configuration under the home directory"
	forceFlagDescription            = "overwrite an existing configuration file"

	workingDirectoryErrorMessage = "determine working directory"
	treeWrittenMessage           = "tree written"
	configurationWrittenMessage  = "configuration written"
	tokenEstimateMessage         = "token estimate"
	clipboardWarningMessage      = "clipboard copy failed"
	tokenizerWarningMessage      = "token estimate unavailable"
	settingsResolvedMessage      = "settings resolved"
)

// CounterFactory builds a token counter for the configured model.
type CounterFactory func(tokenizer.Config) (tokenizer.Counter, string, error)

// Dependencies carries the collaborators used by the commands.
// Empty directories resolve to the process working directory and the user's home.
type Dependencies struct {
	Logger           *zap.Logger
	Copier           clipboard.Copier
	NewCounter       CounterFactory
	WorkingDirectory string
	HomeDirectory    string
}

// renderFlags stores the values of the root command flags.
type renderFlags struct {
	outputPath       string
	ignoreDirs       []string
	ignoreFiles      []string
	noDefaultIgnores bool
	lastVisible      bool
	clipboard        bool
	tokens           bool
	model            string
	configPath       string
	showVersion      bool
}

// renderSettings is the outcome of merging defaults, configuration files, and flags.
type renderSettings struct {
	outputPath  string
	treeOptions tree.Options
	clipboard   bool
	tokens      bool
	model       string
}

// Execute runs the scheme application.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{
		Logger:     logger,
		Copier:     clipboard.NewService(),
		NewCounter: tokenizer.NewCounter,
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// NewRootCommand builds the root Cobra command and its subcommands.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	if dependencies.NewCounter == nil {
		dependencies.NewCounter = tokenizer.NewCounter
	}

	var flags renderFlags
	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if flags.showVersion {
				_, printErr := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return printErr
			}
			rootPath := defaultPath
			if len(arguments) > 0 {
				rootPath = arguments[0]
			}
			return runRender(command, rootPath, flags, dependencies)
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVarP(&flags.outputPath, outputFlagName, outputFlagShorthand, defaultOutputPath, outputFlagDescription)
	flagSet.StringArrayVarP(&flags.ignoreDirs, ignoreDirFlagName, ignoreDirFlagShorthand, nil, ignoreDirFlagDescription)
	flagSet.StringArrayVarP(&flags.ignoreFiles, ignoreFileFlagName, ignoreFileFlagShorthand, nil, ignoreFileFlagDescription)
	registerBooleanFlag(flagSet, &flags.noDefaultIgnores, noDefaultIgnoresFlagName, false, noDefaultIgnoresFlagDescription)
	registerBooleanFlag(flagSet, &flags.lastVisible, lastVisibleFlagName, false, lastVisibleFlagDescription)
	registerBooleanFlag(flagSet, &flags.clipboard, clipboardFlagName, false, clipboardFlagDescription)
	registerBooleanFlag(flagSet, &flags.tokens, tokensFlagName, false, tokensFlagDescription)
	flagSet.StringVar(&flags.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flagSet.StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(flagSet, &flags.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(
		createInitCommand(dependencies),
		createVersionCommand(),
	)
	return rootCommand
}

// runRender renders rootPath and delivers the diagram to the configured destinations.
func runRender(command *cobra.Command, rootPath string, flags renderFlags, dependencies Dependencies) error {
	logger := dependencies.Logger
	workingDirectory, workingDirectoryErr := resolveWorkingDirectory(dependencies.WorkingDirectory)
	if workingDirectoryErr != nil {
		return workingDirectoryErr
	}

	configuration, configurationErr := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: flags.configPath,
		HomeDirectory:    dependencies.HomeDirectory,
	})
	if configurationErr != nil {
		return configurationErr
	}
	settings := resolveSettings(configuration, flags, command.Flags())
	logger.Debug(settingsResolvedMessage,
		zap.String("output", settings.outputPath),
		zap.Strings("ignore_dirs", settings.treeOptions.IgnoreDirs),
		zap.Strings("ignore_files", settings.treeOptions.IgnoreFiles),
		zap.Bool("last_visible", settings.treeOptions.LastVisible),
	)

	rendered, renderErr := tree.Render(resolveAgainst(workingDirectory, rootPath), settings.treeOptions)
	if renderErr != nil {
		return renderErr
	}

	destination := settings.outputPath
	if destination != output.StandardOutputPath {
		destination = resolveAgainst(workingDirectory, destination)
	}
	if deliverErr := output.Deliver(destination, rendered, command.OutOrStdout()); deliverErr != nil {
		return deliverErr
	}
	if destination != output.StandardOutputPath {
		logger.Info(treeWrittenMessage,
			zap.String("path", destination),
			zap.Int("lines", strings.Count(rendered, "\n")+1),
		)
	}

	if settings.clipboard {
		if copyErr := dependencies.Copier.Copy(rendered); copyErr != nil {
			logger.Warn(clipboardWarningMessage, zap.Error(copyErr))
		}
	}
	if settings.tokens {
		reportTokenEstimate(logger, dependencies.NewCounter, settings.model, rendered)
	}
	return nil
}

func reportTokenEstimate(logger *zap.Logger, newCounter CounterFactory, model string, rendered string) {
	counter, resolvedModel, counterErr := newCounter(tokenizer.Config{Model: model})
	if counterErr != nil {
		logger.Warn(tokenizerWarningMessage, zap.Error(counterErr))
		return
	}
	tokens, countErr := tokenizer.CountText(counter, rendered)
	if countErr != nil {
		logger.Warn(tokenizerWarningMessage, zap.Error(countErr))
		return
	}
	logger.Info(tokenEstimateMessage, zap.Int("tokens", tokens), zap.String("model", resolvedModel))
}

// resolveSettings applies precedence: built-in defaults, then configuration files, then flags set on the command line.
func resolveSettings(configuration config.ApplicationConfiguration, flags renderFlags, flagSet *pflag.FlagSet) renderSettings {
	settings := renderSettings{
		outputPath: defaultOutputPath,
		clipboard:  config.BoolValue(configuration.Clipboard, false),
		tokens:     config.BoolValue(configuration.Tokens.Enabled, false),
		model:      tokenizer.DefaultModel,
	}
	if configuration.Output != "" {
		settings.outputPath = configuration.Output
	}
	if flagSet.Changed(outputFlagName) {
		settings.outputPath = flags.outputPath
	}
	if configuration.Tokens.Model != "" {
		settings.model = configuration.Tokens.Model
	}
	if flagSet.Changed(modelFlagName) {
		settings.model = flags.model
	}
	if flagSet.Changed(clipboardFlagName) {
		settings.clipboard = flags.clipboard
	}
	if flagSet.Changed(tokensFlagName) {
		settings.tokens = flags.tokens
	}

	useDefaultIgnores := config.BoolValue(configuration.DefaultIgnores, true)
	if flagSet.Changed(noDefaultIgnoresFlagName) {
		useDefaultIgnores = !flags.noDefaultIgnores
	}
	var ignoreFiles []string
	if useDefaultIgnores {
		ignoreFiles = append(ignoreFiles, tree.DefaultIgnoreFiles...)
	}
	ignoreFiles = utils.MergePatterns(ignoreFiles, configuration.IgnoreFiles)
	ignoreFiles = utils.MergePatterns(ignoreFiles, flags.ignoreFiles)

	lastVisible := config.BoolValue(configuration.LastVisible, false)
	if flagSet.Changed(lastVisibleFlagName) {
		lastVisible = flags.lastVisible
	}

	settings.treeOptions = tree.Options{
		IgnoreDirs:  utils.MergePatterns(configuration.IgnoreDirs, flags.ignoreDirs),
		IgnoreFiles: ignoreFiles,
		LastVisible: lastVisible,
	}
	return settings
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			workingDirectory, workingDirectoryErr := resolveWorkingDirectory(dependencies.WorkingDirectory)
			if workingDirectoryErr != nil {
				return workingDirectoryErr
			}
			path, initErr := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: workingDirectory,
				HomeDirectory:    dependencies.HomeDirectory,
			})
			if initErr != nil {
				return initErr
			}
			dependencies.Logger.Info(configurationWrittenMessage, zap.String("path", path))
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// createVersionCommand returns the version subcommand.
func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   versionUse,
		Short: versionShortDesc,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			_, printErr := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
			return printErr
		},
	}
}

func resolveWorkingDirectory(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	currentDirectory, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, workingDirectoryErrorMessage)
	}
	return currentDirectory, nil
}

func resolveAgainst(workingDirectory string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDirectory, path)
}
