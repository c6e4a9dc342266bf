// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/dirtree/internal/config"
	"github.com/temirov/dirtree/internal/services/clipboard"
	"github.com/temirov/dirtree/internal/tokenizer"
	"github.com/temirov/dirtree/internal/tree"
	"github.com/temirov/dirtree/internal/utils"
)

const (
	dirOnlyFlagName         = "dir-only"
	dirOnlyFlagShorthand    = "d"
	outputFileFlagName      = "output-file"
	outputFileFlagShorthand = "o"
	copyFlagName            = "copy"
	tokensFlagName          = "tokens"
	modelFlagName           = "model"
	configFlagName          = "config"
	verboseFlagName         = "verbose"
	globalFlagName          = "global"
	forceFlagName           = "force"
	defaultPath             = "."
	versionTemplate         = "dirtree version: {{.Version}}\n"
	rootUse                 = "dirtree [ROOT_DIR]"
	rootShortDescription    = "Generate a directory tree diagram"
	rootLongDescription     = `dirtree prints a tree diagram of ROOT_DIR, directories first.
Use --dir-only to leave files out and --output-file to write the diagram to a file
wrapped in a Markdown code block.`
	rootUsageExample = `  # Print the current directory
  dirtree

  # Directories only, written to a Markdown-ready file
  dirtree ./project -d -o tree.md

  # Copy the diagram to the clipboard and report its token count
  dirtree ./project --copy --tokens`
	initUse              = "init"
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration to ./config.yaml, or to ~/.dirtree/config.yaml with --global.`

	dirOnlyFlagDescription    = "generate a directory-only tree"
	outputFileFlagDescription = "write the tree to this file as a fenced code block"
	copyFlagDescription       = "copy the generated tree to the clipboard"
	tokensFlagDescription     = "report the token count of the generated tree"
	modelFlagDescription      = "tokenizer model used by --tokens"
	configFlagDescription     = "path to a configuration file"
	verboseFlagDescription    = "log debug details to stderr"
	globalFlagDescription     = "write the global configuration"
	forceFlagDescription      = "overwrite an existing configuration"

	errorRootMissingFormat      = "the specified root directory %s doesn't exist: %w"
	errorRootInspectFormat      = "inspecting root directory %s: %w"
	errorRootNotDirectoryFormat = "the specified root directory %s is not a directory: %w"
	configWrittenFormat         = "configuration written to %s\n"
)

// Execute runs the dirtree application.
func Execute(logger *zap.Logger, level zap.AtomicLevel) error {
	rootCommand := createRootCommand(logger, level)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// treeOptions stores the flag values of the root command.
type treeOptions struct {
	dirOnly    bool
	outputFile string
	copy       bool
	tokens     bool
	model      string
	configPath string
	verbose    bool
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger, level zap.AtomicLevel) *cobra.Command {
	var options treeOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Version:      utils.GetApplicationVersion(),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if options.verbose {
				level.SetLevel(zapcore.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}
			loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: options.configPath})
			if loadError != nil {
				return loadError
			}
			resolved := resolveTreeOptions(command, options, loadedConfiguration.Tree)
			return runTree(command, logger, rootPath, resolved)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)

	flags := rootCommand.Flags()
	registerBooleanFlag(flags, &options.dirOnly, dirOnlyFlagName, dirOnlyFlagShorthand, false, dirOnlyFlagDescription)
	flags.StringVarP(&options.outputFile, outputFileFlagName, outputFileFlagShorthand, utils.EmptyString, outputFileFlagDescription)
	registerBooleanFlag(flags, &options.copy, copyFlagName, "", false, copyFlagDescription)
	registerBooleanFlag(flags, &options.tokens, tokensFlagName, "", false, tokensFlagDescription)
	flags.StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	flags.StringVar(&options.configPath, configFlagName, utils.EmptyString, configFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &options.verbose, verboseFlagName, "", false, verboseFlagDescription)

	rootCommand.AddCommand(createInitCommand())
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// resolveTreeOptions applies configured values to every flag the user did not set.
func resolveTreeOptions(command *cobra.Command, options treeOptions, configured config.TreeConfiguration) treeOptions {
	resolved := options
	flags := command.Flags()
	if !flags.Changed(dirOnlyFlagName) {
		resolved.dirOnly = config.BoolOrDefault(configured.DirOnly, options.dirOnly)
	}
	if !flags.Changed(outputFileFlagName) && configured.OutputFile != "" {
		resolved.outputFile = configured.OutputFile
	}
	if !flags.Changed(copyFlagName) {
		resolved.copy = config.BoolOrDefault(configured.Copy, options.copy)
	}
	if !flags.Changed(tokensFlagName) {
		resolved.tokens = config.BoolOrDefault(configured.Tokens.Enabled, options.tokens)
	}
	if !flags.Changed(modelFlagName) && configured.Tokens.Model != "" {
		resolved.model = configured.Tokens.Model
	}
	return resolved
}

func runTree(command *cobra.Command, logger *zap.Logger, rootPath string, options treeOptions) error {
	info, statError := os.Stat(rootPath)
	switch {
	case errors.Is(statError, fs.ErrNotExist):
		return fmt.Errorf(errorRootMissingFormat, rootPath, statError)
	case statError != nil:
		return fmt.Errorf(errorRootInspectFormat, rootPath, statError)
	case !info.IsDir():
		return fmt.Errorf(errorRootNotDirectoryFormat, rootPath, tree.ErrNotDirectory)
	}

	destination := tree.ConsoleDestination()
	if options.outputFile != "" {
		destination = tree.FileDestination(options.outputFile)
	}

	treeOptionList := []tree.Option{
		tree.WithConsole(command.OutOrStdout()),
		tree.WithLogger(logger),
	}
	if options.copy {
		treeOptionList = append(treeOptionList, tree.WithCopier(clipboard.NewService()))
	}
	if options.tokens {
		counter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: options.model})
		if counterError != nil {
			return counterError
		}
		logger.Debug("token counter ready", zap.String("model", resolvedModel))
		treeOptionList = append(treeOptionList, tree.WithTokenCounter(counter))
	}

	return tree.NewDirectoryTree(rootPath, options.dirOnly, destination, treeOptionList...).Generate()
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{Target: target, Force: force})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), configWrittenFormat, path)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, "", false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, "", false, forceFlagDescription)
	return initCommand
}
