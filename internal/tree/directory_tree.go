package tree

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/dirtree/internal/services/clipboard"
	"github.com/temirov/dirtree/internal/tokenizer"
	"github.com/temirov/dirtree/internal/utils"
)

const (
	errorCreateOutputFormat = "creating output file %s: %w"
	errorWriteOutputFormat  = "writing to %s: %w"
	errorCloseOutputFormat  = "closing output file %s: %w"
	errorCopyFormat         = "copying diagram to clipboard: %w"
	errorCountTokensFormat  = "counting diagram tokens: %w"

	outputFilePermissions = 0o644
)

// DirectoryTree renders a root directory and delivers it to a Destination.
type DirectoryTree struct {
	rootPath     string
	dirOnly      bool
	destination  Destination
	generator    *Generator
	filesystem   afero.Fs
	console      io.Writer
	logger       *zap.Logger
	copier       clipboard.Copier
	tokenCounter tokenizer.Counter
}

// Option customizes a DirectoryTree.
type Option func(*DirectoryTree)

// WithFilesystem reads the hierarchy from, and creates output files on, filesystem.
func WithFilesystem(filesystem afero.Fs) Option {
	return func(directoryTree *DirectoryTree) {
		if filesystem != nil {
			directoryTree.filesystem = filesystem
		}
	}
}

// WithConsole replaces os.Stdout as the console writer.
func WithConsole(console io.Writer) Option {
	return func(directoryTree *DirectoryTree) {
		if console != nil {
			directoryTree.console = console
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(directoryTree *DirectoryTree) {
		if logger != nil {
			directoryTree.logger = logger
		}
	}
}

// WithCopier also copies the delivered text to the clipboard.
func WithCopier(copier clipboard.Copier) Option {
	return func(directoryTree *DirectoryTree) {
		directoryTree.copier = copier
	}
}

// WithTokenCounter logs the token count of the delivered text.
func WithTokenCounter(counter tokenizer.Counter) Option {
	return func(directoryTree *DirectoryTree) {
		directoryTree.tokenCounter = counter
	}
}

// NewDirectoryTree returns a DirectoryTree for rootPath. When dirOnly is false,
// which is the default at the command line, files are listed too.
func NewDirectoryTree(rootPath string, dirOnly bool, destination Destination, options ...Option) *DirectoryTree {
	directoryTree := &DirectoryTree{
		rootPath:    rootPath,
		dirOnly:     dirOnly,
		destination: destination,
		filesystem:  afero.NewOsFs(),
		console:     os.Stdout,
		logger:      zap.NewNop(),
	}
	for _, option := range options {
		option(directoryTree)
	}
	directoryTree.generator = NewGenerator(directoryTree.filesystem)
	return directoryTree
}

// Generate builds the diagram and writes it to the destination.
// A file destination receives the diagram between code fence lines.
func (directoryTree *DirectoryTree) Generate() error {
	directoryTree.logger.Debug("generating directory tree",
		zap.String("root", directoryTree.rootPath),
		zap.Bool("dir_only", directoryTree.dirOnly),
		zap.Stringer("destination", directoryTree.destination),
	)

	lines, buildError := directoryTree.generator.BuildTree(directoryTree.rootPath, directoryTree.dirOnly)
	if buildError != nil {
		return buildError
	}

	if directoryTree.destination.IsFile() {
		lines = fence(lines)
		if writeError := directoryTree.writeFile(lines); writeError != nil {
			return writeError
		}
	} else if writeError := writeLines(directoryTree.console, lines); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, directoryTree.destination, writeError)
	}

	return directoryTree.deliverExtras(lines)
}

func fence(lines []string) []string {
	fenced := make([]string, 0, len(lines)+2)
	fenced = append(fenced, CodeFence)
	fenced = append(fenced, lines...)
	return append(fenced, CodeFence)
}

func (directoryTree *DirectoryTree) writeFile(lines []string) (err error) {
	path := directoryTree.destination.Path
	outputFile, createError := directoryTree.filesystem.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputFilePermissions)
	if createError != nil {
		return fmt.Errorf(errorCreateOutputFormat, path, createError)
	}
	defer func() {
		if closeError := outputFile.Close(); closeError != nil {
			err = errors.Join(err, fmt.Errorf(errorCloseOutputFormat, path, closeError))
		}
	}()

	if writeError := writeLines(outputFile, lines); writeError != nil {
		return fmt.Errorf(errorWriteOutputFormat, path, writeError)
	}
	return nil
}

func writeLines(writer io.Writer, lines []string) error {
	for _, line := range lines {
		if _, writeError := fmt.Fprintln(writer, line); writeError != nil {
			return writeError
		}
	}
	return nil
}

// deliverExtras copies and measures the delivered text when configured to.
func (directoryTree *DirectoryTree) deliverExtras(lines []string) error {
	if directoryTree.copier != nil {
		if copyError := directoryTree.copier.Copy(utils.JoinLines(lines)); copyError != nil {
			return fmt.Errorf(errorCopyFormat, copyError)
		}
		directoryTree.logger.Debug("copied directory tree to clipboard", zap.Int("lines", len(lines)))
	}
	if directoryTree.tokenCounter != nil {
		tokens, countError := tokenizer.CountLines(directoryTree.tokenCounter, lines)
		if countError != nil {
			return fmt.Errorf(errorCountTokensFormat, countError)
		}
		directoryTree.logger.Info("directory tree tokens",
			zap.Int("tokens", tokens),
			zap.String("model", directoryTree.tokenCounter.Name()),
		)
	}
	return nil
}
