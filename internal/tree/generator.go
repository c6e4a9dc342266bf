// Package tree renders directory hierarchies as text diagrams.
package tree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/spf13/afero"
)

const (
	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorStatRootFormat is used when the root cannot be inspected.
	errorStatRootFormat = "inspecting root directory %s: %w"
	// errorRootNotDirectoryFormat is used when the root exists but is not a directory.
	errorRootNotDirectoryFormat = "root %s: %w"
	// errorReadDirectoryFormat is used when a directory cannot be listed.
	errorReadDirectoryFormat = "reading directory %s: %w"
)

// ErrNotDirectory reports a root path that is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Generator walks a directory hierarchy and produces diagram lines.
type Generator struct {
	filesystem afero.Fs
}

// NewGenerator returns a Generator reading from filesystem.
// A nil filesystem reads from the host operating system.
func NewGenerator(filesystem afero.Fs) *Generator {
	if filesystem == nil {
		filesystem = afero.NewOsFs()
	}
	return &Generator{filesystem: filesystem}
}

// BuildTree returns the full diagram for rootPath, header lines first.
// Any filesystem failure aborts the walk and no lines are returned.
func (generator *Generator) BuildTree(rootPath string, dirOnly bool) ([]string, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	rootInfo, statError := generator.filesystem.Stat(absoluteRootPath)
	if statError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, absoluteRootPath, statError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotDirectoryFormat, absoluteRootPath, ErrNotDirectory)
	}

	lines := []string{headLine(absoluteRootPath), Pipe}
	lines, bodyError := generator.appendBody(lines, absoluteRootPath, "", dirOnly)
	if bodyError != nil {
		return nil, bodyError
	}
	return lines, nil
}

func headLine(absoluteRootPath string) string {
	if strings.HasSuffix(absoluteRootPath, separator) {
		return absoluteRootPath
	}
	return absoluteRootPath + separator
}

// entry is one listed child of a directory.
type entry struct {
	name  string
	isDir bool
}

// appendBody appends one line per entry of directoryPath and recurses into subdirectories.
func (generator *Generator) appendBody(lines []string, directoryPath string, prefix string, dirOnly bool) ([]string, error) {
	entries, entriesError := generator.prepareEntries(directoryPath, dirOnly)
	if entriesError != nil {
		return nil, entriesError
	}

	entriesCount := len(entries)
	for index, child := range entries {
		isLast := index == entriesCount-1
		connector := Tee
		if isLast {
			connector = Elbow
		}

		if !child.isDir {
			lines = append(lines, prefix+connector+" "+child.name)
			continue
		}

		lines = append(lines, prefix+connector+" "+child.name+separator)
		childPrefix := prefix + PipePrefix
		if isLast {
			childPrefix = prefix + SpacePrefix
		}
		var childError error
		lines, childError = generator.appendBody(lines, filepath.Join(directoryPath, child.name), childPrefix, dirOnly)
		if childError != nil {
			return nil, childError
		}
		lines = append(lines, strings.TrimRightFunc(childPrefix, unicode.IsSpace))
	}
	return lines, nil
}

// prepareEntries lists directoryPath. In dirOnly mode files are dropped and the
// listing order is kept; otherwise directories are moved ahead of files.
func (generator *Generator) prepareEntries(directoryPath string, dirOnly bool) ([]entry, error) {
	infos, readError := afero.ReadDir(generator.filesystem, directoryPath)
	if readError != nil {
		return nil, fmt.Errorf(errorReadDirectoryFormat, directoryPath, readError)
	}

	entries := make([]entry, 0, len(infos))
	for _, info := range infos {
		isDir := generator.isDirectory(directoryPath, info)
		if dirOnly && !isDir {
			continue
		}
		entries = append(entries, entry{name: info.Name(), isDir: isDir})
	}
	if dirOnly {
		return entries, nil
	}

	sort.SliceStable(entries, func(left, right int) bool {
		return entries[left].isDir && !entries[right].isDir
	})
	return entries, nil
}

// isDirectory follows symbolic links. A dangling link counts as a file.
func (generator *Generator) isDirectory(directoryPath string, info os.FileInfo) bool {
	if info.Mode()&os.ModeSymlink == 0 {
		return info.IsDir()
	}
	target, statError := generator.filesystem.Stat(filepath.Join(directoryPath, info.Name()))
	return statError == nil && target.IsDir()
}
