// Package tree renders a directory hierarchy as an indented text diagram.
package tree

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

const (
	rootLabelPrefix = "/"
	lineSeparator   = "\n"

	branchConnector = "├── "
	lastConnector   = "└── "
	branchIndent    = "│   "
	lastIndent      = "    "

	errorAbsolutePathFormat     = "resolving absolute path for %s"
	errorStatRootFormat         = "reading root %s"
	errorRootNotDirectoryFormat = "root %s is not a directory"
	errorListDirectoryFormat    = "listing directory %s"
)

// DefaultIgnoreFiles lists the glob patterns excluded when no other set is configured.
var DefaultIgnoreFiles = []string{
	"*.pyc",
	".DS_Store",
	"generate_structure.py",
	"scheme.txt",
	"design.txt",
}

// Options configures a Renderer.
type Options struct {
	// IgnoreDirs holds bare names excluded by exact match.
	IgnoreDirs []string
	// IgnoreFiles holds glob patterns matched against every entry name.
	IgnoreFiles []string
	// LastVisible selects the closing connector among the entries that survive
	// exclusion. When false the closing connector belongs to the last sorted
	// entry, even if that entry is excluded and never printed.
	LastVisible bool
}

// DefaultOptions returns options carrying DefaultIgnoreFiles and no directory exclusions.
func DefaultOptions() Options {
	return Options{IgnoreFiles: append([]string(nil), DefaultIgnoreFiles...)}
}

// Renderer walks a filesystem and produces tree diagrams.
type Renderer struct {
	fileSystem  afero.Fs
	matcher     *Matcher
	lastVisible bool
}

type treeEntry struct {
	name        string
	path        string
	isDirectory bool
}

// NewRenderer constructs a Renderer over the provided filesystem.
func NewRenderer(fileSystem afero.Fs, options Options) (*Renderer, error) {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	matcher, matcherError := NewMatcher(options.IgnoreDirs, options.IgnoreFiles)
	if matcherError != nil {
		return nil, matcherError
	}
	return &Renderer{
		fileSystem:  fileSystem,
		matcher:     matcher,
		lastVisible: options.LastVisible,
	}, nil
}

// Render draws the tree rooted at rootPath on the OS filesystem.
func Render(rootPath string, options Options) (string, error) {
	renderer, rendererError := NewRenderer(afero.NewOsFs(), options)
	if rendererError != nil {
		return "", rendererError
	}
	return renderer.Render(rootPath)
}

// Render returns the diagram for rootPath as newline-joined lines without a trailing newline.
func (renderer *Renderer) Render(rootPath string) (string, error) {
	lines, linesError := renderer.Lines(rootPath)
	if linesError != nil {
		return "", linesError
	}
	return strings.Join(lines, lineSeparator), nil
}

// Lines returns the diagram for rootPath one line per element.
// The first line is the root label; the root itself is never excluded.
func (renderer *Renderer) Lines(rootPath string) ([]string, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, errors.Mark(errors.Wrapf(absolutePathError, errorAbsolutePathFormat, rootPath), ErrInvalidRoot)
	}
	rootInfo, statError := renderer.fileSystem.Stat(absoluteRootPath)
	if statError != nil {
		return nil, errors.Mark(errors.Wrapf(statError, errorStatRootFormat, absoluteRootPath), ErrInvalidRoot)
	}
	if !rootInfo.IsDir() {
		return nil, errors.Mark(errors.Newf(errorRootNotDirectoryFormat, absoluteRootPath), ErrInvalidRoot)
	}

	lines := []string{rootLabelPrefix + rootName(absoluteRootPath)}
	return renderer.appendChildren(lines, absoluteRootPath, "")
}

// appendChildren adds one line per surviving child of directoryPath and descends into directories.
func (renderer *Renderer) appendChildren(lines []string, directoryPath string, prefix string) ([]string, error) {
	entries, listError := renderer.listDirectory(directoryPath)
	if listError != nil {
		return nil, listError
	}
	if renderer.lastVisible {
		entries = renderer.visibleEntries(entries)
	}

	lastIndex := len(entries) - 1
	for entryIndex, entry := range entries {
		if renderer.matcher.Matches(entry.name) {
			continue
		}

		connector := branchConnector
		childPrefix := prefix + branchIndent
		if entryIndex == lastIndex {
			connector = lastConnector
			childPrefix = prefix + lastIndent
		}
		lines = append(lines, prefix+connector+entry.name)

		if !entry.isDirectory {
			continue
		}
		var descendError error
		lines, descendError = renderer.appendChildren(lines, entry.path, childPrefix)
		if descendError != nil {
			return nil, descendError
		}
	}
	return lines, nil
}

// listDirectory returns the children of directoryPath with directories first, then by name.
func (renderer *Renderer) listDirectory(directoryPath string) ([]treeEntry, error) {
	directoryInfos, readDirectoryError := afero.ReadDir(renderer.fileSystem, directoryPath)
	if readDirectoryError != nil {
		return nil, errors.Mark(errors.Wrapf(readDirectoryError, errorListDirectoryFormat, directoryPath), ErrListingDenied)
	}

	entries := make([]treeEntry, 0, len(directoryInfos))
	for _, directoryInfo := range directoryInfos {
		childPath := filepath.Join(directoryPath, directoryInfo.Name())
		entries = append(entries, treeEntry{
			name:        directoryInfo.Name(),
			path:        childPath,
			isDirectory: renderer.isDirectory(childPath, directoryInfo),
		})
	}

	sort.SliceStable(entries, func(leftIndex, rightIndex int) bool {
		left, right := entries[leftIndex], entries[rightIndex]
		if left.isDirectory != right.isDirectory {
			return left.isDirectory
		}
		return left.name < right.name
	})
	return entries, nil
}

// isDirectory follows symbolic links; a dangling link counts as a file.
func (renderer *Renderer) isDirectory(path string, info os.FileInfo) bool {
	if info.Mode()&os.ModeSymlink == 0 {
		return info.IsDir()
	}
	targetInfo, statError := renderer.fileSystem.Stat(path)
	if statError != nil {
		return false
	}
	return targetInfo.IsDir()
}

func (renderer *Renderer) visibleEntries(entries []treeEntry) []treeEntry {
	visible := make([]treeEntry, 0, len(entries))
	for _, entry := range entries {
		if !renderer.matcher.Matches(entry.name) {
			visible = append(visible, entry)
		}
	}
	return visible
}

// rootName returns the base name of an absolute path, or an empty string for a filesystem root.
func rootName(absolutePath string) string {
	baseName := filepath.Base(absolutePath)
	if baseName == string(filepath.Separator) || baseName == "." || strings.HasSuffix(baseName, string(filepath.Separator)) {
		return ""
	}
	return baseName
}
