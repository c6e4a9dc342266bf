package tree

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// hierarchy lists slash-separated paths under a root; a trailing slash marks a directory.
type hierarchy []string

func newFilesystem(t *testing.T, root string, entries hierarchy) afero.Fs {
	t.Helper()
	filesystem := afero.NewMemMapFs()
	require.NoError(t, filesystem.MkdirAll(root, 0o755))
	for _, entry := range entries {
		path := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(entry, "/")))
		if strings.HasSuffix(entry, "/") {
			require.NoError(t, filesystem.MkdirAll(path, 0o755))
			continue
		}
		require.NoError(t, filesystem.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(filesystem, path, []byte(entry), 0o644))
	}
	return filesystem
}

func rootLine(t *testing.T, root string) string {
	t.Helper()
	absoluteRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	return absoluteRoot + separator
}

func TestBuildTree(t *testing.T) {
	testCases := []struct {
		name     string
		root     string
		entries  hierarchy
		dirOnly  bool
		expected []string
	}{
		{
			name:    "directory_and_file",
			root:    "/tmp/x",
			entries: hierarchy{"a/f.txt", "b.txt"},
			expected: []string{
				"├── a" + separator,
				"│   └── f.txt",
				"│",
				"└── b.txt",
			},
		},
		{
			name:     "empty_root",
			root:     "/tmp/empty",
			entries:  nil,
			expected: []string{},
		},
		{
			name:    "directory_only_omits_files",
			root:    "/tmp/x",
			entries: hierarchy{"note.txt", "sub/"},
			dirOnly: true,
			expected: []string{
				"└── sub" + separator,
				"",
			},
		},
		{
			name:    "directories_precede_files",
			root:    "/tmp/sorted",
			entries: hierarchy{"a.txt", "b/", "c.txt", "d/"},
			expected: []string{
				"├── b" + separator,
				"│",
				"├── d" + separator,
				"│",
				"├── a.txt",
				"└── c.txt",
			},
		},
		{
			name:    "nested_project",
			root:    "/r",
			entries: hierarchy{"docs/guide.md", "src/main.go", "src/pkg/", "README.md"},
			expected: []string{
				"├── docs" + separator,
				"│   └── guide.md",
				"│",
				"├── src" + separator,
				"│   ├── pkg" + separator,
				"│   │",
				"│   └── main.go",
				"│",
				"└── README.md",
			},
		},
		{
			name:    "nested_project_directories_only",
			root:    "/r",
			entries: hierarchy{"docs/guide.md", "src/main.go", "src/pkg/", "README.md"},
			dirOnly: true,
			expected: []string{
				"├── docs" + separator,
				"│",
				"└── src" + separator,
				"    └── pkg" + separator,
				"",
				"",
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			generator := NewGenerator(newFilesystem(t, testCase.root, testCase.entries))
			lines, err := generator.BuildTree(testCase.root, testCase.dirOnly)
			require.NoError(t, err)

			expected := append([]string{rootLine(t, testCase.root), Pipe}, testCase.expected...)
			require.Equal(t, expected, lines)
		})
	}
}

func TestBuildTreeLineCountMatchesEntries(t *testing.T) {
	entries := hierarchy{"a/b/c/d.txt", "a/b/e.txt", "a/f/", "g.txt", "h/i.txt", "h/j/k.txt"}
	generator := NewGenerator(newFilesystem(t, "/count", entries))

	lines, err := generator.BuildTree("/count", false)
	require.NoError(t, err)

	// files: d.txt e.txt g.txt i.txt k.txt; directories: a b c f h j, each with a closing line.
	const files, directories = 5, 6
	require.Len(t, lines, 2+files+2*directories)
}

func TestBuildTreeSingleElbowPerSiblingGroup(t *testing.T) {
	entries := hierarchy{"one.txt", "two.txt", "three/", "four/five.txt", "four/six.txt"}
	generator := NewGenerator(newFilesystem(t, "/groups", entries))

	lines, err := generator.BuildTree("/groups", false)
	require.NoError(t, err)

	elbowsByPrefix := map[string]int{}
	for _, line := range lines[2:] {
		if index := strings.Index(line, Elbow); index >= 0 {
			elbowsByPrefix[line[:index]]++
		}
	}
	require.Equal(t, map[string]int{"": 1, PipePrefix: 1}, elbowsByPrefix)
}

func TestBuildTreeDirectoryOnlyListsNoFiles(t *testing.T) {
	entries := hierarchy{"x.txt", "y/z.txt", "y/w/", "v/"}
	generator := NewGenerator(newFilesystem(t, "/dirs", entries))

	lines, err := generator.BuildTree("/dirs", true)
	require.NoError(t, err)
	for _, line := range lines[2:] {
		trimmed := strings.TrimSpace(strings.NewReplacer(Tee, "", Elbow, "", "│", "").Replace(line))
		if trimmed == "" {
			continue
		}
		require.True(t, strings.HasSuffix(trimmed, separator), "unexpected file line %q", line)
	}
}

func TestBuildTreeRootErrors(t *testing.T) {
	filesystem := newFilesystem(t, "/present", hierarchy{"file.txt"})
	generator := NewGenerator(filesystem)

	_, missingErr := generator.BuildTree("/absent", false)
	require.Error(t, missingErr)
	require.True(t, errors.Is(missingErr, fs.ErrNotExist))

	_, fileErr := generator.BuildTree("/present/file.txt", false)
	require.ErrorIs(t, fileErr, ErrNotDirectory)
}

// unreadableFs fails to open one directory.
type unreadableFs struct {
	afero.Fs
	unreadable string
}

var errPermissionDenied = errors.New("permission denied")

func (filesystem unreadableFs) Open(name string) (afero.File, error) {
	if name == filesystem.unreadable {
		return nil, &fs.PathError{Op: "open", Path: name, Err: errPermissionDenied}
	}
	return filesystem.Fs.Open(name)
}

func TestBuildTreeTraversalErrorNamesPath(t *testing.T) {
	base := newFilesystem(t, "/walk", hierarchy{"ok/a.txt", "locked/b.txt"})
	lockedPath := filepath.Join("/walk", "locked")
	generator := NewGenerator(unreadableFs{Fs: base, unreadable: lockedPath})

	lines, err := generator.BuildTree("/walk", false)
	require.Nil(t, lines)
	require.ErrorIs(t, err, errPermissionDenied)
	require.Contains(t, err.Error(), lockedPath)
}

func TestBuildTreeFollowsDirectorySymlinks(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "real"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "real", "inner.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o600))
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "broken")))

	generator := NewGenerator(afero.NewOsFs())

	lines, err := generator.BuildTree(root, false)
	require.NoError(t, err)
	require.Equal(t, []string{
		rootLine(t, root),
		Pipe,
		"├── link" + separator,
		"│   └── inner.txt",
		"│",
		"├── real" + separator,
		"│   └── inner.txt",
		"│",
		"├── a.txt",
		"└── broken",
	}, lines)

	directoryLines, err := generator.BuildTree(root, true)
	require.NoError(t, err)
	require.Equal(t, []string{
		rootLine(t, root),
		Pipe,
		"├── link" + separator,
		"│",
		"└── real" + separator,
		"",
	}, directoryLines)
}
