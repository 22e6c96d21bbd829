package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fwojciec/sitemapgen"
)

// Ensure Store implements sitemapgen.ResultStore at compile time.
var _ sitemapgen.ResultStore = (*Store)(nil)

// tmpDirName is the staging directory created inside the output directory.
const tmpDirName = ".sitemapgen-tmp"

// Store implements sitemapgen.ResultStore with atomic update semantics.
// Files are saved to a staging directory, then renamed into place on Commit.
type Store struct {
	dir   string
	names []string
}

// NewStore creates a new Store that publishes files into dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) tempDir() string {
	return filepath.Join(s.dir, tmpDirName)
}

// Save stages a file. Names must be plain file names without directories.
func (s *Store) Save(name, content string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return sitemapgen.Errorf(sitemapgen.EINVALID, "invalid output file name %q", name)
	}

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.tempDir(), name), []byte(content), 0644); err != nil {
		return err
	}

	if !slices.Contains(s.names, name) {
		s.names = append(s.names, name)
	}
	return nil
}

// Commit moves every staged file into the output directory, replacing
// existing files of the same name, and removes the staging directory.
func (s *Store) Commit() error {
	for _, name := range s.names {
		if err := os.Rename(filepath.Join(s.tempDir(), name), filepath.Join(s.dir, name)); err != nil {
			return err
		}
	}
	s.names = nil
	return os.RemoveAll(s.tempDir())
}

// Abort discards every staged file.
func (s *Store) Abort() error {
	s.names = nil
	return os.RemoveAll(s.tempDir())
}
