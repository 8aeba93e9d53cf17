package logfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"logreader-backend/internal/parser"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog/log"
)

// ErrFilesUnavailable means the log directory is missing or cannot be listed.
// It is distinct from a directory that simply holds no matching files.
var ErrFilesUnavailable = errors.New("unable to retrieve log files")

type LogFile struct {
	Path     string
	Contents string
}

// Store reads and rewrites log files. Rewrites replace the whole file and are
// serialized per path within the process; writers outside the process are not
// coordinated with.
type Store interface {
	List(dir, pattern string) ([]string, error)
	ReadAll(dir, pattern string) ([]LogFile, error)
	Read(path string) (string, error)
	Rewrite(path, content string) error
	RemoveEntry(path, text string, offset int) (bool, error)
	Remove(path string) error
}

type fileStore struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore() Store {
	return &fileStore{
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *fileStore) lockFor(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[path]
	if !ok {
		l = &sync.Mutex{}
		s.locks[path] = l
	}
	return l
}

func (s *fileStore) List(dir, pattern string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w from path %s: %v", ErrFilesUnavailable, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w from path %s: not a directory", ErrFilesUnavailable, dir)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w from path %s: %v", ErrFilesUnavailable, dir, err)
	}

	// Rooted in the directory, so its name is never read as a pattern.
	matches, err := doublestar.Glob(os.DirFS(absDir), filepath.ToSlash(pattern), doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return nil, fmt.Errorf("%w from path %s: %v", ErrFilesUnavailable, dir, err)
	}
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(absDir, filepath.FromSlash(m)))
	}
	log.Debug().Str("dir", absDir).Str("pattern", pattern).Int("file_count", len(paths)).Msg("Listed log files")
	return paths, nil
}

func (s *fileStore) ReadAll(dir, pattern string) ([]LogFile, error) {
	paths, err := s.List(dir, pattern)
	if err != nil {
		return nil, err
	}
	files := make([]LogFile, 0, len(paths))
	for _, path := range paths {
		contents, err := s.Read(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFilesUnavailable, err)
		}
		files = append(files, LogFile{Path: path, Contents: contents})
	}
	return files, nil
}

func (s *fileStore) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read log file %s: %w", path, err)
	}
	return string(data), nil
}

func (s *fileStore) Rewrite(path, content string) error {
	l := s.lockFor(path)
	l.Lock()
	defer l.Unlock()
	return writeReplace(path, content)
}

// RemoveEntry cuts text out of the file. The span at offset is used when it
// still holds the entry; otherwise the first whole-entry occurrence is removed.
func (s *fileStore) RemoveEntry(path, text string, offset int) (bool, error) {
	if text == "" {
		return false, nil
	}
	l := s.lockFor(path)
	l.Lock()
	defer l.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read log file %s: %w", path, err)
	}
	content := string(data)
	idx := locateEntry(content, text, offset)
	if idx < 0 {
		log.Debug().Str("file", path).Msg("Entry text not found in log file")
		return false, nil
	}
	if err := writeReplace(path, content[:idx]+content[idx+len(text):]); err != nil {
		return false, err
	}
	return true, nil
}

// locateEntry returns where text sits in content as a complete entry, or -1.
// The parsed offset is tried first, then every other occurrence.
func locateEntry(content, text string, offset int) int {
	if isEntrySpan(content, text, offset) {
		return offset
	}
	for from := 0; from < len(content); {
		i := strings.Index(content[from:], text)
		if i < 0 {
			return -1
		}
		start := from + i
		if isEntrySpan(content, text, start) {
			return start
		}
		from = start + 1
	}
	return -1
}

// isEntrySpan reports whether text sits at start as a whole entry: it begins a
// line and is followed by the end of the content or by the next entry header,
// so a shorter entry never matches the head of a longer one.
func isEntrySpan(content, text string, start int) bool {
	end := start + len(text)
	if start < 0 || end > len(content) || content[start:end] != text {
		return false
	}
	if start > 0 && content[start-1] != '\n' {
		return false
	}
	return end == len(content) || parser.StartsEntry(content[end:])
}

func (s *fileStore) Remove(path string) error {
	l := s.lockFor(path)
	l.Lock()
	defer l.Unlock()
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove log file %s: %w", path, err)
	}
	return nil
}

// writeReplace writes content to a temporary file next to path and renames it
// over path, so readers never observe a half-written file.
func writeReplace(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat log file %s: %w", path, err)
	}
	mode := info.Mode().Perm()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary file %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set mode on %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		log.Error().Err(err).Str("from", tmpPath).Str("to", path).Msg("Failed to rename rewritten log file")
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace log file %s: %w", path, err)
	}
	return nil
}
