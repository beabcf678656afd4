// Package storage persists generated images for the file delivery mode.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// ErrNotFound is returned for names that were never saved.
var ErrNotFound = errors.New("image not found")

// Store saves image bytes and returns the name they can be fetched by.
type Store interface {
	Save(data []byte) (string, error)
	Open(name string) (io.ReadSeekCloser, time.Time, error)
}

// DiskStore writes images into a directory. Names have the form
// image-<unix-ms>-<seq>-<random>.<ext>; the sequence and random suffix keep
// names unique when several images are saved in the same millisecond.
type DiskStore struct {
	dir    string
	ext    string
	seq    atomic.Uint64
	logger *log.Logger
	now    func() time.Time
}

// NewDiskStore creates dir if needed. ext is the file extension including the dot.
func NewDiskStore(dir, ext string, logger *log.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &DiskStore{dir: dir, ext: ext, logger: logger, now: time.Now}, nil
}

// Dir returns the output directory.
func (s *DiskStore) Dir() string { return s.dir }

// Save writes data to a new file. The file appears under its final name only
// once fully written.
func (s *DiskStore) Save(data []byte) (string, error) {
	name := s.newName()

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename %s: %w", name, err)
	}

	s.logger.Printf("saved %s (%s)", name, humanize.Bytes(uint64(len(data))))
	return name, nil
}

// Open returns the saved file and its modification time.
func (s *DiskStore) Open(name string) (io.ReadSeekCloser, time.Time, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, time.Time{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, time.Time{}, ErrNotFound
		}
		return nil, time.Time{}, fmt.Errorf("open %s: %w", name, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, time.Time{}, fmt.Errorf("stat %s: %w", name, err)
	}
	if fi.IsDir() {
		f.Close()
		return nil, time.Time{}, ErrNotFound
	}
	return f, fi.ModTime(), nil
}

// Path resolves name inside the output directory. Names containing path
// separators or starting with a dot are rejected.
func (s *DiskStore) Path(name string) (string, error) {
	if !ValidName(name) {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, name), nil
}

func (s *DiskStore) newName() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("image-%d-%d-%s%s", s.now().UnixMilli(), s.seq.Add(1), id, s.ext)
}

// ValidName reports whether name is a plain file name.
func ValidName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}

// ── Memory store ──

// MemoryStore keeps images in memory.
type MemoryStore struct {
	mu    sync.RWMutex
	ext   string
	seq   uint64
	files map[string]memFile
}

type memFile struct {
	data    []byte
	created time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(ext string) *MemoryStore {
	return &MemoryStore{ext: ext, files: make(map[string]memFile)}
}

// Save implements Store.
func (m *MemoryStore) Save(data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	name := fmt.Sprintf("image-%d%s", m.seq, m.ext)
	m.files[name] = memFile{data: append([]byte(nil), data...), created: time.Now()}
	return name, nil
}

// Open implements Store.
func (m *MemoryStore) Open(name string) (io.ReadSeekCloser, time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[name]
	if !ok {
		return nil, time.Time{}, ErrNotFound
	}
	return nopCloser{bytes.NewReader(f.data)}, f.created, nil
}

// Len returns the number of saved images.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

type nopCloser struct{ *bytes.Reader }

func (nopCloser) Close() error { return nil }
