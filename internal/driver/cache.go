package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"lavish/internal/project"
	"lavish/schema"
)

// Current cache format - increment when cacheEntry changes
const cacheFormatVersion uint16 = 1

// Cache keeps schema documents of units that compiled without any
// diagnostic, keyed by unitDigest. Entries live in memory and, when the
// cache has a directory, on disk as msgpack. Thread-safe.
type Cache struct {
	mu  sync.RWMutex
	dir string
	mem map[project.Digest]*schema.Document
}

// cacheEntry is the on-disk record.
type cacheEntry struct {
	Format   uint16
	Key      project.Digest
	Files    []string
	Document *schema.Document
}

// NewCache returns a cache rooted at dir; an empty dir keeps entries in
// memory only.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir, mem: make(map[project.Digest]*schema.Document)}
}

// OpenCache initializes a disk cache at the standard location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return NewCache(dir), nil
}

// Dir returns the cache directory, "" for a memory-only cache.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *Cache) pathFor(key project.Digest) string {
	// подкаталог "schemas" проще чистить руками
	return filepath.Join(c.dir, "schemas", hex.EncodeToString(key[:])+".mp")
}

// Put stores doc under key.
func (c *Cache) Put(key project.Digest, files []string, doc *schema.Document) error {
	if c == nil || doc == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mem[key] = doc
	if c.dir == "" {
		return nil
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	// after a successful rename the temp file is already gone
	defer func() { _ = os.Remove(tmp) }()

	entry := cacheEntry{Format: cacheFormatVersion, Key: key, Files: files, Document: doc}
	if err := msgpack.NewEncoder(f).Encode(&entry); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get returns the document stored under key. A stale or foreign entry on
// disk is a miss, not an error.
func (c *Cache) Get(key project.Digest) (*schema.Document, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	doc, ok := c.mem[key]
	c.mu.RUnlock()
	if ok {
		return doc, true, nil
	}
	if c.dir == "" {
		return nil, false, nil
	}

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var entry cacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if entry.Format != cacheFormatVersion || entry.Key != key || entry.Document == nil ||
		entry.Document.Version != schema.DocumentVersion {
		return nil, false, nil
	}

	c.mu.Lock()
	c.mem[key] = entry.Document
	c.mu.Unlock()
	return entry.Document, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mem = make(map[project.Digest]*schema.Document)
	if c.dir == "" {
		return nil
	}
	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
