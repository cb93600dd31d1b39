package cache

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const cacheFileName = "verdict_cache.gob"

// Entry is a cached grading verdict.
type Entry struct {
	Valid        bool
	Correct      bool
	SolutionType string
	CreatedAt    time.Time
	LastAccessed time.Time
}

// Cache maps question fingerprints to verdicts and persists them as a gob
// file inside CacheDir.
type Cache struct {
	CacheDir string
	entries  map[string]Entry
	mutex    sync.RWMutex
	maxAge   time.Duration
	dirty    bool
}

// NewCache opens the cache stored in cacheDir, creating the directory when
// it does not exist yet.
func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir: cacheDir,
		entries:  make(map[string]Entry),
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return cache, nil
}

// Key fingerprints a grading request. Every part takes part in the hash,
// so a change to the answer, the solution, the language or the grading
// options yields a different key.
func Key(parts ...string) string {
	hash := md5.New()
	for _, p := range parts {
		// length prefix keeps ("ab", "c") and ("a", "bc") apart
		fmt.Fprintf(hash, "%d:", len(p))
		_, _ = io.WriteString(hash, p)
	}
	return fmt.Sprintf("%x", hash.Sum(nil))
}

func (c *Cache) path() string {
	return filepath.Join(c.CacheDir, cacheFileName)
}

func (c *Cache) load() error {
	file, err := os.Open(c.path())
	if os.IsNotExist(err) {
		return nil // first run
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&c.entries); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}

	return nil
}

// Save writes the cache to disk if it changed since the last save.
func (c *Cache) Save() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.dirty {
		return nil
	}
	if err := c.save(); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

func (c *Cache) save() error {
	file, err := os.Create(c.path())
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}

	return nil
}

// Set stores a verdict under key. Call Save to persist it.
func (c *Cache) Set(key string, entry Entry) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	entry.CreatedAt = now
	entry.LastAccessed = now
	c.entries[key] = entry
	c.dirty = true
}

// Get returns the verdict stored under key. Expired entries are dropped.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return Entry{}, false
	}

	if c.isEntryInvalid(entry) {
		delete(c.entries, key)
		c.dirty = true
		return Entry{}, false
	}

	entry.LastAccessed = time.Now()
	c.entries[key] = entry

	return entry, true
}

func (c *Cache) isEntryInvalid(entry Entry) bool {
	return c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge
}

// SetMaxAge sets how long entries stay valid. Zero keeps them forever.
func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

// Len returns the number of cached verdicts.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

// InvalidateAll drops every entry and rewrites the cache file.
func (c *Cache) InvalidateAll() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]Entry)
	c.dirty = false
	return c.save()
}
