// Package cache stores model responses keyed by prompt hash, so
// re-processing a spool after a partial failure does not re-bill prompts
// that already have an answer.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is the surface the model layer needs.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
}

// Key derives a cache key from a prompt. Keys are versioned so a prompt
// format change invalidates old responses.
func Key(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return "claimwatch:v1:" + hex.EncodeToString(hash[:])
}

// Memory is an in-process tier. Useful on its own in tests.
type Memory struct {
	inner *gocache.Cache
}

// NewMemory creates a memory cache with the given default TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{inner: gocache.New(ttl, 10*time.Minute)}
}

func (m *Memory) Get(key string) ([]byte, bool) {
	if val, found := m.inner.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

func (m *Memory) Set(key string, value []byte, ttl time.Duration) error {
	m.inner.Set(key, value, ttl)
	return nil
}

func (m *Memory) Delete(key string) error {
	m.inner.Delete(key)
	return nil
}

// Store is the two-tier response cache: a memory tier for repeat prompts
// within a run, backed by one file per entry under dir for prompts seen on
// earlier runs. Disk entries expire by file modification time.
type Store struct {
	memory *Memory
	dir    string
	ttl    time.Duration
}

// NewStore creates a store writing under dir with the given TTL.
func NewStore(dir string, ttl time.Duration) *Store {
	return &Store{memory: NewMemory(ttl), dir: dir, ttl: ttl}
}

// Get checks the memory tier, then disk. A disk hit is promoted to memory.
func (s *Store) Get(key string) ([]byte, bool) {
	if val, found := s.memory.Get(key); found {
		return val, true
	}

	path := s.path(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if s.ttl > 0 && time.Since(info.ModTime()) > s.ttl {
		_ = os.Remove(path)
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	_ = s.memory.Set(key, data, 0)
	return data, true
}

// Set writes the entry to both tiers.
func (s *Store) Set(key string, value []byte, ttl time.Duration) error {
	_ = s.memory.Set(key, value, ttl)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("cache: create dir: %w", err)
	}
	if err := os.WriteFile(s.path(key), value, 0o644); err != nil {
		return fmt.Errorf("cache: write entry: %w", err)
	}
	return nil
}

// Delete drops the entry from both tiers.
func (s *Store) Delete(key string) error {
	_ = s.memory.Delete(key)
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
