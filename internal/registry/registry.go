// Package registry is the durable store of accepted claims and processed
// source emails. Both stores are JSON files written atomically: a temp file
// in the same directory, fsynced, then renamed over the old one, so a crash
// mid-write never corrupts the previous state.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/model"
)

// Registry holds the accepted claims keyed by claim number. Entries are
// append-only: a key is written once and never mutated. Insertion order is
// tracked so iteration (and the semantic layer's sampling) is deterministic.
type Registry struct {
	mu      sync.Mutex
	path    string
	entries map[string]model.RegistryEntry
	order   []string
	logger  *zap.Logger
}

// Open loads the registry file at path, creating an empty registry if the
// file does not exist. A corrupt file is an error, never silently replaced.
func Open(path string, logger *zap.Logger) (*Registry, error) {
	r := &Registry{
		path:    path,
		entries: make(map[string]model.RegistryEntry),
		logger:  logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("registry: read %q: %w", path, err)
	}

	var onDisk persistedRegistry
	if err := json.Unmarshal(data, &onDisk); err != nil {
		return nil, fmt.Errorf("registry: parse %q: %w", path, err)
	}

	for _, claimID := range onDisk.Order {
		entry, ok := onDisk.Claims[claimID]
		if !ok {
			return nil, fmt.Errorf("registry: %q ordered but missing in %q", claimID, path)
		}
		r.entries[claimID] = entry
		r.order = append(r.order, claimID)
	}

	logger.Info("registry loaded", zap.String("path", path), zap.Int("claims", len(r.order)))
	return r, nil
}

// persistedRegistry is the on-disk shape: the entries plus their insertion
// order, so determinism survives restarts.
type persistedRegistry struct {
	Order  []string                       `json:"order"`
	Claims map[string]model.RegistryEntry `json:"claims"`
}

// Has reports whether claimID is registered.
func (r *Registry) Has(claimID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[claimID]
	return ok
}

// Len returns the number of registered claims.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Snapshot returns the registered claims in insertion order. The slice is a
// copy; callers may read it without holding any lock.
func (r *Registry) Snapshot() []Registered {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Registered, 0, len(r.order))
	for _, claimID := range r.order {
		out = append(out, Registered{ClaimID: claimID, Entry: r.entries[claimID]})
	}
	return out
}

// Registered pairs a registry key with its entry.
type Registered struct {
	ClaimID string
	Entry   model.RegistryEntry
}

// Register inserts a new claim and persists the registry. If claimID already
// exists the call is a no-op returning false: entries are never overwritten.
// On a persistence failure the in-memory insert is rolled back, so memory
// and disk never disagree.
func (r *Registry) Register(claimID string, entry model.RegistryEntry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[claimID]; exists {
		r.logger.Debug("claim already registered", zap.String("claim_id", claimID))
		return false, nil
	}

	r.entries[claimID] = entry
	r.order = append(r.order, claimID)

	if err := r.persistLocked(); err != nil {
		delete(r.entries, claimID)
		r.order = r.order[:len(r.order)-1]
		return false, fmt.Errorf("registry: persist after registering %q: %w", claimID, err)
	}

	r.logger.Info("claim registered", zap.String("claim_id", claimID))
	return true, nil
}

func (r *Registry) persistLocked() error {
	data, err := json.MarshalIndent(persistedRegistry{Order: r.order, Claims: r.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return writeAtomic(r.path, data)
}

// writeAtomic writes data to path via a same-directory temp file and rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
