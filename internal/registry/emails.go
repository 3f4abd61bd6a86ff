package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/model"
)

// ProcessedEmails is the idempotence index: a set of email fingerprints that
// have already been through the pipeline. It is checked before a claim is
// processed at all, so reprocessing a spool is safe.
type ProcessedEmails struct {
	mu     sync.Mutex
	path   string
	seen   map[string]string // fingerprint -> email ID, for logging
	logger *zap.Logger
}

// OpenProcessedEmails loads the index at path, creating an empty index if
// the file does not exist.
func OpenProcessedEmails(path string, logger *zap.Logger) (*ProcessedEmails, error) {
	p := &ProcessedEmails{
		path:   path,
		seen:   make(map[string]string),
		logger: logger,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return nil, fmt.Errorf("processed emails: read %q: %w", path, err)
	}

	if err := json.Unmarshal(data, &p.seen); err != nil {
		return nil, fmt.Errorf("processed emails: parse %q: %w", path, err)
	}
	return p, nil
}

// EmailFingerprint identifies a source email by its ID and envelope fields.
func EmailFingerprint(e model.EmailContext) string {
	sum := sha256.Sum256([]byte(e.ID + "|" + e.Subject + "|" + e.SenderEmail + "|" + e.Date))
	return hex.EncodeToString(sum[:])
}

// Seen reports whether the email has already been processed.
func (p *ProcessedEmails) Seen(e model.EmailContext) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.seen[EmailFingerprint(e)]
	return ok
}

// Mark records the email as processed and persists the index. On a
// persistence failure the in-memory mark is rolled back.
func (p *ProcessedEmails) Mark(e model.EmailContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	fp := EmailFingerprint(e)
	if _, ok := p.seen[fp]; ok {
		return nil
	}
	p.seen[fp] = e.ID

	data, err := json.MarshalIndent(p.seen, "", "  ")
	if err != nil {
		delete(p.seen, fp)
		return fmt.Errorf("processed emails: marshal: %w", err)
	}
	if err := writeAtomic(p.path, data); err != nil {
		delete(p.seen, fp)
		return fmt.Errorf("processed emails: persist: %w", err)
	}

	p.logger.Debug("email marked processed", zap.String("email_id", e.ID))
	return nil
}

// Len returns the number of processed emails.
func (p *ProcessedEmails) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.seen)
}
