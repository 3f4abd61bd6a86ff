package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/model"
)

// Spool is the intake directory for captured claim emails. An upstream
// collaborator (IMAP fetcher, MIME parser) drops one JSON envelope per email;
// processed envelopes move to done/, unreadable ones to failed/.
type Spool struct {
	dir    string
	logger *zap.Logger
}

// NewSpool creates a spool over dir.
func NewSpool(dir string, logger *zap.Logger) *Spool {
	return &Spool{dir: dir, logger: logger}
}

// Pending lists the spooled envelope files in name order. Name order gives a
// stable processing sequence when upstream prefixes names with timestamps.
func (s *Spool) Pending() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("spool: read %q: %w", s.dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Load reads one envelope file. An envelope without an email ID gets one
// derived from the file name so every result stays attributable.
func (s *Spool) Load(path string) (model.Envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Envelope{}, fmt.Errorf("spool: read %q: %w", path, err)
	}

	var env model.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return model.Envelope{}, fmt.Errorf("spool: parse %q: %w", path, err)
	}

	if env.Email.ID == "" {
		env.Email.ID = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	if env.Email.AttachmentCount == 0 {
		env.Email.AttachmentCount = len(env.Attachments)
	}
	return env, nil
}

// Archive moves a processed envelope into done/.
func (s *Spool) Archive(path string) error {
	return s.moveTo(path, "done")
}

// Fail moves an unreadable or failed envelope into failed/ so it stops
// blocking the spool but stays available for inspection.
func (s *Spool) Fail(path string) error {
	return s.moveTo(path, "failed")
}

func (s *Spool) moveTo(path, sub string) error {
	dir := filepath.Join(s.dir, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("spool: create %q: %w", dir, err)
	}
	dest := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("spool: move %q: %w", path, err)
	}
	s.logger.Debug("envelope moved", zap.String("from", path), zap.String("to", dest))
	return nil
}
