// Package extract turns raw email attachments into plain text for analysis.
// Real deployments plug in PDF and OCR extractors; the core only depends on
// the Extractor interface and treats per-attachment failure as empty content.
package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/model"
)

// Extractor converts one attachment into plain text.
type Extractor interface {
	// Extract returns the attachment's text. An error means the attachment
	// is unreadable; callers degrade to empty content and continue.
	Extract(att model.Attachment) (string, error)
}

// PlainText handles text-typed attachments. Anything it cannot decode is
// reported as an error, never as garbage text.
type PlainText struct{}

// NewPlainText returns the text/plain extractor.
func NewPlainText() *PlainText {
	return &PlainText{}
}

// Extract returns the attachment bytes as a string for text content types.
func (e *PlainText) Extract(att model.Attachment) (string, error) {
	ct := strings.ToLower(att.ContentType)
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}

	switch {
	case strings.HasPrefix(ct, "text/"), ct == "application/json", ct == "":
		if !utf8.Valid(att.Data) {
			return "", fmt.Errorf("attachment %q is not valid UTF-8", att.Filename)
		}
		return string(att.Data), nil
	default:
		return "", fmt.Errorf("unsupported content type %q for %q", att.ContentType, att.Filename)
	}
}

// Content assembles the analysis text for an envelope: the email body
// followed by each attachment's extracted text. Unreadable attachments are
// logged and skipped.
func Content(env model.Envelope, ex Extractor, logger *zap.Logger) string {
	var b strings.Builder
	if body := strings.TrimSpace(env.Body); body != "" {
		b.WriteString(body)
	}

	for _, att := range env.Attachments {
		text, err := ex.Extract(att)
		if err != nil {
			logger.Warn("attachment extraction failed",
				zap.String("filename", att.Filename),
				zap.Error(err))
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("--- %s ---\n", att.Filename))
		b.WriteString(text)
	}

	return b.String()
}
