package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clearhull/claimwatch/internal/model"
)

func emailFixture() model.EmailContext {
	return model.EmailContext{
		ID:          "email-1",
		Subject:     "Claim submission CLM-2024-001",
		SenderEmail: "claims@nordicshipping.no",
		Date:        "2024-06-01",
	}
}

func TestProcessedEmailsMarkAndSeen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.json")
	p, err := OpenProcessedEmails(path, zap.NewNop())
	require.NoError(t, err)

	email := emailFixture()
	assert.False(t, p.Seen(email))

	require.NoError(t, p.Mark(email))
	assert.True(t, p.Seen(email))

	// Marking twice is a no-op.
	require.NoError(t, p.Mark(email))
	assert.Equal(t, 1, p.Len())
}

func TestProcessedEmailsSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.json")
	p, err := OpenProcessedEmails(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, p.Mark(emailFixture()))

	reloaded, err := OpenProcessedEmails(path, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, reloaded.Seen(emailFixture()))
}

func TestEmailFingerprintSensitivity(t *testing.T) {
	base := emailFixture()

	changed := base
	changed.Subject = "Re: " + base.Subject
	assert.NotEqual(t, EmailFingerprint(base), EmailFingerprint(changed))

	same := emailFixture()
	assert.Equal(t, EmailFingerprint(base), EmailFingerprint(same))
}
