package cli

import (
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/clearhull/claimwatch/internal/model"
)

var (
	spoolSubject string
	spoolSender  string
	spoolDate    string
	spoolBody    string
)

// spoolCmd groups intake spool commands
var spoolCmd = &cobra.Command{
	Use:   "spool",
	Short: "Manage the intake spool",
}

// spoolAddCmd captures a claim email envelope by hand. The usual producer is
// the upstream email fetcher; this command exists for testing and for
// claims forwarded out-of-band.
var spoolAddCmd = &cobra.Command{
	Use:   "add [attachment...]",
	Short: "Capture a claim email envelope into the spool",
	Long: `Add writes one envelope JSON into the intake spool, with the given files
attached. The next process or watch run picks it up.

Example:
  claimwatch spool add --subject "Claim CLM-2024-001" --sender claims@example.com claim.txt`,
	RunE: runSpoolAdd,
}

func init() {
	rootCmd.AddCommand(spoolCmd)
	spoolCmd.AddCommand(spoolAddCmd)

	spoolAddCmd.Flags().StringVar(&spoolSubject, "subject", "", "email subject")
	spoolAddCmd.Flags().StringVar(&spoolSender, "sender", "", "sender email address")
	spoolAddCmd.Flags().StringVar(&spoolDate, "date", "", "email date (default: today)")
	spoolAddCmd.Flags().StringVar(&spoolBody, "body", "", "email body text")
	_ = spoolAddCmd.MarkFlagRequired("subject")
	_ = spoolAddCmd.MarkFlagRequired("sender")
}

func runSpoolAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	date := spoolDate
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	env := model.Envelope{
		Email: model.EmailContext{
			ID:              uuid.NewString(),
			Subject:         spoolSubject,
			SenderEmail:     spoolSender,
			Date:            date,
			AttachmentCount: len(args),
		},
		Body: spoolBody,
	}

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read attachment %q: %w", path, err)
		}
		env.Attachments = append(env.Attachments, model.Attachment{
			Filename:    filepath.Base(path),
			ContentType: mime.TypeByExtension(filepath.Ext(path)),
			Data:        data,
		})
	}

	if err := os.MkdirAll(cfg.SpoolDir(), 0o755); err != nil {
		return err
	}

	name := fmt.Sprintf("%s-%s.json", time.Now().UTC().Format("20060102T150405Z"), env.Email.ID)
	dest := filepath.Join(cfg.SpoolDir(), name)
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}

	fmt.Printf("Envelope spooled: %s\n", dest)
	return nil
}
