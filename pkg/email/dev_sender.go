package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._\-]+`)

// DevSender writes emails to a local directory instead of sending them.
// Each email produces two files: the HTML body and a JSON metadata sidecar.
type DevSender struct {
	dir string
	now func() time.Time
}

// NewDevSender creates a file-based sender writing into dir.
func NewDevSender(dir string) (*DevSender, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: output directory is required", ErrInvalidConfig)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return &DevSender{dir: dir, now: time.Now}, nil
}

// SendEmail writes the email to disk. Filenames embed a timestamp and the
// recipient so a directory listing reads chronologically.
func (s *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	base := fmt.Sprintf("%s_%s", s.now().UTC().Format("20060102T150405.000"), sanitizeFilename(params.SendTo))

	if err := os.WriteFile(filepath.Join(s.dir, base+".html"), []byte(params.BodyHTML), 0o644); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	meta, err := json.MarshalIndent(struct {
		SendTo  string    `json:"send_to"`
		Subject string    `json:"subject"`
		Tag     string    `json:"tag,omitempty"`
		SentAt  time.Time `json:"sent_at"`
	}{
		SendTo:  params.SendTo,
		Subject: params.Subject,
		Tag:     params.Tag,
		SentAt:  s.now().UTC(),
	}, "", "  ")
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, base+".json"), meta, 0o644); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return nil
}

func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, "@", "_at_")
	return unsafeFilenameChars.ReplaceAllString(s, "_")
}
