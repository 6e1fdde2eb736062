package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"onboarding-records/internal/apperror"
	"onboarding-records/internal/store"
)

// ErrNotRecorded means the file was copied but its metadata row was not
// written. The copy is left in place.
var ErrNotRecorded = errors.New("file copied but not recorded")

type Result struct {
	Path         string `json:"path"`
	StoredName   string `json:"stored_name"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
}

// Transfer copies employee documents into the uploads directory and records
// them in the store. Files are never removed.
type Transfer struct {
	dir    string
	store  store.Attachments
	logger zerolog.Logger
}

func NewTransfer(dir string, attachments store.Attachments, logger zerolog.Logger) *Transfer {
	return &Transfer{dir: dir, store: attachments, logger: logger}
}

// StoredName is the on-disk name of a document: username, underscore, base
// name of the original file.
func StoredName(username, originalName string) string {
	return username + "_" + filepath.Base(originalName)
}

// CopyFile copies a local file for username.
func (t *Transfer) CopyFile(ctx context.Context, username, path string) (Result, error) {
	src, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	return t.Upload(ctx, username, filepath.Base(path), src)
}

// Upload writes src for username under the stored name and records it.
func (t *Transfer) Upload(ctx context.Context, username, originalName string, src io.Reader) (Result, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.ContainsAny(username, `/\`) {
		return Result{}, apperror.New(apperror.CodeValidation, "invalid username")
	}
	original := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	if original == "." || original == "/" || original == "" {
		return Result{}, apperror.New(apperror.CodeValidation, "file name is required")
	}

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create upload dir: %w", err)
	}

	storedName := StoredName(username, original)
	destination := filepath.Join(t.dir, storedName)

	size, err := writeFile(destination, src)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Path:         destination,
		StoredName:   storedName,
		OriginalName: original,
		Size:         size,
	}

	recorded, err := t.store.AddAttachment(ctx, store.AddAttachmentInput{
		Path:         destination,
		StoredName:   storedName,
		OriginalName: original,
		Username:     username,
		Size:         size,
	})
	if err != nil {
		t.logger.Error().Err(err).Str("path", destination).Msg("attachment copied but not recorded")
		return result, fmt.Errorf("%w: %v", ErrNotRecorded, err)
	}
	if !recorded {
		t.logger.Info().Str("path", destination).Msg("attachment path already recorded; file replaced")
	}

	t.logger.Info().
		Str("username", username).
		Str("path", destination).
		Int64("size", size).
		Msg("attachment uploaded")
	return result, nil
}

func writeFile(destination string, src io.Reader) (int64, error) {
	dst, err := os.Create(destination)
	if err != nil {
		return 0, fmt.Errorf("create destination: %w", err)
	}

	size, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr != nil {
		return 0, fmt.Errorf("copy file: %w", copyErr)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("close destination: %w", closeErr)
	}
	return size, nil
}
