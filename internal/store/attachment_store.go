package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"onboarding-records/internal/apperror"
	"onboarding-records/internal/models"
)

// GetAttachmentPath returns the stored path of the first attachment recorded
// for username.
func (s *Store) GetAttachmentPath(ctx context.Context, username string) (string, bool, error) {
	var attachment models.Attachment
	err := s.db.WithContext(ctx).
		Where(map[string]interface{}{"employee_name": username}).
		Order("attachment_id ASC").
		First(&attachment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load attachment: %w", err)
	}
	return attachment.FilePath, true, nil
}

// AddAttachment records an uploaded file. A path that is already recorded
// reports false without error.
func (s *Store) AddAttachment(ctx context.Context, input AddAttachmentInput) (bool, error) {
	if input.Path == "" {
		return false, apperror.New(apperror.CodeValidation, "attachment path is required")
	}

	uploader := input.Username
	attachment := models.Attachment{
		EmployeeName:     input.Username,
		FilePath:         input.Path,
		FileName:         input.StoredName,
		OriginalFileName: input.OriginalName,
		CreatedBy:        &uploader,
		UploadedBy:       &uploader,
		FileSize:         input.Size,
		ScanStatus:       models.ScanStatusClean,
	}
	if actor := actorFrom(ctx); actor != nil {
		attachment.UploadedBy = actor
	}

	if err := s.db.WithContext(ctx).Create(&attachment).Error; err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert attachment: %w", err)
	}
	return true, nil
}
