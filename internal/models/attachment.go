package models

import "time"

// ScanStatusClean is written for every attachment; no scanning takes place.
const ScanStatusClean = "Clean"

type Attachment struct {
	ID               uint       `gorm:"column:attachment_id;primaryKey;autoIncrement"`
	EmployeeName     string     `gorm:"column:employee_name;type:varchar(150);index"`
	FilePath         string     `gorm:"column:file_path;type:varchar(1024);uniqueIndex;not null"`
	FileName         string     `gorm:"column:file_name;type:varchar(512)"`
	OriginalFileName string     `gorm:"column:original_file_name;type:varchar(512)"`
	DateCreated      time.Time  `gorm:"column:date_created;autoCreateTime"`
	CreatedBy        *string    `gorm:"column:created_by;type:varchar(150)"`
	UploadedBy       *string    `gorm:"column:uploaded_by;type:varchar(150)"`
	UpdatedBy        *string    `gorm:"column:updated_by;type:varchar(150)"`
	DateUpdated      *time.Time `gorm:"column:date_updated"`
	FileSize         int64      `gorm:"column:file_size"`
	ScanStatus       string     `gorm:"column:scan_status;type:varchar(50)"`
}

func (Attachment) TableName() string {
	return "requirement_attachments"
}
