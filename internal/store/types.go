package store

import (
	"context"
	"time"
)

const dateLayout = "2006-01-02"

type CreateEmployeeInput struct {
	Username         string
	FirstName        *string
	LastName         *string
	DisplayName      *string
	NickName         *string
	Age              *int
	Gender           *string
	Email            *string
	Address          *string
	Telephone        *string
	Cellphone        *string
	SupervisorID     *uint
	EmploymentStatus *string
	Hired            *string
	EmploymentType   *string
	DateHired        *time.Time
	Birthday         *time.Time
	CreatedBy        *string
	DeptID           *uint
	JobTitleID       *uint
}

type EmployeeDTO struct {
	ID               uint      `json:"employee_id"`
	Username         string    `json:"username"`
	FirstName        *string   `json:"first_name"`
	LastName         *string   `json:"last_name"`
	DisplayName      *string   `json:"display_name"`
	NickName         *string   `json:"nick_name"`
	Age              *int      `json:"age"`
	Gender           *string   `json:"gender"`
	Email            *string   `json:"email"`
	Address          *string   `json:"address"`
	Telephone        *string   `json:"telephone"`
	Cellphone        *string   `json:"cellphone"`
	SupervisorID     *uint     `json:"supervisor_id"`
	EmploymentStatus *string   `json:"employment_status"`
	Hired            *string   `json:"hired"`
	EmploymentType   *string   `json:"employment_type"`
	DateHired        *string   `json:"date_hired"`
	Birthday         *string   `json:"birthday"`
	DateCreated      time.Time `json:"date_created"`
	DateUpdated      time.Time `json:"date_updated"`
	CreatedBy        *string   `json:"created_by"`
	UpdatedBy        *string   `json:"updated_by"`
	DeptID           *uint     `json:"dept_id"`
	JobTitleID       *uint     `json:"job_title_id"`
}

type AddAttachmentInput struct {
	Path         string
	StoredName   string
	OriginalName string
	Username     string
	Size         int64
}

// Employees is the employee half of the persistence store.
type Employees interface {
	AddEmployee(ctx context.Context, input CreateEmployeeInput) (EmployeeDTO, error)
	DeleteEmployee(ctx context.Context, employeeID uint) (bool, error)
	ListEmployees(ctx context.Context) ([]EmployeeDTO, error)
	GetEmployeeByUsername(ctx context.Context, username string) (EmployeeDTO, bool, error)
	UpdateEmployee(ctx context.Context, username string, fields map[string]string) (bool, error)
}

// Attachments is the attachment half of the persistence store.
type Attachments interface {
	GetAttachmentPath(ctx context.Context, username string) (string, bool, error)
	AddAttachment(ctx context.Context, input AddAttachmentInput) (bool, error)
}

type actorKey struct{}

// WithActor records who performs the following store calls; it fills the
// created_by and updated_by audit columns.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFrom(ctx context.Context) *string {
	actor, ok := ctx.Value(actorKey{}).(string)
	if !ok || actor == "" {
		return nil
	}
	return &actor
}
