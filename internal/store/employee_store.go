package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"onboarding-records/internal/apperror"
	"onboarding-records/internal/models"
)

// Store owns the employees and requirement_attachments tables. Every call
// commits on its own; there are no multi-call transactions.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var (
	_ Employees   = (*Store)(nil)
	_ Attachments = (*Store)(nil)
)

func (s *Store) AddEmployee(ctx context.Context, input CreateEmployeeInput) (EmployeeDTO, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return EmployeeDTO{}, apperror.New(apperror.CodeValidation, "username is required")
	}

	actor := actorFrom(ctx)
	createdBy := input.CreatedBy
	if createdBy == nil {
		createdBy = actor
	}

	employee := models.Employee{
		Username:         username,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		DisplayName:      input.DisplayName,
		NickName:         input.NickName,
		Age:              input.Age,
		Gender:           input.Gender,
		Email:            input.Email,
		Address:          input.Address,
		Telephone:        input.Telephone,
		Cellphone:        input.Cellphone,
		SupervisorID:     input.SupervisorID,
		EmploymentStatus: input.EmploymentStatus,
		Hired:            input.Hired,
		EmploymentType:   input.EmploymentType,
		DateHired:        input.DateHired,
		Birthday:         input.Birthday,
		CreatedBy:        createdBy,
		UpdatedBy:        createdBy,
		DeptID:           input.DeptID,
		JobTitleID:       input.JobTitleID,
	}

	if err := s.db.WithContext(ctx).Create(&employee).Error; err != nil {
		if isUniqueViolation(err) {
			return EmployeeDTO{}, apperror.New(apperror.CodeConflict, "username must be unique")
		}
		return EmployeeDTO{}, fmt.Errorf("insert employee: %w", err)
	}

	return employeeToDTO(employee), nil
}

func (s *Store) DeleteEmployee(ctx context.Context, employeeID uint) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&models.Employee{}, employeeID)
	if result.Error != nil {
		return false, fmt.Errorf("delete employee: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]EmployeeDTO, error) {
	var employees []models.Employee
	if err := s.db.WithContext(ctx).Order("employee_id ASC").Find(&employees).Error; err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	result := make([]EmployeeDTO, 0, len(employees))
	for _, employee := range employees {
		result = append(result, employeeToDTO(employee))
	}
	return result, nil
}

func (s *Store) GetEmployeeByUsername(ctx context.Context, username string) (EmployeeDTO, bool, error) {
	var employee models.Employee
	err := s.db.WithContext(ctx).
		Where(map[string]interface{}{"username": username}).
		First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeDTO{}, false, nil
		}
		return EmployeeDTO{}, false, fmt.Errorf("load employee: %w", err)
	}
	return employeeToDTO(employee), true, nil
}

// UpdateEmployee writes only the labelled fields plus the audit columns.
// An empty field map writes nothing and reports false.
func (s *Store) UpdateEmployee(ctx context.Context, username string, fields map[string]string) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}

	updates, err := translateFields(fields)
	if err != nil {
		return false, err
	}
	updates["date_updated"] = time.Now()
	if actor := actorFrom(ctx); actor != nil {
		updates["updated_by"] = *actor
	}

	result := s.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where(map[string]interface{}{"username": username}).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("update employee: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func employeeToDTO(employee models.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:               employee.ID,
		Username:         employee.Username,
		FirstName:        employee.FirstName,
		LastName:         employee.LastName,
		DisplayName:      employee.DisplayName,
		NickName:         employee.NickName,
		Age:              employee.Age,
		Gender:           employee.Gender,
		Email:            employee.Email,
		Address:          employee.Address,
		Telephone:        employee.Telephone,
		Cellphone:        employee.Cellphone,
		SupervisorID:     employee.SupervisorID,
		EmploymentStatus: employee.EmploymentStatus,
		Hired:            employee.Hired,
		EmploymentType:   employee.EmploymentType,
		DateHired:        formatDate(employee.DateHired),
		Birthday:         formatDate(employee.Birthday),
		DateCreated:      employee.DateCreated,
		DateUpdated:      employee.DateUpdated,
		CreatedBy:        employee.CreatedBy,
		UpdatedBy:        employee.UpdatedBy,
		DeptID:           employee.DeptID,
		JobTitleID:       employee.JobTitleID,
	}
}

func formatDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format(dateLayout)
	return &formatted
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return true
	}
	return false
}
