package form

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"onboarding-records/internal/apperror"
	"onboarding-records/internal/store"
)

const dateLayout = "2006-01-02"

// Assemble turns a create-form submission keyed by Field.Key into a store
// input. Blank optional values are left unset.
func Assemble(values map[string]string) (store.CreateEmployeeInput, error) {
	for key := range values {
		if _, ok := FieldByKey(key); !ok {
			return store.CreateEmployeeInput{}, apperror.New(apperror.CodeValidation, fmt.Sprintf("unknown field %q", key))
		}
	}

	var input store.CreateEmployeeInput
	for _, field := range EmployeeForm {
		raw := strings.TrimSpace(values[field.Key])
		if raw == "" {
			if field.Required {
				return store.CreateEmployeeInput{}, apperror.New(apperror.CodeValidation, fmt.Sprintf("%s is required", field.Key))
			}
			continue
		}
		if err := Validate(field, raw); err != nil {
			return store.CreateEmployeeInput{}, err
		}
		if err := assign(&input, field.Key, raw); err != nil {
			return store.CreateEmployeeInput{}, err
		}
	}
	return input, nil
}

// Validate checks a non-empty value against the field's kind.
func Validate(field Field, raw string) error {
	switch field.Kind {
	case KindChoice:
		for _, option := range field.Options {
			if option == raw {
				return nil
			}
		}
		return apperror.New(apperror.CodeValidation, fmt.Sprintf("%s must be one of: %s", field.Key, strings.Join(field.Options, ", ")))
	case KindDate:
		if _, err := time.Parse(dateLayout, raw); err != nil {
			return apperror.New(apperror.CodeValidation, fmt.Sprintf("%s must be in YYYY-MM-DD format", field.Key))
		}
	case KindNumber:
		if _, err := strconv.ParseUint(raw, 10, 32); err != nil {
			return apperror.New(apperror.CodeValidation, fmt.Sprintf("%s must be a non-negative integer", field.Key))
		}
	}
	return nil
}

func assign(input *store.CreateEmployeeInput, key, raw string) error {
	text := raw
	switch key {
	case "username":
		input.Username = raw
	case "display_name":
		input.DisplayName = &text
	case "first_name":
		input.FirstName = &text
	case "last_name":
		input.LastName = &text
	case "email":
		input.Email = &text
	case "nick_name":
		input.NickName = &text
	case "cellphone":
		input.Cellphone = &text
	case "telephone":
		input.Telephone = &text
	case "address":
		input.Address = &text
	case "employment_type":
		input.EmploymentType = &text
	case "employment_status":
		input.EmploymentStatus = &text
	case "hired":
		input.Hired = &text
	case "gender":
		input.Gender = &text
	case "created_by":
		input.CreatedBy = &text
	case "supervisor_id":
		input.SupervisorID = parseID(raw)
	case "dept_id":
		input.DeptID = parseID(raw)
	case "job_title_id":
		input.JobTitleID = parseID(raw)
	case "age":
		age, _ := strconv.Atoi(raw)
		input.Age = &age
	case "date_hired":
		input.DateHired = parseDate(raw)
	case "birthday":
		input.Birthday = parseDate(raw)
	default:
		return apperror.New(apperror.CodeInternal, fmt.Sprintf("field %q has no mapping", key))
	}
	return nil
}

func parseID(raw string) *uint {
	value, _ := strconv.ParseUint(raw, 10, 32)
	id := uint(value)
	return &id
}

func parseDate(raw string) *time.Time {
	value, _ := time.Parse(dateLayout, raw)
	return &value
}
