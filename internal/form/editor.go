package form

import (
	"fmt"
	"strconv"
	"strings"

	"onboarding-records/internal/apperror"
	"onboarding-records/internal/store"
)

// Editor is the edit-mode toggle of a record dialog. While disabled the
// record is read-only.
type Editor struct {
	editable bool
}

func NewEditor() *Editor {
	return &Editor{}
}

func (e *Editor) Enable()        { e.editable = true }
func (e *Editor) Disable()       { e.editable = false }
func (e *Editor) Editable() bool { return e.editable }

// Toggle flips edit mode and returns the new state.
func (e *Editor) Toggle() bool {
	e.editable = !e.editable
	return e.editable
}

// Delta compares submitted label values against the current record and
// returns only the fields that changed, ready for store.UpdateEmployee.
func (e *Editor) Delta(current store.EmployeeDTO, submitted map[string]string) (map[string]string, error) {
	if !e.editable {
		return nil, apperror.New(apperror.CodeValidation, "record is read-only; enable edit mode first")
	}

	values := Values(current)
	delta := make(map[string]string)
	for label, raw := range submitted {
		field, ok := FieldByLabel(label)
		if _, writable := store.ColumnFor(label); !ok || !writable {
			return nil, apperror.New(apperror.CodeValidation, fmt.Sprintf("field %q is not editable", label))
		}

		value := strings.TrimSpace(raw)
		if value != "" {
			if err := Validate(field, value); err != nil {
				return nil, err
			}
		} else if field.Required {
			return nil, apperror.New(apperror.CodeValidation, fmt.Sprintf("%s is required", field.Key))
		}

		if values[label] != value {
			delta[label] = value
		}
	}
	return delta, nil
}

// Values renders a record as label -> display value for every editable field.
func Values(employee store.EmployeeDTO) map[string]string {
	return map[string]string{
		store.LabelFirstName:    deref(employee.FirstName),
		store.LabelLastName:     deref(employee.LastName),
		store.LabelDisplayName:  deref(employee.DisplayName),
		store.LabelNickname:     deref(employee.NickName),
		store.LabelAge:          derefInt(employee.Age),
		store.LabelGender:       deref(employee.Gender),
		store.LabelBirthday:     deref(employee.Birthday),
		store.LabelEmail:        deref(employee.Email),
		store.LabelAddress:      deref(employee.Address),
		store.LabelTelephone:    deref(employee.Telephone),
		store.LabelCellphone:    deref(employee.Cellphone),
		store.LabelSupervisorID: derefUint(employee.SupervisorID),
		store.LabelStatus:       deref(employee.EmploymentStatus),
		store.LabelHiredStatus:  deref(employee.Hired),
		store.LabelType:         deref(employee.EmploymentType),
		store.LabelDateHired:    deref(employee.DateHired),
		store.LabelDepartmentID: derefUint(employee.DeptID),
		store.LabelJobID:        derefUint(employee.JobTitleID),
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefInt(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func derefUint(value *uint) string {
	if value == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*value), 10)
}
