package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"onboarding-records/internal/apperror"
)

// Labels accepted by UpdateEmployee.
const (
	LabelFirstName    = "First Name"
	LabelLastName     = "Last Name"
	LabelDisplayName  = "Display Name"
	LabelNickname     = "Nickname"
	LabelAge          = "Age"
	LabelGender       = "Gender"
	LabelBirthday     = "Birthday"
	LabelEmail        = "Email"
	LabelAddress      = "Address"
	LabelTelephone    = "Telephone"
	LabelCellphone    = "Cellphone"
	LabelSupervisorID = "Supervisor ID"
	LabelStatus       = "Status"
	LabelHiredStatus  = "Hired Status"
	LabelType         = "Type"
	LabelDateHired    = "Date Hired"
	LabelDepartmentID = "Department ID"
	LabelJobID        = "Job ID"
)

type valueKind int

const (
	kindText valueKind = iota
	kindInt
	kindID
	kindDate
)

type column struct {
	name string
	kind valueKind
}

// editableColumns is the single label -> column table. "Hired Status" is the
// hired column; "Status" is employment_status.
var editableColumns = map[string]column{
	LabelFirstName:    {name: "first_name", kind: kindText},
	LabelLastName:     {name: "last_name", kind: kindText},
	LabelDisplayName:  {name: "display_name", kind: kindText},
	LabelNickname:     {name: "nick_name", kind: kindText},
	LabelAge:          {name: "age", kind: kindInt},
	LabelGender:       {name: "gender", kind: kindText},
	LabelBirthday:     {name: "birthday", kind: kindDate},
	LabelEmail:        {name: "email", kind: kindText},
	LabelAddress:      {name: "address", kind: kindText},
	LabelTelephone:    {name: "telephone", kind: kindText},
	LabelCellphone:    {name: "cellphone", kind: kindText},
	LabelSupervisorID: {name: "supervisor_id", kind: kindID},
	LabelStatus:       {name: "employment_status", kind: kindText},
	LabelHiredStatus:  {name: "hired", kind: kindText},
	LabelType:         {name: "employment_type", kind: kindText},
	LabelDateHired:    {name: "date_hired", kind: kindDate},
	LabelDepartmentID: {name: "dept_id", kind: kindID},
	LabelJobID:        {name: "job_title_id", kind: kindID},
}

// EditableLabels lists the labels UpdateEmployee understands, sorted.
func EditableLabels() []string {
	labels := make([]string, 0, len(editableColumns))
	for label := range editableColumns {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// ColumnFor returns the column a label writes to.
func ColumnFor(label string) (string, bool) {
	col, ok := editableColumns[label]
	return col.name, ok
}

// translateFields converts a label map into column assignments. Empty values
// become NULL.
func translateFields(fields map[string]string) (map[string]interface{}, error) {
	updates := make(map[string]interface{}, len(fields))
	for label, raw := range fields {
		col, ok := editableColumns[label]
		if !ok {
			return nil, apperror.New(apperror.CodeValidation, fmt.Sprintf("unknown field %q", label))
		}

		value, err := parseValue(col.kind, strings.TrimSpace(raw))
		if err != nil {
			return nil, apperror.New(apperror.CodeValidation, fmt.Sprintf("%s: %s", label, err.Error()))
		}
		updates[col.name] = value
	}
	return updates, nil
}

func parseValue(kind valueKind, raw string) (interface{}, error) {
	if raw == "" {
		return nil, nil
	}

	switch kind {
	case kindInt:
		value, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("must be an integer")
		}
		return value, nil
	case kindID:
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("must be a non-negative integer")
		}
		return uint(value), nil
	case kindDate:
		value, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("must be in YYYY-MM-DD format")
		}
		return value, nil
	default:
		return raw, nil
	}
}
