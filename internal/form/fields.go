package form

import "onboarding-records/internal/store"

type Kind string

const (
	KindText   Kind = "text"
	KindChoice Kind = "choice"
	KindDate   Kind = "date"
	KindNumber Kind = "number"
)

// Field describes one input of the employee form. Key is the submission key
// used on creation; Label is the name used by edit mode and UpdateEmployee.
// Fields with an empty Label cannot be edited after creation.
type Field struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Kind     Kind     `json:"kind"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
	Hint     string   `json:"hint,omitempty"`
	Tab      string   `json:"tab"`
}

const (
	TabPersonal   = "Personal Info"
	TabJob        = "Job Details"
	TabAdditional = "Additional"
)

var (
	EmploymentTypes = []string{"Salary", "Hourly", "Contractual", "Seasonal", "Student"}

	EmploymentStatuses = []string{
		"Hired", "Initial Interview", "Job Offer Sent", "For Review",
		"Hiring Team Interview", "Offer Declined", "Active", "Probation", "Separated",
	}

	Genders = []string{"Male", "Female", "Non-Binary", "Prefer not to say"}
)

// EmployeeForm is the one canonical employee form.
var EmployeeForm = []Field{
	{Key: "username", Kind: KindText, Required: true, Hint: "Required (Unique)", Tab: TabPersonal},
	{Key: "display_name", Label: store.LabelDisplayName, Kind: KindText, Tab: TabPersonal},
	{Key: "first_name", Label: store.LabelFirstName, Kind: KindText, Tab: TabPersonal},
	{Key: "last_name", Label: store.LabelLastName, Kind: KindText, Tab: TabPersonal},
	{Key: "email", Label: store.LabelEmail, Kind: KindText, Required: true, Hint: "Required", Tab: TabPersonal},
	{Key: "nick_name", Label: store.LabelNickname, Kind: KindText, Tab: TabPersonal},
	{Key: "cellphone", Label: store.LabelCellphone, Kind: KindText, Tab: TabPersonal},
	{Key: "telephone", Label: store.LabelTelephone, Kind: KindText, Tab: TabPersonal},
	{Key: "address", Label: store.LabelAddress, Kind: KindText, Tab: TabPersonal},

	{Key: "supervisor_id", Label: store.LabelSupervisorID, Kind: KindNumber, Tab: TabJob},
	{Key: "dept_id", Label: store.LabelDepartmentID, Kind: KindNumber, Tab: TabJob},
	{Key: "job_title_id", Label: store.LabelJobID, Kind: KindNumber, Tab: TabJob},
	{Key: "employment_type", Label: store.LabelType, Kind: KindChoice, Options: EmploymentTypes, Tab: TabJob},
	{Key: "date_hired", Label: store.LabelDateHired, Kind: KindDate, Hint: "YYYY-MM-DD", Tab: TabJob},
	{Key: "employment_status", Label: store.LabelStatus, Kind: KindChoice, Options: EmploymentStatuses, Tab: TabJob},
	{Key: "hired", Label: store.LabelHiredStatus, Kind: KindText, Tab: TabJob},

	{Key: "age", Label: store.LabelAge, Kind: KindNumber, Tab: TabAdditional},
	{Key: "gender", Label: store.LabelGender, Kind: KindChoice, Options: Genders, Tab: TabAdditional},
	{Key: "birthday", Label: store.LabelBirthday, Kind: KindDate, Hint: "YYYY-MM-DD", Tab: TabAdditional},
	{Key: "created_by", Kind: KindText, Hint: "Admin Name", Tab: TabAdditional},
}

// FieldByKey looks up a field of EmployeeForm.
func FieldByKey(key string) (Field, bool) {
	for _, field := range EmployeeForm {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}

// FieldByLabel looks up an editable field of EmployeeForm.
func FieldByLabel(label string) (Field, bool) {
	if label == "" {
		return Field{}, false
	}
	for _, field := range EmployeeForm {
		if field.Label == label {
			return field, true
		}
	}
	return Field{}, false
}
