package models

import "time"

type Employee struct {
	ID               uint       `gorm:"column:employee_id;primaryKey;autoIncrement"`
	Username         string     `gorm:"column:username;type:varchar(150);uniqueIndex;not null"`
	FirstName        *string    `gorm:"column:first_name;type:varchar(200)"`
	LastName         *string    `gorm:"column:last_name;type:varchar(200)"`
	DisplayName      *string    `gorm:"column:display_name;type:varchar(200)"`
	NickName         *string    `gorm:"column:nick_name;type:varchar(200)"`
	Age              *int       `gorm:"column:age"`
	Gender           *string    `gorm:"column:gender;type:varchar(50)"`
	Email            *string    `gorm:"column:email;type:varchar(320)"`
	Address          *string    `gorm:"column:address;type:text"`
	Telephone        *string    `gorm:"column:telephone;type:varchar(50)"`
	Cellphone        *string    `gorm:"column:cellphone;type:varchar(50)"`
	SupervisorID     *uint      `gorm:"column:supervisor_id"`
	EmploymentStatus *string    `gorm:"column:employment_status;type:varchar(100)"`
	Hired            *string    `gorm:"column:hired;type:varchar(100)"`
	EmploymentType   *string    `gorm:"column:employment_type;type:varchar(100)"`
	DateHired        *time.Time `gorm:"column:date_hired;type:date"`
	Birthday         *time.Time `gorm:"column:birthday;type:date"`
	DateCreated      time.Time  `gorm:"column:date_created;autoCreateTime"`
	DateUpdated      time.Time  `gorm:"column:date_updated;autoUpdateTime"`
	CreatedBy        *string    `gorm:"column:created_by;type:varchar(150)"`
	UpdatedBy        *string    `gorm:"column:updated_by;type:varchar(150)"`
	DeptID           *uint      `gorm:"column:dept_id"`
	JobTitleID       *uint      `gorm:"column:job_title_id"`
}

func (Employee) TableName() string {
	return "employees"
}
