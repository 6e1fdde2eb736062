package sheet

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"onboarding-records/internal/form"
	"onboarding-records/internal/store"
)

const SheetName = "Employees"

// Columns are the header keys of exported and imported workbooks.
var Columns = []string{
	"employee_id", "username", "first_name", "last_name", "display_name", "nick_name",
	"age", "gender", "email", "address", "telephone", "cellphone",
	"supervisor_id", "employment_status", "hired", "employment_type",
	"date_hired", "birthday", "date_created", "date_updated",
	"created_by", "updated_by", "dept_id", "job_title_id",
}

// Export writes employees to a new workbook, one row each, in list order.
func Export(employees []store.EmployeeDTO) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, column := range Columns {
		header[i] = column
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, employee := range employees {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := rowOf(employee)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f, nil
}

func rowOf(e store.EmployeeDTO) []interface{} {
	const timestamp = "2006-01-02 15:04:05"
	return []interface{}{
		e.ID, e.Username, str(e.FirstName), str(e.LastName), str(e.DisplayName), str(e.NickName),
		num(e.Age), str(e.Gender), str(e.Email), str(e.Address), str(e.Telephone), str(e.Cellphone),
		id(e.SupervisorID), str(e.EmploymentStatus), str(e.Hired), str(e.EmploymentType),
		str(e.DateHired), str(e.Birthday), e.DateCreated.Format(timestamp), e.DateUpdated.Format(timestamp),
		str(e.CreatedBy), str(e.UpdatedBy), id(e.DeptID), id(e.JobTitleID),
	}
}

func str(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func num(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func id(v *uint) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported []string   `json:"imported"`
	Failed   []RowError `json:"failed"`
}

// Import reads the first sheet of a workbook. The header row names form keys;
// columns that are not form fields (employee_id, timestamps) are ignored.
// Each row goes through the employee form and is added on its own.
func Import(ctx context.Context, r io.Reader, employees store.Employees) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return ImportResult{}, fmt.Errorf("workbook has no header row")
	}

	header := rows[0]
	result := ImportResult{Imported: []string{}, Failed: []RowError{}}
	for i, row := range rows[1:] {
		rowNumber := i + 2
		values := make(map[string]string)
		for col, key := range header {
			key = strings.TrimSpace(key)
			if _, ok := form.FieldByKey(key); !ok || col >= len(row) {
				continue
			}
			if value := strings.TrimSpace(row[col]); value != "" {
				values[key] = value
			}
		}
		if len(values) == 0 {
			continue
		}

		input, err := form.Assemble(values)
		if err != nil {
			result.Failed = append(result.Failed, RowError{Row: rowNumber, Message: err.Error()})
			continue
		}
		created, err := employees.AddEmployee(ctx, input)
		if err != nil {
			result.Failed = append(result.Failed, RowError{Row: rowNumber, Message: err.Error()})
			continue
		}
		result.Imported = append(result.Imported, created.Username)
	}
	return result, nil
}
