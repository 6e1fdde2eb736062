package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onboarding-records/internal/apperror"
	"onboarding-records/internal/form"
	"onboarding-records/internal/store"
)

type updateEmployeeRequest struct {
	Fields map[string]string `json:"fields"`
}

type updateEmployeeResponse struct {
	Updated  bool              `json:"updated"`
	Employee store.EmployeeDTO `json:"employee"`
}

func (h *Handler) handleListEmployees(c *gin.Context) {
	employees, err := h.employees.ListEmployees(c.Request.Context())
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

func (h *Handler) handleCreateEmployee(c *gin.Context) {
	var values map[string]string
	if err := decodeJSON(c, &values); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	input, err := form.Assemble(values)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	employee, err := h.employees.AddEmployee(c.Request.Context(), input)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	h.logger.Info().Str("username", employee.Username).Uint("employee_id", employee.ID).Msg("employee added")
	c.JSON(http.StatusCreated, employee)
}

func (h *Handler) handleGetEmployee(c *gin.Context) {
	employee, err := h.loadEmployee(c, c.Param("ref"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, employee)
}

// handleUpdateEmployee saves the edit-mode delta of a record. Unchanged
// fields are dropped before anything is written.
func (h *Handler) handleUpdateEmployee(c *gin.Context) {
	var req updateEmployeeRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	username := c.Param("ref")
	current, err := h.loadEmployee(c, username)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	editor := form.NewEditor()
	editor.Enable()
	delta, err := editor.Delta(current, req.Fields)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	updated, err := h.employees.UpdateEmployee(c.Request.Context(), username, delta)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusOK, updateEmployeeResponse{Updated: false, Employee: current})
		return
	}

	employee, err := h.loadEmployee(c, username)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	h.logger.Info().Str("username", username).Int("fields", len(delta)).Msg("employee updated")
	c.JSON(http.StatusOK, updateEmployeeResponse{Updated: true, Employee: employee})
}

func (h *Handler) handleDeleteEmployee(c *gin.Context) {
	employeeID, err := parseUintID(c.Param("ref"))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid employee id")
		return
	}

	removed, err := h.employees.DeleteEmployee(c.Request.Context(), employeeID)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	if !removed {
		writeError(c, http.StatusNotFound, "employee not found")
		return
	}

	h.logger.Info().Uint("employee_id", employeeID).Msg("employee deleted")
	c.Status(http.StatusNoContent)
}

func (h *Handler) handleGetMe(c *gin.Context) {
	employee, found, err := h.employees.GetEmployeeByUsername(c.Request.Context(), claimsFrom(c).Username)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	if !found {
		writeError(c, http.StatusNotFound, "no information found for this account; contact admin to add your details")
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *Handler) loadEmployee(c *gin.Context, username string) (store.EmployeeDTO, error) {
	employee, found, err := h.employees.GetEmployeeByUsername(c.Request.Context(), username)
	if err != nil {
		return store.EmployeeDTO{}, err
	}
	if !found {
		return store.EmployeeDTO{}, apperror.New(apperror.CodeNotFound, "employee not found")
	}
	return employee, nil
}
