package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"onboarding-records/internal/apperror"
	"onboarding-records/internal/config"
	"onboarding-records/internal/sheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type settingsRequest struct {
	Settings []config.Setting `json:"settings"`
}

func (h *Handler) handleNotifyEmployee(c *gin.Context) {
	employee, err := h.loadEmployee(c, c.Param("ref"))
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	email := ""
	if employee.Email != nil {
		email = *employee.Email
	}

	result, err := h.notifier.Notify(c.Request.Context(), email)
	if err != nil {
		if apperror.Is(err, apperror.CodeInternal) {
			writeError(c, http.StatusBadGateway, "failed to send email: "+err.Error())
			return
		}
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) handleExportEmployees(c *gin.Context) {
	employees, err := h.employees.ListEmployees(c.Request.Context())
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	workbook, err := sheet.Export(employees)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	defer workbook.Close()

	c.Header("Content-Disposition", `attachment; filename="employees.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := workbook.Write(c.Writer); err != nil {
		h.logger.Error().Err(err).Msg("write workbook")
	}
}

func (h *Handler) handleImportEmployees(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, http.StatusBadRequest, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, http.StatusBadRequest, "cannot read uploaded file")
		return
	}
	defer file.Close()

	result, err := sheet.Import(c.Request.Context(), file, h.employees)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info().Int("imported", len(result.Imported)).Int("failed", len(result.Failed)).Msg("employees imported")
	c.JSON(http.StatusOK, result)
}

func (h *Handler) handleGetSettings(c *gin.Context) {
	settings, err := h.settings.Read()
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingsRequest{Settings: maskSettings(settings)})
}

// handlePutSettings rewrites the settings file. A secret sent back masked
// keeps its stored value.
func (h *Handler) handlePutSettings(c *gin.Context) {
	var req settingsRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	current, err := h.settings.Read()
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	stored := make(map[string]string, len(current))
	for _, setting := range current {
		stored[setting.Key] = setting.Value
	}

	settings := make([]config.Setting, 0, len(req.Settings))
	for _, setting := range req.Settings {
		if config.IsSecretKey(setting.Key) && setting.Value == config.MaskedValue {
			value, ok := stored[setting.Key]
			if !ok {
				writeError(c, http.StatusBadRequest, fmt.Sprintf("no stored value for %s", setting.Key))
				return
			}
			setting.Value = value
		}
		settings = append(settings, setting)
	}

	if err := h.settings.Write(settings); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info().Int("settings", len(settings)).Msg("settings updated")
	c.JSON(http.StatusOK, settingsRequest{Settings: maskSettings(settings)})
}

func maskSettings(settings []config.Setting) []config.Setting {
	masked := make([]config.Setting, len(settings))
	for i, setting := range settings {
		if config.IsSecretKey(setting.Key) && setting.Value != "" {
			setting.Value = config.MaskedValue
		}
		masked[i] = setting
	}
	return masked
}
