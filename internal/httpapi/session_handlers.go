package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onboarding-records/internal/form"
	"onboarding-records/internal/session"
	"onboarding-records/internal/store"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type navigateRequest struct {
	Screen session.Screen `json:"screen"`
}

func (h *Handler) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondWithError(c, err)
		return
	}

	h.logger.Info().Str("username", result.Username).Str("role", string(result.Role)).Msg("signed in")
	c.JSON(http.StatusOK, result)
}

func (h *Handler) handleLogout(c *gin.Context) {
	claims := claimsFrom(c)
	h.auth.Registry().Close(claims.ID)
	c.JSON(http.StatusOK, session.View{Screen: session.ScreenLogin})
}

func (h *Handler) handleGetSession(c *gin.Context) {
	view, ok := h.auth.Registry().Get(claimsFrom(c).ID)
	if !ok {
		writeError(c, http.StatusUnauthorized, "session ended")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) handleNavigate(c *gin.Context) {
	var req navigateRequest
	if err := decodeJSON(c, &req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.auth.Registry().Navigate(claimsFrom(c).ID, req.Screen)
	if err != nil {
		h.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) handleEmployeeForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields":          form.EmployeeForm,
		"editable_labels": store.EditableLabels(),
	})
}
