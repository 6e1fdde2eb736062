package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"onboarding-records/internal/apperror"
	"onboarding-records/internal/attachment"
	"onboarding-records/internal/config"
	"onboarding-records/internal/notify"
	"onboarding-records/internal/session"
	"onboarding-records/internal/store"
)

// Uploader stores an employee document.
type Uploader interface {
	Upload(ctx context.Context, username, originalName string, src io.Reader) (attachment.Result, error)
}

// Settings reads and rewrites the KEY=VALUE settings file.
type Settings interface {
	Read() ([]config.Setting, error)
	Write(settings []config.Setting) error
}

type Handler struct {
	employees   store.Employees
	attachments store.Attachments
	auth        *session.Authenticator
	uploads     Uploader
	notifier    notify.Notifier
	settings    Settings
	logger      zerolog.Logger
}

type Dependencies struct {
	Employees   store.Employees
	Attachments store.Attachments
	Auth        *session.Authenticator
	Uploads     Uploader
	Notifier    notify.Notifier
	Settings    Settings
	Logger      zerolog.Logger
}

func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		employees:   deps.Employees,
		attachments: deps.Attachments,
		auth:        deps.Auth,
		uploads:     deps.Uploads,
		notifier:    deps.Notifier,
		settings:    deps.Settings,
		logger:      deps.Logger,
	}
}

func (h *Handler) respondWithError(c *gin.Context, err error) {
	switch apperror.GetCode(err) {
	case apperror.CodeValidation:
		writeError(c, http.StatusBadRequest, err.Error())
	case apperror.CodeNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case apperror.CodeConflict:
		writeError(c, http.StatusConflict, err.Error())
	case apperror.CodeUnauthorized:
		writeError(c, http.StatusUnauthorized, err.Error())
	case apperror.CodeForbidden:
		writeError(c, http.StatusForbidden, err.Error())
	default:
		h.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unexpected error")
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(c *gin.Context, target interface{}) error {
	if c.Request.Body == nil {
		return errors.New("request body is required")
	}

	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return errors.New("invalid JSON body")
	}

	var extra json.RawMessage
	if err := decoder.Decode(&extra); err != io.EOF {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
	})
}

func parseUintID(raw string) (uint, error) {
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id64 == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id64), nil
}
