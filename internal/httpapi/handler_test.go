package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"onboarding-records/internal/apperror"
	"onboarding-records/internal/attachment"
	"onboarding-records/internal/config"
	"onboarding-records/internal/logging"
	"onboarding-records/internal/notify"
	"onboarding-records/internal/session"
	"onboarding-records/internal/store"
)

type stubEmployees struct {
	addFn    func(ctx context.Context, input store.CreateEmployeeInput) (store.EmployeeDTO, error)
	deleteFn func(ctx context.Context, employeeID uint) (bool, error)
	listFn   func(ctx context.Context) ([]store.EmployeeDTO, error)
	getFn    func(ctx context.Context, username string) (store.EmployeeDTO, bool, error)
	updateFn func(ctx context.Context, username string, fields map[string]string) (bool, error)
}

func (s stubEmployees) AddEmployee(ctx context.Context, input store.CreateEmployeeInput) (store.EmployeeDTO, error) {
	if s.addFn == nil {
		return store.EmployeeDTO{}, nil
	}
	return s.addFn(ctx, input)
}

func (s stubEmployees) DeleteEmployee(ctx context.Context, employeeID uint) (bool, error) {
	if s.deleteFn == nil {
		return false, nil
	}
	return s.deleteFn(ctx, employeeID)
}

func (s stubEmployees) ListEmployees(ctx context.Context) ([]store.EmployeeDTO, error) {
	if s.listFn == nil {
		return []store.EmployeeDTO{}, nil
	}
	return s.listFn(ctx)
}

func (s stubEmployees) GetEmployeeByUsername(ctx context.Context, username string) (store.EmployeeDTO, bool, error) {
	if s.getFn == nil {
		return store.EmployeeDTO{}, false, nil
	}
	return s.getFn(ctx, username)
}

func (s stubEmployees) UpdateEmployee(ctx context.Context, username string, fields map[string]string) (bool, error) {
	if s.updateFn == nil {
		return false, nil
	}
	return s.updateFn(ctx, username, fields)
}

type stubAttachments struct {
	path  string
	found bool
}

func (s stubAttachments) GetAttachmentPath(context.Context, string) (string, bool, error) {
	return s.path, s.found, nil
}

func (s stubAttachments) AddAttachment(context.Context, store.AddAttachmentInput) (bool, error) {
	return true, nil
}

type stubUploader struct {
	uploadFn func(ctx context.Context, username, originalName string, src io.Reader) (attachment.Result, error)
}

func (s stubUploader) Upload(ctx context.Context, username, originalName string, src io.Reader) (attachment.Result, error) {
	return s.uploadFn(ctx, username, originalName, src)
}

type stubSettings struct {
	settings []config.Setting
}

func (s *stubSettings) Read() ([]config.Setting, error) {
	return s.settings, nil
}

func (s *stubSettings) Write(settings []config.Setting) error {
	for _, setting := range settings {
		if setting.Key == "" {
			return errors.New("setting key is required")
		}
	}
	s.settings = settings
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, deps Dependencies) *gin.Engine {
	t.Helper()

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	employeeHash, err := bcrypt.GenerateFromPassword([]byte("employee-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	deps.Auth = session.NewAuthenticator(
		session.NewCredentialVerifier("admin", string(adminHash), string(employeeHash)),
		session.NewTokens("test-secret", time.Hour),
		session.NewRegistry(),
	)
	if deps.Employees == nil {
		deps.Employees = stubEmployees{}
	}
	if deps.Attachments == nil {
		deps.Attachments = stubAttachments{}
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.MailtoNotifier{}
	}
	if deps.Settings == nil {
		deps.Settings = &stubSettings{}
	}
	deps.Logger = logging.Nop()

	return NewRouter(NewHandler(deps))
}

func perform(router http.Handler, method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func login(t *testing.T, router http.Handler, username, password string) string {
	t.Helper()

	body := bytes.NewBufferString(fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	recorder := perform(router, http.MethodPost, "/auth/login", "", body)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var result session.LoginResult
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&payload))
	return payload
}

func strPtr(value string) *string {
	return &value
}

func TestHealthcheck(t *testing.T) {
	router := newTestRouter(t, Dependencies{})

	recorder := perform(router, http.MethodGet, "/healthcheck", "", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ok", recorder.Body.String())
}

func TestLoginSessionAndLogout(t *testing.T) {
	router := newTestRouter(t, Dependencies{})
	token := login(t, router, "admin", "admin-pass")

	recorder := perform(router, http.MethodGet, "/session", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, string(session.ScreenAdminHome), decodeBody(t, recorder)["screen"])

	recorder = perform(router, http.MethodPost, "/session/navigate", token, bytes.NewBufferString(`{"screen":"admin_manage"}`))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, string(session.ScreenAdminManage), decodeBody(t, recorder)["screen"])

	recorder = perform(router, http.MethodPost, "/session/navigate", token, bytes.NewBufferString(`{"screen":"employee_view"}`))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = perform(router, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, string(session.ScreenLogin), decodeBody(t, recorder)["screen"])

	recorder = perform(router, http.MethodGet, "/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router := newTestRouter(t, Dependencies{})

	body := bytes.NewBufferString(`{"username":"admin","password":"nope"}`)
	recorder := perform(router, http.MethodPost, "/auth/login", "", body)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestLoginRejectsUnknownJSONFields(t *testing.T) {
	router := newTestRouter(t, Dependencies{})

	body := bytes.NewBufferString(`{"username":"admin","password":"admin-pass","role":"admin"}`)
	recorder := perform(router, http.MethodPost, "/auth/login", "", body)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	router := newTestRouter(t, Dependencies{})

	recorder := perform(router, http.MethodGet, "/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	token := login(t, router, "jdoe", "employee-pass")
	recorder = perform(router, http.MethodGet, "/employees", token, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	adminToken := login(t, router, "admin", "admin-pass")
	recorder = perform(router, http.MethodGet, "/me", adminToken, nil)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestCreateEmployee(t *testing.T) {
	var called bool
	router := newTestRouter(t, Dependencies{
		Employees: stubEmployees{
			addFn: func(ctx context.Context, input store.CreateEmployeeInput) (store.EmployeeDTO, error) {
				assert.Equal(t, "jdoe", input.Username)
				require.NotNil(t, input.Email)
				assert.Equal(t, "jdoe@example.com", *input.Email)
				called = true
				return store.EmployeeDTO{ID: 7, Username: input.Username, Email: input.Email}, nil
			},
		},
	})
	token := login(t, router, "admin", "admin-pass")

	body := bytes.NewBufferString(`{"username":"jdoe","email":"jdoe@example.com","first_name":""}`)
	recorder := perform(router, http.MethodPost, "/employees", token, body)

	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	payload := decodeBody(t, recorder)
	assert.Equal(t, float64(7), payload["employee_id"])
	assert.Equal(t, "jdoe", payload["username"])
	assert.True(t, called)
}

func TestCreateEmployeeValidationAndConflict(t *testing.T) {
	router := newTestRouter(t, Dependencies{
		Employees: stubEmployees{
			addFn: func(ctx context.Context, input store.CreateEmployeeInput) (store.EmployeeDTO, error) {
				return store.EmployeeDTO{}, apperror.New(apperror.CodeConflict, "username must be unique")
			},
		},
	})
	token := login(t, router, "admin", "admin-pass")

	recorder := perform(router, http.MethodPost, "/employees", token, bytes.NewBufferString(`{"email":"a@b.c"}`))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = perform(router, http.MethodPost, "/employees", token, bytes.NewBufferString(`{"username":"a","email":"a@b.c","gender":"Robot"}`))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = perform(router, http.MethodPost, "/employees", token, bytes.NewBufferString(`{"username":"a","email":"a@b.c"}`))
	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Equal(t, "username must be unique", decodeBody(t, recorder)["error"])
}

func TestUpdateEmployeeSendsOnlyChangedFields(t *testing.T) {
	var saved map[string]string
	router := newTestRouter(t, Dependencies{
		Employees: stubEmployees{
			getFn: func(ctx context.Context, username string) (store.EmployeeDTO, bool, error) {
				if username != "jdoe" {
					return store.EmployeeDTO{}, false, nil
				}
				first := "Jane"
				if saved != nil {
					first = "Janet"
				}
				return store.EmployeeDTO{ID: 1, Username: "jdoe", FirstName: strPtr(first), Email: strPtr("j@example.com")}, true, nil
			},
			updateFn: func(ctx context.Context, username string, fields map[string]string) (bool, error) {
				saved = fields
				return len(fields) > 0, nil
			},
		},
	})
	token := login(t, router, "admin", "admin-pass")

	body := bytes.NewBufferString(`{"fields":{"First Name":"Janet","Email":"j@example.com"}}`)
	recorder := perform(router, http.MethodPatch, "/employees/jdoe", token, body)

	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Equal(t, map[string]string{store.LabelFirstName: "Janet"}, saved)

	var response updateEmployeeResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.True(t, response.Updated)
	require.NotNil(t, response.Employee.FirstName)
	assert.Equal(t, "Janet", *response.Employee.FirstName)

	recorder = perform(router, http.MethodPatch, "/employees/ghost", token, bytes.NewBufferString(`{"fields":{"Age":"3"}}`))
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = perform(router, http.MethodPatch, "/employees/jdoe", token, bytes.NewBufferString(`{"fields":{"Email":""}}`))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = perform(router, http.MethodPatch, "/employees/jdoe", token, bytes.NewBufferString(`{"fields":{"Salary":"1"}}`))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDeleteEmployee(t *testing.T) {
	router := newTestRouter(t, Dependencies{
		Employees: stubEmployees{
			deleteFn: func(ctx context.Context, employeeID uint) (bool, error) {
				return employeeID == 3, nil
			},
		},
	})
	token := login(t, router, "admin", "admin-pass")

	assert.Equal(t, http.StatusNoContent, perform(router, http.MethodDelete, "/employees/3", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, perform(router, http.MethodDelete, "/employees/4", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodDelete, "/employees/abc", token, nil).Code)
}

func TestListEmployeesError(t *testing.T) {
	router := newTestRouter(t, Dependencies{
		Employees: stubEmployees{
			listFn: func(ctx context.Context) ([]store.EmployeeDTO, error) {
				return nil, errors.New("database is locked")
			},
		},
	})
	token := login(t, router, "admin", "admin-pass")

	recorder := perform(router, http.MethodGet, "/employees", token, nil)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "internal server error", decodeBody(t, recorder)["error"])
}

func TestGetMe(t *testing.T) {
	router := newTestRouter(t, Dependencies{
		Employees: stubEmployees{
			getFn: func(ctx context.Context, username string) (store.EmployeeDTO, bool, error) {
				if username == "jdoe" {
					return store.EmployeeDTO{ID: 1, Username: "jdoe"}, true, nil
				}
				return store.EmployeeDTO{}, false, nil
			},
		},
	})

	recorder := perform(router, http.MethodGet, "/me", login(t, router, "jdoe", "employee-pass"), nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "jdoe", decodeBody(t, recorder)["username"])

	recorder = perform(router, http.MethodGet, "/me", login(t, router, " jdoe ", "employee-pass"), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = perform(router, http.MethodGet, "/me", login(t, router, "newhire", "employee-pass"), nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestNotifyEmployee(t *testing.T) {
	router := newTestRouter(t, Dependencies{
		Employees: stubEmployees{
			getFn: func(ctx context.Context, username string) (store.EmployeeDTO, bool, error) {
				switch username {
				case "jdoe":
					return store.EmployeeDTO{Username: "jdoe", Email: strPtr("jdoe@example.com")}, true, nil
				case "noemail":
					return store.EmployeeDTO{Username: "noemail"}, true, nil
				}
				return store.EmployeeDTO{}, false, nil
			},
		},
	})
	token := login(t, router, "admin", "admin-pass")

	recorder := perform(router, http.MethodPost, "/employees/jdoe/notify", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "mailto:jdoe@example.com?subject=Company%20Onboarding", decodeBody(t, recorder)["mailto_url"])

	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodPost, "/employees/noemail/notify", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, perform(router, http.MethodPost, "/employees/ghost/notify", token, nil).Code)
}

type failingNotifier struct{}

func (failingNotifier) Notify(context.Context, string) (notify.Result, error) {
	return notify.Result{}, errors.New("send email: connection refused")
}

func TestNotifyEmployeeTransportFailure(t *testing.T) {
	router := newTestRouter(t, Dependencies{
		Notifier: failingNotifier{},
		Employees: stubEmployees{
			getFn: func(ctx context.Context, username string) (store.EmployeeDTO, bool, error) {
				return store.EmployeeDTO{Username: username, Email: strPtr("jdoe@example.com")}, true, nil
			},
		},
	})
	token := login(t, router, "admin", "admin-pass")

	recorder := perform(router, http.MethodPost, "/employees/jdoe/notify", token, nil)

	assert.Equal(t, http.StatusBadGateway, recorder.Code)
	assert.Equal(t, "failed to send email: send email: connection refused", decodeBody(t, recorder)["error"])
}

func TestGetAttachmentWhenNoneRecorded(t *testing.T) {
	router := newTestRouter(t, Dependencies{})
	token := login(t, router, "admin", "admin-pass")

	recorder := perform(router, http.MethodGet, "/employees/jdoe/attachment", token, nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Nil(t, payload["path"])
	assert.Equal(t, false, payload["exists"])

	recorder = perform(router, http.MethodGet, "/employees/jdoe/attachment/file", token, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetAttachmentReportsMissingFile(t *testing.T) {
	router := newTestRouter(t, Dependencies{
		Attachments: stubAttachments{path: "/nonexistent/jdoe_cv.pdf", found: true},
	})
	token := login(t, router, "admin", "admin-pass")

	recorder := perform(router, http.MethodGet, "/employees/jdoe/attachment", token, nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	assert.Equal(t, "/nonexistent/jdoe_cv.pdf", payload["path"])
	assert.Equal(t, false, payload["exists"])
}

func multipartBody(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadAttachment(t *testing.T) {
	var failRecording bool
	router := newTestRouter(t, Dependencies{
		Uploads: stubUploader{
			uploadFn: func(ctx context.Context, username, originalName string, src io.Reader) (attachment.Result, error) {
				data, err := io.ReadAll(src)
				require.NoError(t, err)
				assert.Equal(t, "jdoe", username)
				assert.Equal(t, "cv.pdf", originalName)
				result := attachment.Result{
					Path:         "/uploads/jdoe_cv.pdf",
					StoredName:   attachment.StoredName(username, originalName),
					OriginalName: originalName,
					Size:         int64(len(data)),
				}
				if failRecording {
					return result, fmt.Errorf("%w: disk full", attachment.ErrNotRecorded)
				}
				return result, nil
			},
		},
	})
	token := login(t, router, "jdoe", "employee-pass")

	send := func() *httptest.ResponseRecorder {
		body, contentType := multipartBody(t, "cv.pdf", "resume")
		req := httptest.NewRequest(http.MethodPost, "/me/attachment", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		return recorder
	}

	recorder := send()
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	failRecording = true
	recorder = send()
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "file copied but failed to save to database", decodeBody(t, recorder)["error"])

	recorder = perform(router, http.MethodPost, "/me/attachment", token, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSettingsRoundTrip(t *testing.T) {
	settings := &stubSettings{settings: []config.Setting{{Key: "APP_PORT", Value: "8080"}}}
	router := newTestRouter(t, Dependencies{Settings: settings})
	token := login(t, router, "admin", "admin-pass")

	recorder := perform(router, http.MethodGet, "/settings", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"APP_PORT"`)

	body := bytes.NewBufferString(`{"settings":[{"key":"UPLOAD_DIR","value":"/srv/uploads"}]}`)
	recorder = perform(router, http.MethodPut, "/settings", token, body)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []config.Setting{{Key: "UPLOAD_DIR", Value: "/srv/uploads"}}, settings.settings)

	recorder = perform(router, http.MethodPut, "/settings", token, bytes.NewBufferString(`{"settings":[{"key":"","value":"x"}]}`))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestSettingsMaskSecrets(t *testing.T) {
	const hash = "$2a$04$I4BsS2NWa5XdsQeQ0pLq9O"
	settings := &stubSettings{settings: []config.Setting{
		{Key: "APP_PORT", Value: "8080"},
		{Key: "JWT_SECRET", Value: "top-secret"},
		{Key: "ADMIN_PASSWORD_HASH", Value: hash},
		{Key: "SMTP_PASSWORD", Value: ""},
	}}
	router := newTestRouter(t, Dependencies{Settings: settings})
	token := login(t, router, "admin", "admin-pass")

	recorder := perform(router, http.MethodGet, "/settings", token, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var shown settingsRequest
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&shown))
	assert.Equal(t, []config.Setting{
		{Key: "APP_PORT", Value: "8080"},
		{Key: "JWT_SECRET", Value: config.MaskedValue},
		{Key: "ADMIN_PASSWORD_HASH", Value: config.MaskedValue},
		{Key: "SMTP_PASSWORD", Value: ""},
	}, shown.Settings)
	assert.NotContains(t, recorder.Body.String(), "top-secret")

	shown.Settings[0].Value = "9090"
	shown.Settings[3].Value = "mail-pass"
	body, err := json.Marshal(shown)
	require.NoError(t, err)
	recorder = perform(router, http.MethodPut, "/settings", token, bytes.NewReader(body))
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.NotContains(t, recorder.Body.String(), "mail-pass")
	assert.Equal(t, []config.Setting{
		{Key: "APP_PORT", Value: "9090"},
		{Key: "JWT_SECRET", Value: "top-secret"},
		{Key: "ADMIN_PASSWORD_HASH", Value: hash},
		{Key: "SMTP_PASSWORD", Value: "mail-pass"},
	}, settings.settings)

	body = []byte(`{"settings":[{"key":"NEW_SECRET","value":"` + config.MaskedValue + `"}]}`)
	recorder = perform(router, http.MethodPut, "/settings", token, bytes.NewReader(body))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestEmployeeFormIsPublic(t *testing.T) {
	router := newTestRouter(t, Dependencies{})

	recorder := perform(router, http.MethodGet, "/forms/employee", "", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	payload := decodeBody(t, recorder)
	fields, ok := payload["fields"].([]interface{})
	require.True(t, ok)
	assert.Len(t, fields, 20)
	labels, ok := payload["editable_labels"].([]interface{})
	require.True(t, ok)
	assert.Len(t, labels, 18)
	assert.Contains(t, labels, store.LabelHiredStatus)
}
