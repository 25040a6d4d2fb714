package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"keytrack/internal/adapters/http/middleware"
	"keytrack/internal/adapters/persistence/store"
	"keytrack/internal/config"
	"keytrack/internal/core/domain"
	"keytrack/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	password.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testApp struct {
	t   *testing.T
	app *fiber.App
}

func newTestApp(t *testing.T, authRequired bool) *testApp {
	t.Helper()

	cfg := &config.Config{
		AppMode: "prod",
		Store:   config.StoreConfig{Driver: store.DriverMemory},
		JWT:     config.JWTConfig{Secret: "test-secret", AccessTokenMins: 60},
		Auth:    config.AuthConfig{Required: authRequired},
		Overdue: config.OverdueConfig{SweepOnRead: true},
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	middleware.Setup(app, cfg)
	Setup(app, store.NewMemoryStore(), cfg, Options{
		Now: func() time.Time { return fixedNow },
	})
	return &testApp{t: t, app: app}
}

func (a *testApp) do(method, path string, body interface{}, token string) (int, envelope) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(a.t, err)
			raw = string(encoded)
		}
		reader = strings.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	if len(raw) > 0 && bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		require.NoError(a.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), string(env.Data))
	return out
}

func (a *testApp) createKey(number, room string) domain.Key {
	a.t.Helper()
	status, env := a.do(http.MethodPost, "/api/keys", map[string]string{"keyNumber": number, "roomNumber": room}, "")
	require.Equal(a.t, http.StatusOK, status, env.Error)
	return decode[domain.Key](a.t, env)
}

func TestHealth(t *testing.T) {
	a := newTestApp(t, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	checks := body["checks"].(map[string]interface{})
	assert.Equal(t, "healthy", checks["store"])
}

func TestOverdueOnKeyListing(t *testing.T) {
	a := newTestApp(t, false)
	key := a.createKey("M-101", "A")

	yesterday := fixedNow.Add(-24 * time.Hour).Format("2006-01-02")
	status, env := a.do(http.MethodPost, "/api/assignments", map[string]string{
		"keyId":          key.ID,
		"personnelId":    "u1",
		"assignmentType": "event",
		"dueDate":        yesterday,
	}, "")
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = a.do(http.MethodGet, "/api/keys", nil, "")
	require.Equal(t, http.StatusOK, status)
	page := decode[struct {
		Items []domain.Key `json:"items"`
		Next  *string      `json:"next"`
	}](t, env)
	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.KeyStatusOverdue, page.Items[0].Status)
	assert.Nil(t, page.Next)

	// a second read must not notify again
	_, _ = a.do(http.MethodGet, "/api/keys", nil, "")

	status, env = a.do(http.MethodGet, "/api/notifications", nil, "")
	require.Equal(t, http.StatusOK, status)
	notifications := decode[[]domain.Notification](t, env)
	overdue := 0
	for _, n := range notifications {
		if strings.Contains(n.Message, "M-101") && strings.Contains(n.Message, "overdue") {
			overdue++
		}
	}
	assert.Equal(t, 1, overdue)
}

func TestKeyRoutes_Errors(t *testing.T) {
	a := newTestApp(t, false)
	key := a.createKey("M-101", "A")

	status, env := a.do(http.MethodPost, "/api/keys", map[string]string{"keyNumber": "X"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, domain.ErrKeyFieldsRequired.Error(), env.Error)

	status, env = a.do(http.MethodGet, "/api/keys/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Key not found", env.Error)

	status, env = a.do(http.MethodPost, "/api/keys/"+key.ID+"/return", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Key is not currently assigned", env.Error)

	status, env = a.do(http.MethodPost, "/api/keys", `{"keyNumber":`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid payload", env.Error)

	status, env = a.do(http.MethodDelete, "/api/keys/"+key.ID, nil, "")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id":"`+key.ID+`"}`, string(env.Data))

	status, _ = a.do(http.MethodDelete, "/api/keys/"+key.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestIssueAndReturnFlow(t *testing.T) {
	a := newTestApp(t, false)
	key := a.createKey("M-101", "A")

	status, env := a.do(http.MethodPost, "/api/users", map[string]string{
		"name": "Alice", "email": "alice@university.edu", "department": "Physics",
	}, "")
	require.Equal(t, http.StatusOK, status, env.Error)
	user := decode[domain.UserResponse](t, env)

	status, env = a.do(http.MethodPost, "/api/assignments", map[string]string{
		"keyId": key.ID, "personnelId": user.ID, "assignmentType": "personal",
	}, "")
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = a.do(http.MethodPost, "/api/assignments", map[string]string{
		"keyId": key.ID, "personnelId": user.ID, "assignmentType": "personal",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Key is not available for assignment", env.Error)

	status, env = a.do(http.MethodGet, "/api/personnel/"+user.ID+"/keys", nil, "")
	require.Equal(t, http.StatusOK, status)
	held := decode[[]domain.PopulatedAssignment](t, env)
	require.Len(t, held, 1)
	assert.Equal(t, "M-101", held[0].Key.KeyNumber)

	status, env = a.do(http.MethodPost, "/api/keys/"+key.ID+"/return", nil, "")
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, domain.KeyStatusAvailable, decode[domain.Key](t, env).Status)

	status, env = a.do(http.MethodGet, "/api/stats", nil, "")
	require.Equal(t, http.StatusOK, status)
	stats := decode[domain.DashboardStats](t, env)
	assert.Equal(t, 1, stats.TotalKeys)
	assert.Equal(t, 1, stats.KeysAvailable)

	status, env = a.do(http.MethodGet, "/api/assignments?page=1&limit=1", nil, "")
	require.Equal(t, http.StatusOK, status)
	paged := decode[struct {
		Items []domain.PopulatedAssignment `json:"items"`
		Meta  struct {
			Total int `json:"total"`
		} `json:"meta"`
	}](t, env)
	require.Len(t, paged.Items, 1)
	assert.Equal(t, 1, paged.Meta.Total)
	require.NotNil(t, paged.Items[0].ReturnDate)
}

func TestRequestFlow(t *testing.T) {
	a := newTestApp(t, false)
	key := a.createKey("L-3", "Lab 3")

	status, env := a.do(http.MethodPost, "/api/requests", map[string]string{
		"personnelId":      "u1",
		"requestedKeyInfo": "Lab 3",
		"assignmentType":   "event",
		"issueDate":        "2025-03-11",
		"dueDate":          "2025-03-12",
	}, "")
	require.Equal(t, http.StatusOK, status, env.Error)
	request := decode[domain.KeyRequest](t, env)

	status, env = a.do(http.MethodPost, "/api/requests/"+request.ID+"/approve", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "keyId is required", env.Error)

	status, env = a.do(http.MethodPost, "/api/requests/"+request.ID+"/approve", map[string]string{"keyId": "nope"}, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Selected key not found", env.Error)

	status, env = a.do(http.MethodPost, "/api/requests/"+request.ID+"/approve", map[string]string{"keyId": key.ID}, "")
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, domain.RequestApproved, decode[domain.KeyRequest](t, env).Status)

	status, env = a.do(http.MethodPost, "/api/requests/"+request.ID+"/reject", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Request is not pending", env.Error)

	status, env = a.do(http.MethodGet, "/api/requests", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]domain.PopulatedRequest](t, env), 1)
}

func TestNotificationRoutes(t *testing.T) {
	a := newTestApp(t, false)
	a.createKey("M-101", "A")

	status, env := a.do(http.MethodPost, "/api/notifications/mark-read", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid payload", env.Error)

	status, env = a.do(http.MethodGet, "/api/log", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(env.Data))

	status, env = a.do(http.MethodPost, "/api/notifications/mark-read", map[string][]string{"ids": {"missing"}}, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"updated":0}`, string(env.Data))
}

func TestSettingsRoutes(t *testing.T) {
	a := newTestApp(t, false)

	status, env := a.do(http.MethodPut, "/api/settings/logo", map[string]string{"logo": "data:image/png;base64,AAAA"}, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Profile not found", env.Error)

	status, env = a.do(http.MethodGet, "/api/profile", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "KeyTrack", decode[domain.UserProfile](t, env).AppName)

	status, env = a.do(http.MethodPut, "/api/settings/logo", map[string]string{"logo": "data:image/png;base64,AAAA"}, "")
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, decode[domain.UserProfile](t, env).AppLogoBase64)

	status, env = a.do(http.MethodPut, "/api/profile", map[string]interface{}{
		"appName":           "Campus Keys",
		"notificationPrefs": map[string]bool{"overdueKeys": false, "keyReturns": true, "keyIssues": true},
	}, "")
	require.Equal(t, http.StatusOK, status)
	profile := decode[domain.UserProfile](t, env)
	assert.Equal(t, "Campus Keys", profile.AppName)
	assert.True(t, profile.NotificationPrefs.KeyReturns)

	a.createKey("M-101", "A")
	status, env = a.do(http.MethodPost, "/api/settings/reset", nil, "")
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Equal(t, "All data cleared successfully.", env.Message)

	status, env = a.do(http.MethodGet, "/api/profile", nil, "")
	require.Equal(t, http.StatusOK, status)
	profile = decode[domain.UserProfile](t, env)
	assert.Nil(t, profile.AppLogoBase64)
	assert.Equal(t, "Campus Keys", profile.AppName)
}

func TestReportSummaryRoute(t *testing.T) {
	a := newTestApp(t, false)
	a.createKey("M-101", "A")

	status, env := a.do(http.MethodGet, "/api/reports/summary", nil, "")
	require.Equal(t, http.StatusOK, status)
	summary := decode[domain.ReportSummary](t, env)
	require.Len(t, summary.StatusDistribution, 4)
	assert.Equal(t, 1, summary.StatusDistribution[0].Value)
	assert.Contains(t, string(env.Data), `"overdueKeys":[]`)
}

func TestAuthFlow(t *testing.T) {
	a := newTestApp(t, true)

	status, _ := a.do(http.MethodGet, "/api/keys", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env := a.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@keytrack.app", "password": "nope"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid credentials", env.Error)

	status, env = a.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@keytrack.app", "password": "password"}, "")
	require.Equal(t, http.StatusOK, status, env.Error)
	admin := decode[struct {
		AccessToken string              `json:"accessToken"`
		User        domain.UserResponse `json:"user"`
	}](t, env)
	require.NotEmpty(t, admin.AccessToken)
	assert.NotContains(t, string(env.Data), "password")

	status, _ = a.do(http.MethodGet, "/api/keys", nil, admin.AccessToken)
	assert.Equal(t, http.StatusOK, status)

	status, env = a.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Bob", "email": "bob@university.edu", "password": "secret",
	}, "")
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = a.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"name": "Bob", "email": "BOB@university.edu", "password": "secret",
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "An account with this email already exists.", env.Error)

	status, env = a.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "bob@university.edu", "password": "secret"}, "")
	require.Equal(t, http.StatusOK, status, env.Error)
	bob := decode[struct {
		AccessToken string `json:"accessToken"`
	}](t, env)

	status, _ = a.do(http.MethodGet, "/api/keys", nil, bob.AccessToken)
	assert.Equal(t, http.StatusOK, status)
	status, _ = a.do(http.MethodPost, "/api/settings/reset", nil, bob.AccessToken)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = a.do(http.MethodDelete, "/api/users/admin-seed", nil, bob.AccessToken)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = a.do(http.MethodGet, "/api/keys", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, false)
	a.createKey("M-101", "A")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "keytrack_http_requests_total")
}

func TestMetricsEndpoint_MixedMethods(t *testing.T) {
	a := newTestApp(t, false)
	key := a.createKey("M-101", "A")

	for i := 0; i < 5; i++ {
		a.do(http.MethodGet, "/api/keys", nil, "")
		a.do(http.MethodPut, "/api/keys/"+key.ID, map[string]string{"roomNumber": "B"}, "")
		a.do(http.MethodPost, "/api/keys/"+key.ID+"/lost", nil, "")
		a.do(http.MethodGet, "/api/keys/"+key.ID, nil, "")
		a.do(http.MethodDelete, "/api/keys/missing", nil, "")
	}

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	known := map[string]bool{
		http.MethodGet: true, http.MethodPost: true, http.MethodPut: true, http.MethodDelete: true,
	}
	labels := regexp.MustCompile(`keytrack_http_requests_total\{method="([^"]*)",route="([^"]*)"`).
		FindAllStringSubmatch(string(body), -1)
	require.NotEmpty(t, labels)
	for _, m := range labels {
		assert.True(t, known[m[1]], "unexpected method label %q", m[1])
		assert.True(t, strings.HasPrefix(m[2], "/"), "unexpected route label %q", m[2])
	}
	assert.Contains(t, string(body), `method="DELETE",route="/api/keys/:id"`)
}
