package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rent_reminder_service/internal/app"
)

type fakeRunner struct {
	summary app.Summary
	err     error
	lastReq *app.RunRequest
}

func (f *fakeRunner) SendSmartReminders(_ context.Context, req app.RunRequest) (app.Summary, error) {
	f.lastReq = &req
	return f.summary, f.err
}

func (f *fakeRunner) SendDueTodayReminders(_ context.Context) (app.Summary, error) {
	return f.summary, f.err
}

func setup(runner *fakeRunner) Server {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return NewServer(&Options{DisableReqLogs: true, Runner: runner, Logger: logrus.NewEntry(l)})
}

func do(srv Server, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderOrigin, "https://dashboard.example.com")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSendSmartReminders(t *testing.T) {
	runner := &fakeRunner{summary: app.Summary{NotificationsSent: 3}}
	srv := setup(runner)

	for _, method := range []string{http.MethodPost, http.MethodGet} {
		t.Run(method, func(t *testing.T) {
			rec := do(srv, method, "/functions/v1/send-smart-reminders", "")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
			body := decode(t, rec)
			assert.Equal(t, float64(3), body["notificationsSent"])
			assert.NotContains(t, body, "partial")
			require.NotNil(t, runner.lastReq)
			assert.False(t, runner.lastReq.DryRun)
		})
	}
}

func TestSendSmartRemindersWithBody(t *testing.T) {
	runner := &fakeRunner{summary: app.Summary{NotificationsSent: 1, Partial: true}}
	srv := setup(runner)
	id := uuid.New()

	rec := do(srv, http.MethodPost, "/functions/v1/send-smart-reminders",
		`{"dryRun": true, "tenantIds": ["`+id.String()+`"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["partial"])
	require.NotNil(t, runner.lastReq)
	assert.True(t, runner.lastReq.DryRun)
	assert.Equal(t, []uuid.UUID{id}, runner.lastReq.TenantIDs)
}

func TestSendSmartRemindersBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed json", body: `{"dryRun": tru`},
		{name: "invalid tenant id", body: `{"tenantIds": ["nope"]}`, want: "tenantIds[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{}
			rec := do(setup(runner), http.MethodPost, "/functions/v1/send-smart-reminders", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decode(t, rec)
			assert.NotEmpty(t, body["error"])
			if tt.want != "" {
				assert.Contains(t, body["error"], tt.want)
			}
			assert.Nil(t, runner.lastReq)
		})
	}
}

func TestSendSmartRemindersRunnerError(t *testing.T) {
	srv := setup(&fakeRunner{err: errors.New("failed to list reminder targets: connection refused")})

	rec := do(srv, http.MethodPost, "/functions/v1/send-smart-reminders", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "failed to list reminder targets: connection refused", decode(t, rec)["error"])
}

func TestSendReminders(t *testing.T) {
	srv := setup(&fakeRunner{summary: app.Summary{NotificationsSent: 2}})

	rec := do(srv, http.MethodPost, "/functions/v1/send-reminders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Reminders sent to 2 tenants", body["message"])
	assert.Equal(t, float64(2), body["notificationsSent"])
}

func TestPreflight(t *testing.T) {
	srv := setup(&fakeRunner{})
	for _, path := range []string{"/functions/v1/send-smart-reminders", "/functions/v1/send-reminders"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set(echo.HeaderOrigin, "https://dashboard.example.com")
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code, path)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), "apikey")
		assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowHeaders), "x-client-info")
	}
}

func TestHealth(t *testing.T) {
	rec := do(setup(&fakeRunner{}), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}
