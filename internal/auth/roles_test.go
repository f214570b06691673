package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookly/internal/models"
)

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		allowed    []string
		wantStatus int
	}{
		{name: "user in user list", role: "user", allowed: []string{"user"}, wantStatus: 200},
		{name: "user in combined list", role: "user", allowed: []string{"admin", "user"}, wantStatus: 200},
		{name: "admin in combined list", role: "admin", allowed: []string{"admin", "user"}, wantStatus: 200},
		{name: "user against admin only", role: "user", allowed: []string{"admin"}, wantStatus: 403},
		{name: "admin against user only", role: "admin", allowed: []string{"user"}, wantStatus: 403},
		{name: "empty allow list denies all", role: "admin", allowed: nil, wantStatus: 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			handler := RequireRoles(tt.allowed...)(okHandler(&called))

			user := &models.User{Role: tt.role}
			req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
			req = req.WithContext(context.WithValue(req.Context(), userKey, user))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if wantCalled := tt.wantStatus == 200; called != wantCalled {
				t.Errorf("handler called = %v, want %v", called, wantCalled)
			}
			if tt.wantStatus == 403 {
				if got := errorCode(t, rec); got != "INSUFFICIENT_PERMISSIONS" {
					t.Errorf("error_code = %q, want INSUFFICIENT_PERMISSIONS", got)
				}
			}
		})
	}
}

func TestRequireRolesWithoutResolvedUser(t *testing.T) {
	var called bool
	handler := RequireRoles("user")(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Error("handler ran without a resolved user")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
