package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookly/internal/models"
)

func newTestGuard(t *testing.T) (*Guard, *Codec, *MemoryBlocklist) {
	t.Helper()
	codec := NewCodec(testSecret)
	blocklist := NewMemoryBlocklist(time.Hour)
	return NewGuard(codec, blocklist), codec, blocklist
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func doGuarded(t *testing.T, guard *Guard, kind TokenKind, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	var called bool
	handler := guard.Require(kind)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, called
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"error_code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Code
}

func TestGuardRejections(t *testing.T) {
	guard, codec, blocklist := newTestGuard(t)

	access, err := codec.Issue(testIdentity(), time.Minute, false)
	if err != nil {
		t.Fatal(err)
	}
	refresh, err := codec.Issue(testIdentity(), time.Hour, true)
	if err != nil {
		t.Fatal(err)
	}
	expired, err := codec.Issue(testIdentity(), -time.Minute, false)
	if err != nil {
		t.Fatal(err)
	}

	revoked, err := codec.Issue(testIdentity(), time.Minute, false)
	if err != nil {
		t.Fatal(err)
	}
	revokedClaims, err := codec.Verify(revoked)
	if err != nil {
		t.Fatal(err)
	}
	if err := blocklist.Revoke(context.Background(), revokedClaims.ID); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		kind       TokenKind
		header     string
		wantStatus int
		wantCode   string
	}{
		{name: "no header", kind: AccessToken, header: "", wantStatus: 401, wantCode: "INVALID_TOKEN"},
		{name: "not bearer", kind: AccessToken, header: "Basic dXNlcjpwYXNz", wantStatus: 401, wantCode: "INVALID_TOKEN"},
		{name: "garbage token", kind: AccessToken, header: "Bearer not.a.token", wantStatus: 401, wantCode: "INVALID_TOKEN"},
		{name: "expired token", kind: AccessToken, header: "Bearer " + expired, wantStatus: 403, wantCode: "TOKEN_EXPIRED"},
		{name: "revoked looks invalid", kind: AccessToken, header: "Bearer " + revoked, wantStatus: 401, wantCode: "INVALID_TOKEN"},
		{name: "refresh where access required", kind: AccessToken, header: "Bearer " + refresh, wantStatus: 403, wantCode: "ACCESS_TOKEN_REQUIRED"},
		{name: "access where refresh required", kind: RefreshToken, header: "Bearer " + access, wantStatus: 403, wantCode: "REFRESH_TOKEN_REQUIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, called := doGuarded(t, guard, tt.kind, tt.header)
			if called {
				t.Fatal("handler ran despite rejection")
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := errorCode(t, rec); got != tt.wantCode {
				t.Errorf("error_code = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestGuardAccepted(t *testing.T) {
	guard, codec, _ := newTestGuard(t)
	identity := testIdentity()

	token, err := codec.Issue(identity, time.Minute, false)
	if err != nil {
		t.Fatal(err)
	}

	var gotClaims *Claims
	handler := guard.Require(AccessToken)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotClaims == nil {
		t.Fatal("claims missing from context")
	}
	if gotClaims.Identity != identity {
		t.Errorf("claims identity = %+v, want %+v", gotClaims.Identity, identity)
	}
}

func TestResolveUser(t *testing.T) {
	guard, codec, _ := newTestGuard(t)
	identity := testIdentity()

	token, err := codec.Issue(identity, time.Minute, false)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("resolved", func(t *testing.T) {
		want := &models.User{ID: identity.UserID, Email: identity.Email, Role: models.RoleUser}
		resolver := func(ctx context.Context, email string) (*models.User, error) {
			if email != identity.Email {
				t.Errorf("resolver email = %q, want %q", email, identity.Email)
			}
			return want, nil
		}

		var gotUser *models.User
		handler := guard.Require(AccessToken)(ResolveUser(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, _ = UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})))

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotUser != want {
			t.Error("resolved user not placed in context")
		}
	})

	t.Run("identity deleted after issuance", func(t *testing.T) {
		resolver := func(ctx context.Context, email string) (*models.User, error) {
			return nil, ErrIdentityNotFound
		}

		handler := guard.Require(AccessToken)(ResolveUser(resolver)(okHandler(new(bool))))

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
		if got := errorCode(t, rec); got != "USER_NOT_FOUND" {
			t.Errorf("error_code = %q, want USER_NOT_FOUND", got)
		}
	})
}
