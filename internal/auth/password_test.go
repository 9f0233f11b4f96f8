package auth

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/argon2id"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

func seedAdmin(t *testing.T, queries *fakeQueries, password string) dbgen.User {
	t.Helper()
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := dbgen.User{
		ID:           newPgUUID(),
		Email:        common.Text("admin@example.com"),
		PasswordHash: common.Text(hash),
		Roles:        []string{"admin"},
	}
	queries.addUser(u)
	return u
}

func TestChangePasswordRejects(t *testing.T) {
	queries := newFakeQueries()
	admin := seedAdmin(t, queries, "password123")
	svc := newTestService(t, queries, nil)
	id := uuidKey(admin.ID)

	cases := []struct {
		name    string
		current string
		next    string
		confirm string
		message string
	}{
		{"wrong current", "nope", "newpassword1", "", "Current password is incorrect."},
		{"short new", "password123", "short", "", "New password must be at least 8 characters."},
		{"confirm mismatch", "password123", "newpassword1", "newpassword2", "New passwords do not match."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.ChangePassword(context.Background(), id, tc.current, tc.next, tc.confirm)
			code, status := appCode(t, err)
			if code != common.CodeValidation || status != http.StatusBadRequest {
				t.Fatalf("expected 400 validation error, got %s/%d", code, status)
			}
			if !strings.Contains(err.Error(), tc.message) {
				t.Fatalf("expected %q, got %v", tc.message, err)
			}
		})
	}
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	queries := newFakeQueries()
	admin := seedAdmin(t, queries, "password123")
	svc := newTestService(t, queries, nil)
	ctx := context.Background()

	login, err := svc.AdminLogin(ctx, "admin@example.com", "password123", "", "")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if err := svc.ChangePassword(ctx, uuidKey(admin.ID), "password123", "newpassword1", "newpassword1"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Refresh(ctx, login.RefreshToken); err == nil {
		t.Fatal("expected old refresh token to be revoked")
	}
	if _, err := svc.AdminLogin(ctx, "admin@example.com", "password123", "", ""); err == nil {
		t.Fatal("expected old password to be rejected")
	}
	if _, err := svc.AdminLogin(ctx, "admin@example.com", "newpassword1", "", ""); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestChangePasswordHandler(t *testing.T) {
	queries := newFakeQueries()
	admin := seedAdmin(t, queries, "password123")
	handler := &Handler{Service: newTestService(t, queries, nil)}
	body := `{"current_password":"password123","new_password":"newpassword1"}`

	rec := httptest.NewRecorder()
	handler.ChangePassword(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/password", bytes.NewBufferString(body)))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a subject, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/password", bytes.NewBufferString(`{"current_password":"password123"}`))
	req = req.WithContext(common.WithUserID(req.Context(), uuidKey(admin.ID)))
	rec = httptest.NewRecorder()
	handler.ChangePassword(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing new password, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/auth/password", bytes.NewBufferString(body))
	req = req.WithContext(common.WithUserID(req.Context(), uuidKey(admin.ID)))
	rec = httptest.NewRecorder()
	handler.ChangePassword(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Password changed successfully.") {
		t.Fatalf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}
