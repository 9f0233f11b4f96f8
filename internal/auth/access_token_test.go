package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/backend-food/internal/common"
)

func TestServiceParseAccessTokenSuccess(t *testing.T) {
	svc := newTestService(t, newFakeQueries(), nil)
	fixed := time.Now()
	svc.WithNow(func() time.Time { return fixed })

	token, _, err := svc.signAccessToken("rider-id", common.RoleRider)
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	claims, err := svc.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Subject != "rider-id" || claims.Role != common.RoleRider {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestServiceParseAccessTokenRejectsAlgorithmMismatch(t *testing.T) {
	svc := newTestService(t, newFakeQueries(), nil)
	fixed := time.Now()
	svc.WithNow(func() time.Time { return fixed })

	built, err := jwt.NewBuilder().
		Subject("user-id").
		Issuer(svc.issuer).
		Audience([]string{svc.audience}).
		IssuedAt(fixed).
		NotBefore(fixed.Add(-svc.clockSkew)).
		Expiration(fixed.Add(svc.accessTTL)).
		Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(built, jwt.WithKey(jwa.HS384, svc.secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.ParseAccessToken(string(signed)); err == nil {
		t.Fatal("expected algorithm mismatch error")
	}
}

func TestServiceParseAccessTokenRejectsExpired(t *testing.T) {
	svc := newTestService(t, newFakeQueries(), nil)
	issued := time.Now()
	svc.WithNow(func() time.Time { return issued })
	token, _, err := svc.signAccessToken("user-id", common.RoleCustomer)
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}
	svc.WithNow(func() time.Time { return issued.Add(time.Hour) })
	if _, err := svc.ParseAccessToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestRequireRole(t *testing.T) {
	svc := newTestService(t, newFakeQueries(), nil)
	mw := Middleware{Service: svc}
	handler := mw.RequireRole(common.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, _ := common.UserID(r.Context()); id != "admin-id" {
			t.Fatalf("unexpected subject %q", id)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		role   string
		header bool
		want   int
	}{
		{name: "admin", role: common.RoleAdmin, header: true, want: http.StatusNoContent},
		{name: "customer", role: common.RoleCustomer, header: true, want: http.StatusForbidden},
		{name: "missing token", header: false, want: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
			if tc.header {
				token, _, err := svc.signAccessToken("admin-id", tc.role)
				if err != nil {
					t.Fatalf("sign: %v", err)
				}
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
