package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/ratelimit"
)

func fixedCode(code string) func() (string, error) {
	return func() (string, error) { return code, nil }
}

func appCode(t *testing.T, err error) (string, int) {
	t.Helper()
	var appErr *common.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected app error, got %v", err)
	}
	return appErr.Code, appErr.HTTPStatus
}

func TestCustomerOTPLoginCreatesUser(t *testing.T) {
	queries := newFakeQueries()
	sms := &recordingSMS{}
	svc := newTestService(t, queries, sms)
	svc.WithCodeGenerator(fixedCode("1234"))
	ctx := context.Background()

	if _, err := svc.SendOTP(ctx, AudienceCustomer, "9876543210"); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	if sms.sent["9876543210"] != "1234" {
		t.Fatalf("expected code to be delivered, got %q", sms.sent["9876543210"])
	}
	if queries.otps[0].CodeHash == "1234" {
		t.Fatal("expected otp to be stored hashed")
	}

	result, err := svc.VerifyOTP(ctx, AudienceCustomer, "9876543210", "1234", "test", "127.0.0.1")
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if !result.IsNewUser || result.Role != common.RoleCustomer || result.User == nil {
		t.Fatalf("unexpected login result: %+v", result)
	}
	claims, err := svc.ParseAccessToken(result.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != result.User.ID || claims.Role != common.RoleCustomer {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// Codes are single use.
	_, err = svc.VerifyOTP(ctx, AudienceCustomer, "9876543210", "1234", "test", "127.0.0.1")
	if code, _ := appCode(t, err); code != "INVALID_OTP" {
		t.Fatalf("expected reused code to be rejected, got %s", code)
	}

	// Second login finds the existing user.
	if _, err := svc.SendOTP(ctx, AudienceCustomer, "9876543210"); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	again, err := svc.VerifyOTP(ctx, AudienceCustomer, "9876543210", "1234", "test", "127.0.0.1")
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if again.IsNewUser || again.User.ID != result.User.ID {
		t.Fatalf("expected existing user, got %+v", again)
	}
}

func TestVerifyOTPRejections(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(t, queries, &recordingSMS{})
	svc.WithCodeGenerator(fixedCode("1234"))
	ctx := context.Background()
	start := time.Now()
	svc.WithNow(func() time.Time { return start })

	if _, err := svc.SendOTP(ctx, AudienceCustomer, "9876543210"); err != nil {
		t.Fatalf("send otp: %v", err)
	}

	_, err := svc.VerifyOTP(ctx, AudienceCustomer, "9876543210", "9999", "", "")
	if code, _ := appCode(t, err); code != "INVALID_OTP" {
		t.Fatalf("expected invalid otp, got %s", code)
	}

	_, err = svc.VerifyOTP(ctx, AudienceRider, "9876543210", "1234", "", "")
	if code, _ := appCode(t, err); code != "INVALID_OTP" {
		t.Fatalf("expected customer code to be rejected for riders, got %s", code)
	}

	svc.WithNow(func() time.Time { return start.Add(6 * time.Minute) })
	_, err = svc.VerifyOTP(ctx, AudienceCustomer, "9876543210", "1234", "", "")
	code, status := appCode(t, err)
	if code != "OTP_EXPIRED" || status != http.StatusBadRequest {
		t.Fatalf("expected expired otp, got %s %d", code, status)
	}
}

func TestSendOTPValidation(t *testing.T) {
	svc := newTestService(t, newFakeQueries(), &recordingSMS{})
	for _, mobile := range []string{"", "12345", "98765432100", "98765abcde"} {
		_, err := svc.SendOTP(context.Background(), AudienceCustomer, mobile)
		code, status := appCode(t, err)
		if code != "INVALID_MOBILE" || status != http.StatusBadRequest {
			t.Fatalf("mobile %q: got %s %d", mobile, code, status)
		}
	}
}

func TestSendOTPDeliveryFailureInvalidatesCode(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(t, queries, &recordingSMS{fails: true})
	svc.WithCodeGenerator(fixedCode("1234"))

	_, err := svc.SendOTP(context.Background(), AudienceCustomer, "9876543210")
	if code, status := appCode(t, err); code != "OTP_DELIVERY_FAILED" || status != http.StatusBadGateway {
		t.Fatalf("unexpected error %s %d", code, status)
	}
	if _, err := svc.VerifyOTP(context.Background(), AudienceCustomer, "9876543210", "1234", "", ""); err == nil {
		t.Fatal("expected undelivered code to be unusable")
	}
}

func TestSendOTPThrottledPerMobile(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	svc, err := NewService(Config{
		Queries:       newFakeQueries(),
		Secret:        "super-secret-key",
		SMS:           &recordingSMS{},
		Limiter:       ratelimit.Limiter{Client: client, Prefix: "rl:"},
		OTPSendLimit:  3,
		OTPSendWindow: 10 * time.Minute,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := svc.SendOTP(ctx, AudienceCustomer, "9876543210"); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}
	_, err = svc.SendOTP(ctx, AudienceCustomer, "9876543210")
	if code, status := appCode(t, err); code != "OTP_RATE_LIMITED" || status != http.StatusTooManyRequests {
		t.Fatalf("expected throttling, got %s %d", code, status)
	}
	if _, err := svc.SendOTP(ctx, AudienceCustomer, "9876500000"); err != nil {
		t.Fatalf("other mobile should not be throttled: %v", err)
	}
}

func TestRiderOTPRequiresActiveRider(t *testing.T) {
	queries := newFakeQueries()
	queries.ridersByMobile["9000000001"] = dbgen.Rider{ID: newPgUUID(), Name: "Ravi", Mobile: "9000000001", IsActive: true}
	queries.ridersByMobile["9000000002"] = dbgen.Rider{ID: newPgUUID(), Name: "Off", Mobile: "9000000002", IsActive: false}
	sms := &recordingSMS{}
	svc := newTestService(t, queries, sms)
	svc.WithCodeGenerator(fixedCode("4321"))
	ctx := context.Background()

	_, err := svc.SendOTP(ctx, AudienceRider, "9000000003")
	if code, status := appCode(t, err); code != "RIDER_NOT_FOUND" || status != http.StatusNotFound {
		t.Fatalf("unexpected error %s %d", code, status)
	}
	_, err = svc.SendOTP(ctx, AudienceRider, "9000000002")
	if code, status := appCode(t, err); code != "RIDER_INACTIVE" || status != http.StatusForbidden {
		t.Fatalf("unexpected error %s %d", code, status)
	}
	if len(sms.sent) != 0 {
		t.Fatalf("expected no sms for rejected riders, got %v", sms.sent)
	}

	if _, err := svc.SendOTP(ctx, AudienceRider, "9000000001"); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	result, err := svc.VerifyOTP(ctx, AudienceRider, "9000000001", "4321", "", "")
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if result.Role != common.RoleRider || result.Rider == nil || result.Rider.Name != "Ravi" {
		t.Fatalf("unexpected rider login: %+v", result)
	}
	if len(queries.usersByID) != 0 {
		t.Fatal("rider login must not create customers")
	}
}

func TestAdminLogin(t *testing.T) {
	queries := newFakeQueries()
	hash, err := argon2id.CreateHash("password123", argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	queries.addUser(dbgen.User{
		ID:           newPgUUID(),
		Email:        common.Text("admin@example.com"),
		PasswordHash: common.Text(hash),
		Roles:        []string{"admin"},
	})
	queries.addUser(dbgen.User{
		ID:           newPgUUID(),
		Email:        common.Text("staff@example.com"),
		PasswordHash: common.Text(hash),
		Roles:        []string{"customer"},
	})
	svc := newTestService(t, queries, nil)
	ctx := context.Background()

	result, err := svc.AdminLogin(ctx, "Admin@Example.com ", "password123", "", "")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if claims, _ := svc.ParseAccessToken(result.AccessToken); claims.Role != common.RoleAdmin {
		t.Fatalf("expected admin role claim, got %+v", claims)
	}
	if _, err := svc.AdminLogin(ctx, "admin@example.com", "wrong", "", ""); err == nil {
		t.Fatal("expected wrong password to fail")
	}
	_, err = svc.AdminLogin(ctx, "staff@example.com", "password123", "", "")
	if code, _ := appCode(t, err); code != "FORBIDDEN" {
		t.Fatalf("expected non-admin to be forbidden, got %s", code)
	}
}

func TestRefreshRotateAndLogout(t *testing.T) {
	queries := newFakeQueries()
	svc := newTestService(t, queries, &recordingSMS{})
	svc.WithCodeGenerator(fixedCode("1234"))
	handler := &Handler{Service: svc}

	sendRec := httptest.NewRecorder()
	handler.SendCustomerOTP(sendRec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/send", bytes.NewBufferString(`{"mobile":"9876543210"}`)))
	if sendRec.Code != http.StatusOK {
		t.Fatalf("unexpected send status: %d", sendRec.Code)
	}

	verifyRec := httptest.NewRecorder()
	handler.VerifyCustomerOTP(verifyRec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/otp/verify", bytes.NewBufferString(`{"mobile":"9876543210","otp":"1234"}`)))
	if verifyRec.Code != http.StatusOK {
		t.Fatalf("unexpected verify status: %d", verifyRec.Code)
	}
	var login struct {
		Data LoginResult `json:"data"`
	}
	if err := json.NewDecoder(verifyRec.Body).Decode(&login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	original := login.Data.RefreshToken
	if original == "" || login.Data.AccessToken == "" {
		t.Fatalf("expected tokens in login response: %+v", login.Data)
	}
	if _, ok := queries.sessionsByToken[common.HashSecret(original)]; !ok {
		t.Fatal("expected session stored by hashed token")
	}

	refreshRec := httptest.NewRecorder()
	handler.Refresh(refreshRec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewBufferString(`{"refresh_token":"`+original+`"}`)))
	if refreshRec.Code != http.StatusOK {
		t.Fatalf("unexpected refresh status: %d", refreshRec.Code)
	}
	var refreshed struct {
		Data RefreshResult `json:"data"`
	}
	if err := json.NewDecoder(refreshRec.Body).Decode(&refreshed); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	if refreshed.Data.RefreshToken == original {
		t.Fatal("expected refresh token rotation")
	}

	reuseRec := httptest.NewRecorder()
	handler.Refresh(reuseRec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewBufferString(`{"refresh_token":"`+original+`"}`)))
	if reuseRec.Code != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized on token reuse, got %d", reuseRec.Code)
	}

	logoutRec := httptest.NewRecorder()
	handler.Logout(logoutRec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", bytes.NewBufferString(`{"refresh_token":"`+refreshed.Data.RefreshToken+`"}`)))
	if logoutRec.Code != http.StatusNoContent {
		t.Fatalf("unexpected logout status: %d", logoutRec.Code)
	}
	if len(queries.sessionsByToken) != 0 {
		t.Fatal("expected session removed after logout")
	}
}

func TestUpdateProfileHandler(t *testing.T) {
	queries := newFakeQueries()
	id := newPgUUID()
	queries.addUser(dbgen.User{ID: id, Mobile: common.Text("9876543210"), Name: common.Text("Old")})
	handler := &Handler{Service: newTestService(t, queries, nil)}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/auth/me", bytes.NewBufferString(`{"name":"Asha","email":"Asha@Example.com"}`))
	req = req.WithContext(common.WithUserID(req.Context(), uuidKey(id)))
	rec := httptest.NewRecorder()
	handler.UpdateProfile(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d %s", rec.Code, rec.Body.String())
	}
	u := queries.usersByID[uuidKey(id)]
	if u.Name.String != "Asha" || u.Email.String != "asha@example.com" || u.Mobile.String != "9876543210" {
		t.Fatalf("unexpected profile: %+v", u)
	}

	bad := httptest.NewRequest(http.MethodPatch, "/api/v1/auth/me", bytes.NewBufferString(`{"email":"nope"}`))
	bad = bad.WithContext(common.WithUserID(bad.Context(), uuidKey(id)))
	badRec := httptest.NewRecorder()
	handler.UpdateProfile(badRec, bad)
	if badRec.Code != http.StatusBadRequest {
		t.Fatalf("expected validation failure, got %d", badRec.Code)
	}
}
