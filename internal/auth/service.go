package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/obs"
	"github.com/noah-isme/backend-food/internal/ratelimit"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 30 * 24 * time.Hour
	defaultOTPTTL     = 5 * time.Minute
	otpDigits         = 4
	roleClaim         = "role"
)

// OTP audiences. A customer code cannot be used to log in as a rider and vice versa.
const (
	AudienceCustomer = "customer"
	AudienceRider    = "rider"
)

var mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)

const minPasswordLength = 8

// Querier lists the queries used by the auth service.
type Querier interface {
	CreateOtpCode(ctx context.Context, arg dbgen.CreateOtpCodeParams) (dbgen.OtpCode, error)
	GetLatestOtpCode(ctx context.Context, arg dbgen.GetLatestOtpCodeParams) (dbgen.OtpCode, error)
	ConsumeOtpCode(ctx context.Context, id pgtype.UUID) error
	GetUserByMobile(ctx context.Context, mobile pgtype.Text) (dbgen.User, error)
	GetUserByEmail(ctx context.Context, email pgtype.Text) (dbgen.User, error)
	GetUserByID(ctx context.Context, id pgtype.UUID) (dbgen.User, error)
	CreateCustomer(ctx context.Context, mobile pgtype.Text) (dbgen.User, error)
	UpdateUserProfile(ctx context.Context, arg dbgen.UpdateUserProfileParams) (dbgen.User, error)
	GetRiderByMobile(ctx context.Context, mobile string) (dbgen.Rider, error)
	GetRiderByID(ctx context.Context, id pgtype.UUID) (dbgen.Rider, error)
	CreateSession(ctx context.Context, arg dbgen.CreateSessionParams) (dbgen.Session, error)
	GetSessionByToken(ctx context.Context, refreshToken string) (dbgen.Session, error)
	RotateSessionToken(ctx context.Context, arg dbgen.RotateSessionTokenParams) (dbgen.Session, error)
	DeleteSessionByToken(ctx context.Context, refreshToken string) error
	DeleteSessionsForSubject(ctx context.Context, arg dbgen.DeleteSessionsForSubjectParams) error
	UpdateUserPassword(ctx context.Context, arg dbgen.UpdateUserPasswordParams) error
}

// SMSSender delivers a one-time code to a mobile number.
type SMSSender interface {
	SendOTP(ctx context.Context, mobile, code string) error
}

// OTPLimiter throttles OTP requests per mobile number.
type OTPLimiter interface {
	Allow(ctx context.Context, key string, window time.Duration, max int) (ratelimit.Decision, error)
}

// Service issues OTPs and JWT sessions for customers, riders and admins.
type Service struct {
	queries    Querier
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	otpTTL     time.Duration
	now        func() time.Time
	signer     jwa.SignatureAlgorithm
	validator  TokenValidator
	issuer     string
	audience   string
	clockSkew  time.Duration
	sms        SMSSender
	limiter    OTPLimiter
	otpLimit   int
	otpWindow  time.Duration
	newCode    func() (string, error)
}

// Config configures the auth service.
type Config struct {
	Queries         Querier
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	OTPTTL          time.Duration
	Issuer          string
	Audience        string
	ClockSkew       time.Duration
	SMS             SMSSender
	Limiter         OTPLimiter
	OTPSendLimit    int
	OTPSendWindow   time.Duration
}

// Profile is the customer-facing view of a user.
type Profile struct {
	ID        string    `json:"id"`
	Mobile    string    `json:"mobile"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// RiderProfile is the rider-facing view of a rider.
type RiderProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}

// LoginResult bundles token material returned after a successful login.
type LoginResult struct {
	Subject       string        `json:"subject_id"`
	Role          string        `json:"role"`
	IsNewUser     bool          `json:"is_new_user"`
	User          *Profile      `json:"user,omitempty"`
	Rider         *RiderProfile `json:"rider,omitempty"`
	AccessToken   string        `json:"access_token"`
	RefreshToken  string        `json:"refresh_token"`
	AccessExpiry  time.Time     `json:"access_expires_at"`
	RefreshExpiry time.Time     `json:"refresh_expires_at"`
}

// RefreshResult represents the outcome of a refresh operation.
type RefreshResult struct {
	AccessToken   string    `json:"access_token"`
	AccessExpiry  time.Time `json:"access_expires_at"`
	RefreshToken  string    `json:"refresh_token"`
	RefreshExpiry time.Time `json:"refresh_expires_at"`
}

// NewService constructs a Service instance with sane defaults.
func NewService(cfg Config) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("auth: queries is required")
	}
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	accessTTL := cfg.AccessTokenTTL
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	refreshTTL := cfg.RefreshTokenTTL
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	otpTTL := cfg.OTPTTL
	if otpTTL <= 0 {
		otpTTL = defaultOTPTTL
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = "backend-food"
	}
	audience := strings.TrimSpace(cfg.Audience)
	if audience == "" {
		audience = "food-app"
	}
	clockSkew := cfg.ClockSkew
	if clockSkew < 0 {
		clockSkew = 0
	}
	return &Service{
		queries:    cfg.Queries,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		otpTTL:     otpTTL,
		now:        time.Now,
		signer:     jwa.HS256,
		validator: TokenValidator{
			Issuer:    issuer,
			Audience:  audience,
			ClockSkew: clockSkew,
			Algorithm: jwa.HS256,
		},
		issuer:    issuer,
		audience:  audience,
		clockSkew: clockSkew,
		sms:       cfg.SMS,
		limiter:   cfg.Limiter,
		otpLimit:  cfg.OTPSendLimit,
		otpWindow: cfg.OTPSendWindow,
		newCode:   func() (string, error) { return common.RandomDigits(otpDigits) },
	}, nil
}

// WithNow allows tests to override the time provider.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// WithCodeGenerator allows tests to fix the generated OTP.
func (s *Service) WithCodeGenerator(gen func() (string, error)) {
	if gen != nil {
		s.newCode = gen
	}
}

// SendOTP issues a 4-digit code for mobile and delivers it by SMS. Riders must be registered
// and active before a code is sent. It returns the code's expiry.
func (s *Service) SendOTP(ctx context.Context, audience, mobile string) (time.Time, error) {
	mobile = strings.TrimSpace(mobile)
	if !mobilePattern.MatchString(mobile) {
		return time.Time{}, common.NewAppError("INVALID_MOBILE", "Valid 10-digit mobile is required", http.StatusBadRequest, nil)
	}
	if audience == AudienceRider {
		if _, err := s.activeRider(ctx, mobile); err != nil {
			return time.Time{}, err
		}
	}
	if s.limiter != nil && s.otpLimit > 0 {
		d, err := s.limiter.Allow(ctx, audience+":"+mobile, s.otpWindow, s.otpLimit)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("otp limiter unavailable")
		} else if !d.Allowed {
			obs.Inc(obs.OTPSendTotal, audience, "throttled")
			appErr := common.NewAppError("OTP_RATE_LIMITED", "Too many OTP requests. Please try again later.", http.StatusTooManyRequests, nil)
			appErr.Details = map[string]int{"retry_after_seconds": int(d.RetryAfter.Round(time.Second) / time.Second)}
			return time.Time{}, appErr
		}
	}

	code, err := s.newCode()
	if err != nil {
		return time.Time{}, fmt.Errorf("generate otp: %w", err)
	}
	expiresAt := s.now().Add(s.otpTTL)
	row, err := s.queries.CreateOtpCode(ctx, dbgen.CreateOtpCodeParams{
		Mobile:    mobile,
		Audience:  audience,
		CodeHash:  common.HashSecret(code),
		ExpiresAt: common.Timestamptz(expiresAt),
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("store otp: %w", err)
	}
	if s.sms == nil {
		zerolog.Ctx(ctx).Info().Str("mobile", mobile).Str("otp", code).Msg("otp generated without sms sender")
		obs.Inc(obs.OTPSendTotal, audience, "logged")
		return expiresAt, nil
	}
	if err := s.sms.SendOTP(ctx, mobile, code); err != nil {
		_ = s.queries.ConsumeOtpCode(ctx, row.ID)
		obs.Inc(obs.OTPSendTotal, audience, "failed")
		return time.Time{}, common.NewAppError("OTP_DELIVERY_FAILED", "Could not send OTP. Please try again.", http.StatusBadGateway, err)
	}
	obs.Inc(obs.OTPSendTotal, audience, "sent")
	return expiresAt, nil
}

// VerifyOTP checks the latest unconsumed code for mobile and opens a session. Customers are
// created on first login; riders must already exist.
func (s *Service) VerifyOTP(ctx context.Context, audience, mobile, code, userAgent, ip string) (LoginResult, error) {
	mobile = strings.TrimSpace(mobile)
	code = strings.TrimSpace(code)
	if !mobilePattern.MatchString(mobile) || code == "" {
		return LoginResult{}, common.NewAppError(common.CodeValidation, "Mobile and OTP are required", http.StatusBadRequest, nil)
	}
	otp, err := s.queries.GetLatestOtpCode(ctx, dbgen.GetLatestOtpCodeParams{Mobile: mobile, Audience: audience})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LoginResult{}, invalidOTP()
		}
		return LoginResult{}, fmt.Errorf("load otp: %w", err)
	}
	if !otp.ExpiresAt.Valid || s.now().After(otp.ExpiresAt.Time) {
		return LoginResult{}, common.NewAppError("OTP_EXPIRED", "OTP expired", http.StatusBadRequest, nil)
	}
	if subtle.ConstantTimeCompare([]byte(otp.CodeHash), []byte(common.HashSecret(code))) != 1 {
		return LoginResult{}, invalidOTP()
	}
	if err := s.queries.ConsumeOtpCode(ctx, otp.ID); err != nil {
		return LoginResult{}, fmt.Errorf("consume otp: %w", err)
	}

	var result LoginResult
	var subject pgtype.UUID
	switch audience {
	case AudienceRider:
		rider, err := s.activeRider(ctx, mobile)
		if err != nil {
			return LoginResult{}, err
		}
		subject = rider.ID
		result.Role = common.RoleRider
		result.Rider = &RiderProfile{ID: common.UUIDString(rider.ID), Name: rider.Name, Mobile: rider.Mobile}
	default:
		u, created, err := s.customer(ctx, mobile)
		if err != nil {
			return LoginResult{}, err
		}
		subject = u.ID
		result.Role = common.RoleCustomer
		result.IsNewUser = created
		p := toProfile(u)
		result.User = &p
	}
	if err := s.openSession(ctx, &result, subject, userAgent, ip); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

// AdminLogin verifies an admin's email and password.
func (s *Service) AdminLogin(ctx context.Context, email, password, userAgent, ip string) (LoginResult, error) {
	normalized := strings.TrimSpace(strings.ToLower(email))
	if normalized == "" || password == "" {
		return LoginResult{}, invalidCredentials()
	}
	u, err := s.queries.GetUserByEmail(ctx, common.Text(normalized))
	if err != nil || !u.PasswordHash.Valid {
		return LoginResult{}, invalidCredentials()
	}
	ok, err := argon2id.ComparePasswordAndHash(password, u.PasswordHash.String)
	if err != nil || !ok {
		return LoginResult{}, invalidCredentials()
	}
	if !slices.Contains(u.Roles, common.RoleAdmin) {
		return LoginResult{}, common.NewAppError(common.CodeForbidden, "admin access required", http.StatusForbidden, nil)
	}
	p := toProfile(u)
	result := LoginResult{Role: common.RoleAdmin, User: &p}
	if err := s.openSession(ctx, &result, u.ID, userAgent, ip); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

// HashPassword returns an argon2id hash for seeding admin accounts.
func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, argon2id.DefaultParams)
}

// ChangePassword replaces an admin's password after checking the current one.
// Every refresh session of the admin is revoked on success.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next, confirm string) error {
	id, err := common.ParseUUID(userID)
	if err != nil {
		return common.NewAppError(common.CodeUnauthorized, "unauthorized", http.StatusUnauthorized, nil)
	}
	if len(next) < minPasswordLength {
		return common.NewAppError(common.CodeValidation, "New password must be at least 8 characters.", http.StatusBadRequest, nil)
	}
	if confirm != "" && confirm != next {
		return common.NewAppError(common.CodeValidation, "New passwords do not match.", http.StatusBadRequest, nil)
	}
	u, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewAppError(common.CodeUnauthorized, "unauthorized", http.StatusUnauthorized, nil)
		}
		return fmt.Errorf("load user: %w", err)
	}
	if !u.PasswordHash.Valid {
		return wrongCurrentPassword()
	}
	ok, err := argon2id.ComparePasswordAndHash(current, u.PasswordHash.String)
	if err != nil || !ok {
		return wrongCurrentPassword()
	}
	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.queries.UpdateUserPassword(ctx, dbgen.UpdateUserPasswordParams{ID: id, PasswordHash: common.Text(hash)}); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.queries.DeleteSessionsForSubject(ctx, dbgen.DeleteSessionsForSubjectParams{SubjectID: id, Role: common.RoleAdmin}); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// Logout revokes the refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	token := strings.TrimSpace(refreshToken)
	if token == "" {
		return nil
	}
	return s.queries.DeleteSessionByToken(ctx, common.HashSecret(token))
}

// Refresh validates and rotates a refresh token, issuing a fresh access token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (RefreshResult, error) {
	token := strings.TrimSpace(refreshToken)
	if token == "" {
		return RefreshResult{}, invalidRefresh()
	}
	hashed := common.HashSecret(token)
	session, err := s.queries.GetSessionByToken(ctx, hashed)
	if err != nil {
		return RefreshResult{}, invalidRefresh()
	}
	if !session.ExpiresAt.Valid || s.now().After(session.ExpiresAt.Time) {
		_ = s.queries.DeleteSessionByToken(ctx, hashed)
		return RefreshResult{}, invalidRefresh()
	}
	subject := common.UUIDString(session.SubjectID)
	if subject == "" {
		_ = s.queries.DeleteSessionByToken(ctx, hashed)
		return RefreshResult{}, invalidRefresh()
	}
	accessToken, accessExpiry, err := s.signAccessToken(subject, session.Role)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("sign access token: %w", err)
	}
	newRefresh, hashedRefresh, refreshExpiry, err := s.newRefreshToken()
	if err != nil {
		return RefreshResult{}, fmt.Errorf("generate refresh token: %w", err)
	}
	if _, err := s.queries.RotateSessionToken(ctx, dbgen.RotateSessionTokenParams{
		ID:           session.ID,
		RefreshToken: hashedRefresh,
		ExpiresAt:    common.Timestamptz(refreshExpiry),
	}); err != nil {
		_ = s.queries.DeleteSessionByToken(ctx, hashed)
		return RefreshResult{}, fmt.Errorf("rotate session token: %w", err)
	}
	return RefreshResult{
		AccessToken:   accessToken,
		AccessExpiry:  accessExpiry,
		RefreshToken:  newRefresh,
		RefreshExpiry: refreshExpiry,
	}, nil
}

// Me fetches the current authenticated customer.
func (s *Service) Me(ctx context.Context, userID string) (Profile, error) {
	id, err := common.ParseUUID(userID)
	if err != nil {
		return Profile{}, common.NewAppError(common.CodeUnauthorized, "unauthorized", http.StatusUnauthorized, nil)
	}
	u, err := s.queries.GetUserByID(ctx, id)
	if err != nil {
		return Profile{}, common.NewAppError(common.CodeUnauthorized, "unauthorized", http.StatusUnauthorized, nil)
	}
	return toProfile(u), nil
}

// UpdateProfile changes the caller's name and email. Nil fields are left untouched.
func (s *Service) UpdateProfile(ctx context.Context, userID string, name, email *string) (Profile, error) {
	current, err := s.Me(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	id, _ := common.ParseUUID(userID)
	params := dbgen.UpdateUserProfileParams{
		ID:    id,
		Name:  common.Text(current.Name),
		Email: common.Text(current.Email),
	}
	if name != nil {
		params.Name = common.Text(strings.TrimSpace(*name))
	}
	if email != nil {
		params.Email = common.Text(strings.ToLower(strings.TrimSpace(*email)))
	}
	u, err := s.queries.UpdateUserProfile(ctx, params)
	if err != nil {
		return Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return toProfile(u), nil
}

// RiderProfile fetches the current authenticated rider.
func (s *Service) RiderProfile(ctx context.Context, riderID string) (RiderProfile, error) {
	id, err := common.ParseUUID(riderID)
	if err != nil {
		return RiderProfile{}, common.NewAppError(common.CodeUnauthorized, "unauthorized", http.StatusUnauthorized, nil)
	}
	r, err := s.queries.GetRiderByID(ctx, id)
	if err != nil {
		return RiderProfile{}, common.NewAppError(common.CodeUnauthorized, "unauthorized", http.StatusUnauthorized, nil)
	}
	return RiderProfile{ID: common.UUIDString(r.ID), Name: r.Name, Mobile: r.Mobile}, nil
}

// ParseAccessToken validates an access token and returns its subject and role.
func (s *Service) ParseAccessToken(token string) (Claims, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Claims{}, common.NewAppError(common.CodeUnauthorized, "missing token", http.StatusUnauthorized, nil)
	}
	algorithm, err := extractTokenAlgorithm(trimmed)
	if err != nil {
		return Claims{}, common.NewAppError(common.CodeUnauthorized, "invalid token", http.StatusUnauthorized, err)
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, s.secret), jwt.WithValidate(false))
	if err != nil {
		return Claims{}, common.NewAppError(common.CodeUnauthorized, "invalid token", http.StatusUnauthorized, err)
	}
	claims, err := s.validator.Claims(parsed, algorithm, s.now())
	if err != nil {
		return Claims{}, common.NewAppError(common.CodeUnauthorized, "invalid token", http.StatusUnauthorized, err)
	}
	return claims, nil
}

func (s *Service) activeRider(ctx context.Context, mobile string) (dbgen.Rider, error) {
	rider, err := s.queries.GetRiderByMobile(ctx, mobile)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Rider{}, common.NewAppError("RIDER_NOT_FOUND", "Rider not registered", http.StatusNotFound, err)
		}
		return dbgen.Rider{}, fmt.Errorf("load rider: %w", err)
	}
	if !rider.IsActive {
		return dbgen.Rider{}, common.NewAppError("RIDER_INACTIVE", "Rider account is inactive", http.StatusForbidden, nil)
	}
	return rider, nil
}

func (s *Service) customer(ctx context.Context, mobile string) (dbgen.User, bool, error) {
	u, err := s.queries.GetUserByMobile(ctx, common.Text(mobile))
	if err == nil {
		return u, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return dbgen.User{}, false, fmt.Errorf("load user: %w", err)
	}
	u, err = s.queries.CreateCustomer(ctx, common.Text(mobile))
	if err != nil {
		return dbgen.User{}, false, fmt.Errorf("create user: %w", err)
	}
	return u, true, nil
}

func (s *Service) openSession(ctx context.Context, result *LoginResult, subject pgtype.UUID, userAgent, ip string) error {
	id := common.UUIDString(subject)
	if id == "" {
		return errors.New("auth: invalid subject identifier")
	}
	access, accessExpiry, err := s.signAccessToken(id, result.Role)
	if err != nil {
		return fmt.Errorf("sign access token: %w", err)
	}
	refresh, hashed, refreshExpiry, err := s.newRefreshToken()
	if err != nil {
		return fmt.Errorf("generate refresh token: %w", err)
	}
	if _, err := s.queries.CreateSession(ctx, dbgen.CreateSessionParams{
		SubjectID:    subject,
		Role:         result.Role,
		RefreshToken: hashed,
		UserAgent:    common.Text(userAgent),
		Ip:           common.Text(ip),
		ExpiresAt:    common.Timestamptz(refreshExpiry),
	}); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	result.Subject = id
	result.AccessToken = access
	result.AccessExpiry = accessExpiry
	result.RefreshToken = refresh
	result.RefreshExpiry = refreshExpiry
	return nil
}

func extractTokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token contains no signatures")
	}
	var algorithm jwa.SignatureAlgorithm
	for _, sig := range signatures {
		headers := sig.ProtectedHeaders()
		if headers == nil {
			return "", errors.New("auth: token missing protected headers")
		}
		alg := headers.Algorithm()
		if alg == "" {
			return "", errors.New("auth: token missing algorithm")
		}
		if alg == jwa.NoSignature {
			return "", errors.New("auth: token uses none algorithm")
		}
		if algorithm == "" {
			algorithm = alg
		} else if algorithm != alg {
			return "", fmt.Errorf("auth: mixed token algorithms detected")
		}
	}
	return algorithm, nil
}

func (s *Service) signAccessToken(subject, role string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	token, err := jwt.NewBuilder().
		Subject(subject).
		Issuer(s.issuer).
		Audience([]string{s.audience}).
		IssuedAt(now).
		NotBefore(now.Add(-s.clockSkew)).
		Expiration(expiresAt).
		Claim(roleClaim, role).
		Build()
	if err != nil {
		return "", time.Time{}, err
	}
	signed, err := jwt.Sign(token, jwt.WithKey(s.signer, s.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return string(signed), expiresAt, nil
}

func (s *Service) newRefreshToken() (string, string, time.Time, error) {
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return "", "", time.Time{}, err
	}
	token := base64.RawURLEncoding.EncodeToString(buf)
	return token, common.HashSecret(token), s.now().Add(s.refreshTTL), nil
}

func toProfile(u dbgen.User) Profile {
	return Profile{
		ID:        common.UUIDString(u.ID),
		Mobile:    u.Mobile.String,
		Name:      u.Name.String,
		Email:     u.Email.String,
		Roles:     u.Roles,
		CreatedAt: u.CreatedAt.Time,
	}
}

func invalidOTP() error {
	return common.NewAppError("INVALID_OTP", "Invalid OTP", http.StatusBadRequest, nil)
}

func invalidCredentials() error {
	return common.NewAppError("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized, nil)
}

func wrongCurrentPassword() error {
	return common.NewAppError(common.CodeValidation, "Current password is incorrect.", http.StatusBadRequest, nil)
}

func invalidRefresh() error {
	return common.NewAppError(common.CodeUnauthorized, "invalid refresh token", http.StatusUnauthorized, nil)
}
