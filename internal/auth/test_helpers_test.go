package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

var errNotImplemented = errors.New("not implemented")

type fakeQueries struct {
	mu              sync.Mutex
	otps            []dbgen.OtpCode
	usersByMobile   map[string]dbgen.User
	usersByEmail    map[string]dbgen.User
	usersByID       map[string]dbgen.User
	ridersByMobile  map[string]dbgen.Rider
	sessionsByToken map[string]dbgen.Session
	sessionsByID    map[string]dbgen.Session
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{
		usersByMobile:   make(map[string]dbgen.User),
		usersByEmail:    make(map[string]dbgen.User),
		usersByID:       make(map[string]dbgen.User),
		ridersByMobile:  make(map[string]dbgen.Rider),
		sessionsByToken: make(map[string]dbgen.Session),
		sessionsByID:    make(map[string]dbgen.Session),
	}
}

func (f *fakeQueries) addUser(u dbgen.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.Mobile.Valid {
		f.usersByMobile[u.Mobile.String] = u
	}
	if u.Email.Valid {
		f.usersByEmail[u.Email.String] = u
	}
	f.usersByID[uuidKey(u.ID)] = u
}

func (f *fakeQueries) CreateOtpCode(_ context.Context, arg dbgen.CreateOtpCodeParams) (dbgen.OtpCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row := dbgen.OtpCode{
		ID:        newPgUUID(),
		Mobile:    arg.Mobile,
		Audience:  arg.Audience,
		CodeHash:  arg.CodeHash,
		ExpiresAt: arg.ExpiresAt,
		CreatedAt: pgTimestamp(time.Now()),
	}
	f.otps = append(f.otps, row)
	return row, nil
}

func (f *fakeQueries) GetLatestOtpCode(_ context.Context, arg dbgen.GetLatestOtpCodeParams) (dbgen.OtpCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.otps) - 1; i >= 0; i-- {
		o := f.otps[i]
		if o.Mobile == arg.Mobile && o.Audience == arg.Audience && !o.ConsumedAt.Valid {
			return o, nil
		}
	}
	return dbgen.OtpCode{}, pgx.ErrNoRows
}

func (f *fakeQueries) ConsumeOtpCode(_ context.Context, id pgtype.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.otps {
		if f.otps[i].ID == id {
			f.otps[i].ConsumedAt = pgTimestamp(time.Now())
		}
	}
	return nil
}

func (f *fakeQueries) GetUserByMobile(_ context.Context, mobile pgtype.Text) (dbgen.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.usersByMobile[mobile.String]; ok {
		return u, nil
	}
	return dbgen.User{}, pgx.ErrNoRows
}

func (f *fakeQueries) GetUserByEmail(_ context.Context, email pgtype.Text) (dbgen.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.usersByEmail[email.String]; ok {
		return u, nil
	}
	return dbgen.User{}, pgx.ErrNoRows
}

func (f *fakeQueries) GetUserByID(_ context.Context, id pgtype.UUID) (dbgen.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.usersByID[uuidKey(id)]; ok {
		return u, nil
	}
	return dbgen.User{}, pgx.ErrNoRows
}

func (f *fakeQueries) CreateCustomer(_ context.Context, mobile pgtype.Text) (dbgen.User, error) {
	now := pgTimestamp(time.Now())
	u := dbgen.User{ID: newPgUUID(), Mobile: mobile, Roles: []string{"customer"}, CreatedAt: now, UpdatedAt: now}
	f.addUser(u)
	return u, nil
}

func (f *fakeQueries) UpdateUserProfile(_ context.Context, arg dbgen.UpdateUserProfileParams) (dbgen.User, error) {
	f.mu.Lock()
	u, ok := f.usersByID[uuidKey(arg.ID)]
	f.mu.Unlock()
	if !ok {
		return dbgen.User{}, pgx.ErrNoRows
	}
	u.Name = arg.Name
	u.Email = arg.Email
	f.addUser(u)
	return u, nil
}

func (f *fakeQueries) GetRiderByMobile(_ context.Context, mobile string) (dbgen.Rider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.ridersByMobile[mobile]; ok {
		return r, nil
	}
	return dbgen.Rider{}, pgx.ErrNoRows
}

func (f *fakeQueries) GetRiderByID(_ context.Context, id pgtype.UUID) (dbgen.Rider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.ridersByMobile {
		if r.ID == id {
			return r, nil
		}
	}
	return dbgen.Rider{}, pgx.ErrNoRows
}

func (f *fakeQueries) CreateSession(_ context.Context, arg dbgen.CreateSessionParams) (dbgen.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := dbgen.Session{
		ID:           newPgUUID(),
		SubjectID:    arg.SubjectID,
		Role:         arg.Role,
		RefreshToken: arg.RefreshToken,
		UserAgent:    arg.UserAgent,
		Ip:           arg.Ip,
		ExpiresAt:    arg.ExpiresAt,
		CreatedAt:    pgTimestamp(time.Now()),
	}
	f.sessionsByToken[s.RefreshToken] = s
	f.sessionsByID[uuidKey(s.ID)] = s
	return s, nil
}

func (f *fakeQueries) GetSessionByToken(_ context.Context, token string) (dbgen.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessionsByToken[token]; ok {
		return s, nil
	}
	return dbgen.Session{}, pgx.ErrNoRows
}

func (f *fakeQueries) RotateSessionToken(_ context.Context, arg dbgen.RotateSessionTokenParams) (dbgen.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessionsByID[uuidKey(arg.ID)]
	if !ok {
		return dbgen.Session{}, pgx.ErrNoRows
	}
	delete(f.sessionsByToken, s.RefreshToken)
	s.RefreshToken = arg.RefreshToken
	s.ExpiresAt = arg.ExpiresAt
	f.sessionsByToken[s.RefreshToken] = s
	f.sessionsByID[uuidKey(s.ID)] = s
	return s, nil
}

func (f *fakeQueries) DeleteSessionByToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sessionsByToken[token]; ok {
		delete(f.sessionsByID, uuidKey(s.ID))
	}
	delete(f.sessionsByToken, token)
	return nil
}

func (f *fakeQueries) DeleteSessionsForSubject(_ context.Context, arg dbgen.DeleteSessionsForSubjectParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for token, s := range f.sessionsByToken {
		if s.SubjectID == arg.SubjectID && s.Role == arg.Role {
			delete(f.sessionsByToken, token)
			delete(f.sessionsByID, uuidKey(s.ID))
		}
	}
	return nil
}

func (f *fakeQueries) UpdateUserPassword(_ context.Context, arg dbgen.UpdateUserPasswordParams) error {
	f.mu.Lock()
	u, ok := f.usersByID[uuidKey(arg.ID)]
	f.mu.Unlock()
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = arg.PasswordHash
	f.addUser(u)
	return nil
}

type recordingSMS struct {
	mu    sync.Mutex
	sent  map[string]string
	fails bool
}

func (r *recordingSMS) SendOTP(_ context.Context, mobile, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fails {
		return errNotImplemented
	}
	if r.sent == nil {
		r.sent = make(map[string]string)
	}
	r.sent[mobile] = code
	return nil
}

func newPgUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func uuidKey(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

func pgTimestamp(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func newTestService(t interface{ Fatalf(string, ...any) }, q *fakeQueries, sms SMSSender) *Service {
	svc, err := NewService(Config{
		Queries:         q,
		Secret:          "super-secret-key",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		OTPTTL:          5 * time.Minute,
		Issuer:          "backend-food",
		Audience:        "food-app",
		SMS:             sms,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}
