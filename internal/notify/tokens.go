package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

var (
	// ErrInvalidToken means the value is not an Expo push token.
	ErrInvalidToken = errors.New("notify: invalid push token")
	// ErrTokenNotFound means no device registered the token.
	ErrTokenNotFound = errors.New("notify: push token not found")
)

// TokenService registers and removes device tokens.
type TokenService struct {
	Tokens TokenStore
}

// Owner identifies who a device token belongs to.
type Owner struct {
	ID   string
	Role string
}

// RegisterInput is the payload of POST /push/register.
type RegisterInput struct {
	Token    string `json:"push_token" validate:"required"`
	Platform string `json:"device_type" validate:"omitempty,oneof=android ios"`
}

// ValidToken reports whether token looks like an Expo push token.
func ValidToken(token string) bool {
	for _, prefix := range []string{"ExponentPushToken[", "ExpoPushToken["} {
		if strings.HasPrefix(token, prefix) && strings.HasSuffix(token, "]") && len(token) > len(prefix)+1 {
			return true
		}
	}
	return false
}

// Register stores the token for owner, moving it from any previous owner.
func (s *TokenService) Register(ctx context.Context, owner Owner, in RegisterInput) (dbgen.PushToken, error) {
	token := strings.TrimSpace(in.Token)
	if !ValidToken(token) {
		return dbgen.PushToken{}, ErrInvalidToken
	}
	id, err := common.ParseUUID(owner.ID)
	if err != nil {
		return dbgen.PushToken{}, fmt.Errorf("register token: %w", err)
	}
	platform := in.Platform
	if platform == "" {
		platform = "android"
	}
	params := dbgen.UpsertPushTokenParams{Token: token, Platform: common.Text(platform)}
	if owner.Role == common.RoleRider {
		params.RiderID = id
	} else {
		params.UserID = id
	}
	row, err := s.Tokens.UpsertPushToken(ctx, params)
	if err != nil {
		return dbgen.PushToken{}, fmt.Errorf("register token: %w", err)
	}
	return row, nil
}

// Unregister removes a token.
func (s *TokenService) Unregister(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidToken
	}
	n, err := s.Tokens.DeletePushToken(ctx, token)
	if err != nil {
		return fmt.Errorf("unregister token: %w", err)
	}
	if n == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// AsAppError maps notify errors to HTTP responses.
func AsAppError(err error) *common.AppError {
	var appErr *common.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, ErrInvalidToken):
		e := common.NewAppError(common.CodeValidation, "invalid payload", http.StatusBadRequest, err)
		e.Details = map[string]string{"push_token": "must be an Expo push token"}
		return e
	case errors.Is(err, ErrTokenNotFound):
		return common.NewAppError(common.CodeNotFound, "push token not found", http.StatusNotFound, err)
	case errors.Is(err, ErrQueueUnavailable):
		return common.NewAppError("QUEUE_UNAVAILABLE", "notifications are not configured", http.StatusServiceUnavailable, err)
	default:
		return common.NewAppError(common.CodeInternal, "internal server error", http.StatusInternalServerError, err)
	}
}
