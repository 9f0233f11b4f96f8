package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/backend-food/internal/common"
)

// Claims is what an access token grants: the user or rider id and the app role.
type Claims struct {
	Subject string
	Role    string
}

var errUnknownRole = errors.New("auth: unknown role claim")

// TokenValidator checks a parsed access token against this deployment's issuer, audience and
// signing algorithm, then reads its claims. Tokens minted before roles existed carry no role
// claim and are treated as customer tokens.
type TokenValidator struct {
	Issuer    string
	Audience  string
	ClockSkew time.Duration
	Algorithm jwa.SignatureAlgorithm
}

func (v TokenValidator) Claims(tok jwt.Token, alg jwa.SignatureAlgorithm, now time.Time) (Claims, error) {
	if tok == nil {
		return Claims{}, errors.New("auth: empty token")
	}
	if v.Algorithm != "" && alg != v.Algorithm {
		return Claims{}, fmt.Errorf("auth: token signed with %s", alg)
	}
	opts := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
		jwt.WithAcceptableSkew(v.ClockSkew),
		jwt.WithRequiredClaim(jwt.SubjectKey),
		jwt.WithRequiredClaim(jwt.ExpirationKey),
	}
	if v.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.Issuer))
	}
	if v.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.Audience))
	}
	if err := jwt.Validate(tok, opts...); err != nil {
		return Claims{}, err
	}

	c := Claims{Subject: strings.TrimSpace(tok.Subject()), Role: common.RoleCustomer}
	if raw, ok := tok.Get(roleClaim); ok {
		role, _ := raw.(string)
		switch role {
		case common.RoleCustomer, common.RoleRider, common.RoleAdmin:
			c.Role = role
		default:
			return Claims{}, fmt.Errorf("%w: %q", errUnknownRole, role)
		}
	}
	return c, nil
}
