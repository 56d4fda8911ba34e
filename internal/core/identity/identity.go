package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Caller is who issued a request, as far as the dashboard cares.
type Caller struct {
	Name        string
	Fingerprint string
}

type callerKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// FromContext returns the caller stored in ctx, or the zero Caller.
func FromContext(ctx context.Context) Caller {
	c, _ := ctx.Value(callerKey{}).(Caller)
	return c
}

// FromToken builds the caller for a bearer token. An empty token yields the
// zero Caller.
func FromToken(ctx context.Context, token string) Caller {
	if token == "" {
		return Caller{}
	}
	return Caller{
		Name:        NameFromToken(ctx, token),
		Fingerprint: Fingerprint(token),
	}
}

// Fingerprint identifies the owner of queued entries without storing the token.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// NameFromToken reads the email claim without verifying the signature and
// returns its local part up to the first dot, so "jane.doe@site.com" becomes
// "jane". Any failure yields "".
func NameFromToken(ctx context.Context, token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		log.Ctx(ctx).Debug().Err(err).Msg("token decode failed")
		return ""
	}
	email, _ := claims["email"].(string)
	local, _, _ := strings.Cut(email, "@")
	name, _, _ := strings.Cut(local, ".")
	return name
}

// Verify checks an HS256 signature and the standard time claims.
func Verify(token, secret string) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("jwt secret not configured")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !parsed.Valid {
		return errors.New("invalid token")
	}
	return nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
