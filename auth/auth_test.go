package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addr(user string) string {
	return user + "@example.com"
}

func TestAdminPolicy(t *testing.T) {
	policy := NewAdminPolicy([]string{" " + addr("admin") + " ", "", addr("Owner")})

	tests := []struct {
		name string
		id   Identity
		want bool
	}{
		{"exact", Identity{Email: addr("admin")}, true},
		{"case insensitive", Identity{Email: addr("ADMIN")}, true},
		{"not listed", Identity{Email: addr("guest")}, false},
		{"anonymous", Identity{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.IsAdmin(tt.id))
		})
	}
}

func TestTokenVerifierRoundTrip(t *testing.T) {
	v := NewTokenVerifier("secret")
	token, err := v.Issue(Identity{ID: "u1", Email: addr("admin")}, time.Hour)
	require.NoError(t, err)

	id, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: "u1", Email: addr("admin")}, id)
}

func TestTokenVerifierRejects(t *testing.T) {
	v := NewTokenVerifier("secret")

	expired, err := v.Issue(Identity{ID: "u1", Email: addr("admin")}, -time.Minute)
	require.NoError(t, err)
	otherKey, err := NewTokenVerifier("other").Issue(Identity{ID: "u1", Email: addr("admin")}, time.Hour)
	require.NoError(t, err)
	noEmail, err := v.Issue(Identity{ID: "u1"}, time.Hour)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"email": addr("admin")}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":     expired,
		"wrong key":   otherKey,
		"no email":    noEmail,
		"alg none":    none,
		"not a token": "abc",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestIdentityContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)

	ctx := WithIdentity(context.Background(), Identity{Email: addr("admin")})
	id, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, addr("admin"), id.Email)
}
