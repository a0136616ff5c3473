package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate("kiosk")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "kiosk", claims.Client)
	assert.Equal(t, "kiosk", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	_, err = m.Generate("")
	assert.Error(t, err)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name:  "garbage",
			token: func(*testing.T) string { return "not.a.token" },
		},
		{
			name: "other secret",
			token: func(t *testing.T) string {
				tok, err := NewJWTManager("other-secret", time.Hour).Generate("kiosk")
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				tok, err := NewJWTManager("test-secret", -time.Minute).Generate("kiosk")
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "wrong issuer",
			token: func(t *testing.T) string {
				claims := &Claims{Client: "kiosk", RegisteredClaims: jwt.RegisteredClaims{
					Issuer:    "someone-else",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				}}
				tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
				require.NoError(t, err)
				return tok
			},
		},
		{
			name: "unsigned",
			token: func(t *testing.T) string {
				claims := &Claims{Client: "kiosk", RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
				tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return tok
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Validate(tt.token(t))
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}
