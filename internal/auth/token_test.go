package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestIssueAndValidate(t *testing.T) {
	svc := NewTokenService(testSecret, 0)

	issued, err := svc.Issue("a@x.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), issued.Exp, 5*time.Second)

	sub, err := svc.Validate(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sub)
}

func TestIssueDefaultTTL(t *testing.T) {
	svc := NewTokenService(testSecret, 0)

	issued, err := svc.Issue("a@x.com", 0)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(DefaultTokenTTL), issued.Exp, 5*time.Second)
}

func TestValidateExpired(t *testing.T) {
	svc := NewTokenService(testSecret, 0)

	// Sign a token whose exp is already in the past with the same secret.
	claims := jwt.MapClaims{
		"sub": "a@x.com",
		"exp": time.Now().UTC().Add(-time.Minute).Unix(),
		"iat": time.Now().UTC().Add(-time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTamperedSignature(t *testing.T) {
	svc := NewTokenService(testSecret, 0)

	issued, err := svc.Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	// Flip the last byte of the signature segment.
	raw := []byte(issued.Token)
	last := raw[len(raw)-1]
	if last == 'A' {
		raw[len(raw)-1] = 'B'
	} else {
		raw[len(raw)-1] = 'A'
	}

	_, err = svc.Validate(string(raw))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateWrongSecret(t *testing.T) {
	other := NewTokenService("a-different-secret", 0)
	issued, err := other.Issue("a@x.com", time.Hour)
	require.NoError(t, err)

	svc := NewTokenService(testSecret, 0)
	_, err = svc.Validate(issued.Token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestValidateMissingSubject(t *testing.T) {
	svc := NewTokenService(testSecret, 0)

	claims := jwt.MapClaims{
		"exp": time.Now().UTC().Add(time.Hour).Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.Validate(raw)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestValidateGarbage(t *testing.T) {
	svc := NewTokenService(testSecret, 0)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "not a jwt", raw: "definitely-not-a-token"},
		{name: "two segments", raw: "aaaa.bbbb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.raw)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}
