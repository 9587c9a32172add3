package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIssueValidateRoundtrip(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	signed, err := svc.Issue("amara", []string{"ROLE_USER"})
	require.NoError(t, err)

	claims, err := svc.Validate(signed)
	require.NoError(t, err)
	require.Equal(t, "amara", claims.Username)
	require.Equal(t, []string{"ROLE_USER"}, claims.Authorities)
	require.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	signed, err := svc.Issue("amara", []string{"ROLE_USER"})
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := NewService("secret-a", time.Hour)
	verifier := NewService("secret-b", time.Hour)

	signed, err := issuer.Issue("amara", []string{"ROLE_ADMIN"})
	require.NoError(t, err)

	_, err = verifier.Validate(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMalformed(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	for _, garbage := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Validate(garbage)
		require.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		ok     bool
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", true},
		{"lowercase scheme", "bearer abc.def.ghi", "abc.def.ghi", true},
		{"empty", "", "", false},
		{"missing token", "Bearer", "", false},
		{"wrong scheme", "Basic abc", "", false},
		{"extra parts", "Bearer a b", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBearer(tt.header)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
