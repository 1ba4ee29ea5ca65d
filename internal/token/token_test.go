package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rudrapanda257/Project-Management-Microservices-Platform/pkg/domain"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	signed, err := svc.Issue(42, "member@example.com", domain.RoleMember)
	require.NoError(t, err)

	principal, err := svc.Verify(signed)
	require.NoError(t, err)
	require.Equal(t, int64(42), principal.SubjectID)
	require.Equal(t, "member@example.com", principal.Email)
	require.Equal(t, domain.RoleMember, principal.Role)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	signed, err := svc.Issue(7, "admin@example.com", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyTamperedSignature(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	signed, err := svc.Issue(42, "member@example.com", domain.RoleMember)
	require.NoError(t, err)

	// Flip the last character of the signature segment.
	tampered := signed[:len(signed)-1]
	if signed[len(signed)-1] == 'A' {
		tampered += "B"
	} else {
		tampered += "A"
	}

	_, err = svc.Verify(tampered)
	require.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerifyWrongKey(t *testing.T) {
	issuer := NewService("secret-one", time.Hour)
	verifier := NewService("secret-two", time.Hour)

	signed, err := issuer.Issue(42, "member@example.com", domain.RoleMember)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	require.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	for _, garbage := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := svc.Verify(garbage)
		require.ErrorIs(t, err, ErrMalformed, "input %q", garbage)
	}
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	signed, err := svc.Issue(42, "member@example.com", domain.Role("SUPERUSER"))
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	require.ErrorIs(t, err, ErrMalformed)
}
