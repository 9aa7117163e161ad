package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notekeep/notekeep/internal/model"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestIssuer(t *testing.T) *SessionIssuer {
	t.Helper()
	s, err := NewSessionIssuer(testSecret, "notekeep", time.Hour)
	require.NoError(t, err)
	return s
}

func testIdentity() *model.Identity {
	return &model.Identity{
		ID:        "01HZY3J7Q4M8Z6X0B9K2N5R1TA",
		FullName:  "Ada Lovelace",
		Email:     "ada@example.com",
		CreatedOn: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewSessionIssuer_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewSessionIssuer("short", "notekeep", time.Hour)
	assert.Error(t, err)

	_, err = NewSessionIssuer(testSecret, "notekeep", 0)
	assert.Error(t, err)
}

func TestSessionIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestIssuer(t)
	identity := testIdentity()

	token, err := s.Issue(identity)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")))

	got, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, got.ID)
	assert.Equal(t, identity.FullName, got.FullName)
	assert.Equal(t, identity.Email, got.Email)
	assert.True(t, identity.CreatedOn.Equal(got.CreatedOn))
}

func TestSessionIssuer_Expired(t *testing.T) {
	t.Parallel()

	s := newTestIssuer(t)
	issuedAt := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return issuedAt }

	token, err := s.Issue(testIdentity())
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSessionIssuer_Rejects(t *testing.T) {
	t.Parallel()

	s := newTestIssuer(t)
	valid, err := s.Issue(testIdentity())
	require.NoError(t, err)

	other, err := NewSessionIssuer("ffffffffffffffffffffffffffffffff", "notekeep", time.Hour)
	require.NoError(t, err)
	foreignSecret, err := other.Issue(testIdentity())
	require.NoError(t, err)

	otherIssuer, err := NewSessionIssuer(testSecret, "someone-else", time.Hour)
	require.NoError(t, err)
	foreignIssuer, err := otherIssuer.Issue(testIdentity())
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"iss": "notekeep",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"tampered", valid[:len(valid)-2] + "xx"},
		{"wrong secret", foreignSecret},
		{"wrong issuer", foreignIssuer},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := s.Verify(tt.token)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestSessionIssuer_Missing(t *testing.T) {
	t.Parallel()

	_, err := newTestIssuer(t).Verify("")
	assert.ErrorIs(t, err, ErrTokenMissing)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSessionIssuer_IssueRequiresIdentity(t *testing.T) {
	t.Parallel()

	_, err := newTestIssuer(t).Issue(&model.Identity{})
	assert.Error(t, err)
}

func TestIdentityContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Nil(t, IdentityFromContext(ctx))
	assert.Empty(t, UserIDFromContext(ctx))

	ctx = ContextWithIdentity(ctx, testIdentity())
	assert.Equal(t, "ada@example.com", IdentityFromContext(ctx).Email)
	assert.Equal(t, testIdentity().ID, UserIDFromContext(ctx))
}
