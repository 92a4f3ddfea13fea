package utils

import (
	"context"
	"testing"
	"time"

	"OdontoSystem/cache"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testKey = "0123456789abcdef0123456789abcdef"

func init() {
	BcryptCost = bcrypt.MinCost
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPassword(hash, "secret1"))
	assert.False(t, CheckPassword(hash, "secret2"))
	assert.False(t, CheckPassword("not-a-hash", "secret1"))
}

func TestTokenRoundTrip(t *testing.T) {
	maker, err := NewTokenMaker(testKey, 8*time.Hour)
	require.NoError(t, err)

	token, issued, err := maker.IssueToken("u1", "ana@clinic.com", "Ana", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)
	assert.Equal(t, 8*time.Hour, issued.Expiry.Sub(issued.IssuedAt))

	claims, err := maker.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ana@clinic.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, issued.TokenID, claims.TokenID)
}

func TestTokenRejectsExpiredAndForeign(t *testing.T) {
	maker, err := NewTokenMaker(testKey, time.Hour)
	require.NoError(t, err)
	token, _, err := maker.IssueToken("u1", "a@b.c", "A", "dentist")
	require.NoError(t, err)

	maker.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = maker.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewTokenMaker("abcdef0123456789abcdef0123456789", time.Hour)
	require.NoError(t, err)
	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = other.VerifyToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenMakerKeyLength(t *testing.T) {
	_, err := NewTokenMaker("short", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidSigningKey)
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, RequireRole(&TokenClaims{Role: "admin"}, "admin"))
	assert.ErrorIs(t, RequireRole(&TokenClaims{Role: "finance"}, "admin"), ErrInsufficientRole)
	assert.ErrorIs(t, RequireRole(nil, "admin"), ErrInsufficientRole)
}

func TestResetCodesConsumeOnce(t *testing.T) {
	ctx := context.Background()
	codes := NewResetCodes(cache.NewMemory())

	code, err := codes.Issue(ctx, "ana@clinic.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)

	ok, err := codes.Consume(ctx, "ana@clinic.com", "wrong!")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = codes.Consume(ctx, "ana@clinic.com", code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = codes.Consume(ctx, "ana@clinic.com", code)
	assert.False(t, ok)
}

func TestResetCodesLockAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory()
	codes := NewResetCodes(store)

	code, err := codes.Issue(ctx, "ana@clinic.com")
	require.NoError(t, err)

	for i := 1; i < MaxResetAttempts; i++ {
		ok, err := codes.Consume(ctx, "ana@clinic.com", "bad")
		require.NoError(t, err)
		assert.False(t, ok)
	}
	_, err = codes.Consume(ctx, "ana@clinic.com", "bad")
	assert.ErrorIs(t, err, ErrResetLocked)

	pending, _ := store.Get(ctx, "reset_code:ana@clinic.com")
	assert.Empty(t, pending)

	ok, err := codes.Consume(ctx, "ana@clinic.com", code)
	assert.ErrorIs(t, err, ErrResetLocked)
	assert.False(t, ok)

	// Other addresses keep their own count.
	other, err := codes.Issue(ctx, "bia@clinic.com")
	require.NoError(t, err)
	ok, err = codes.Consume(ctx, "bia@clinic.com", other)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMonthWindow(t *testing.T) {
	start, end := MonthWindow(3, 2025)
	assert.Equal(t, "2025-03-01", start.Format("2006-01-02"))
	assert.Equal(t, "2025-04-01", end.Format("2006-01-02"))

	start, end = MonthWindow(12, 2024)
	assert.Equal(t, "2024-12-01", start.Format("2006-01-02"))
	assert.Equal(t, "2025-01-01", end.Format("2006-01-02"))

	m, y := NextMonth(12, 2024)
	assert.Equal(t, 1, m)
	assert.Equal(t, 2025, y)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 75.0, Percent(decimal.NewFromInt(150), decimal.NewFromInt(200)))
	assert.Equal(t, 33.3, Percent(decimal.NewFromInt(1), decimal.NewFromInt(3)))
	assert.Equal(t, 0.0, Percent(decimal.NewFromInt(50), decimal.Zero))
}

func TestResetCodeMessageHeaders(t *testing.T) {
	m := resetCodeMessage("clinic@example.com", "ana@example.com", "123456")
	assert.Equal(t, []string{"ana@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Password Reset Code"}, m.GetHeader("Subject"))
}
