package utils

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"OdontoSystem/cache"

	"github.com/pkg/errors"
)

const (
	ResetCodeTTL = 15 * time.Minute
	// MaxResetAttempts is the number of wrong codes accepted per e-mail
	// within ResetCodeTTL before resets are locked.
	MaxResetAttempts = 5
)

// ErrResetLocked is returned by Consume once an address has used up its
// attempts for the current window.
var ErrResetLocked = errors.New("too many reset attempts")

// ResetCodes keeps one pending password reset code per e-mail address.
type ResetCodes struct {
	store       cache.Store
	ttl         time.Duration
	maxAttempts int64
}

func NewResetCodes(store cache.Store) *ResetCodes {
	return &ResetCodes{store: store, ttl: ResetCodeTTL, maxAttempts: MaxResetAttempts}
}

// GenerateResetCode returns a random 6-digit code.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func resetCodeKey(email string) string {
	return "reset_code:" + email
}

func resetAttemptsKey(email string) string {
	return "reset_attempts:" + email
}

// Issue creates and stores a new code for email, replacing any previous one.
func (r *ResetCodes) Issue(ctx context.Context, email string) (string, error) {
	code, err := GenerateResetCode()
	if err != nil {
		return "", err
	}
	if err := r.store.Set(ctx, resetCodeKey(email), code, r.ttl); err != nil {
		return "", err
	}
	return code, nil
}

// Consume checks code against the stored one and deletes it on a match.
// Wrong codes are counted per e-mail; reaching the limit discards the pending
// code and every later call fails with ErrResetLocked until the window ends.
// Issuing a new code does not reset the count.
func (r *ResetCodes) Consume(ctx context.Context, email, code string) (bool, error) {
	failed, err := r.store.Get(ctx, resetAttemptsKey(email))
	if err != nil {
		return false, err
	}
	if failed != "" {
		if n, err := strconv.ParseInt(failed, 10, 64); err == nil && n >= r.maxAttempts {
			return false, ErrResetLocked
		}
	}

	stored, err := r.store.Get(ctx, resetCodeKey(email))
	if err != nil {
		return false, err
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		n, err := r.store.Incr(ctx, resetAttemptsKey(email), r.ttl)
		if err != nil {
			return false, err
		}
		if n >= r.maxAttempts {
			if err := r.store.Delete(ctx, resetCodeKey(email)); err != nil {
				return false, err
			}
			return false, ErrResetLocked
		}
		return false, nil
	}
	return true, r.store.Delete(ctx, resetCodeKey(email), resetAttemptsKey(email))
}
