package services

import (
	"context"
	"strconv"
	"time"

	"OdontoSystem/apperrors"
	"OdontoSystem/cache"
	"OdontoSystem/database"
	"OdontoSystem/logger"
	"OdontoSystem/models"
	"OdontoSystem/repositories"
	"OdontoSystem/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pkg/errors"
)

const (
	loginAttemptsPrefix = "login_attempts:"
	revokedTokenPrefix  = "revoked_token:"
	revokedBeforePrefix = "revoked_before:"
)

var (
	errBadCredentials = apperrors.Unauthorized("incorrect email or password")
	errInvalidToken   = apperrors.Unauthorized(utils.ErrInvalidToken.Error())
)

// AuthConfig tunes login throttling.
type AuthConfig struct {
	LoginAttempts int
	LoginWindow   time.Duration
}

// AuthService handles sessions: login, token checks, logout and password resets.
type AuthService struct {
	users      *repositories.UserRepository
	tokens     *utils.TokenMaker
	cache      cache.Store
	resetCodes *utils.ResetCodes
	mailer     utils.Mailer
	log        *logger.Logger
	cfg        AuthConfig
	now        func() time.Time
}

// NewAuthService wires the session service. mailer may be nil, in which case
// password reset is unavailable.
func NewAuthService(
	users *repositories.UserRepository,
	tokens *utils.TokenMaker,
	store cache.Store,
	mailer utils.Mailer,
	log *logger.Logger,
	cfg AuthConfig,
) *AuthService {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthService{
		users:      users,
		tokens:     tokens,
		cache:      store,
		resetCodes: utils.NewResetCodes(store),
		mailer:     mailer,
		log:        log,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *AuthService) ResetEnabled() bool {
	return s.mailer != nil
}

// Login verifies credentials and issues an access token. Unknown e-mails and
// wrong passwords fail identically; inactive accounts are only reported once
// the password has been verified.
func (s *AuthService) Login(ctx context.Context, input models.LoginInput) (*models.LoginResult, error) {
	if err := input.Validate(); err != nil {
		return nil, invalid(err)
	}
	email := models.NormalizeEmail(input.Email)

	if err := s.throttle(ctx, email); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, storeError(err, "user")
	}
	if !utils.CheckPassword(user.PasswordHash, input.Password) {
		return nil, errBadCredentials
	}
	if !user.Active {
		return nil, apperrors.Forbidden("user is inactive")
	}

	if err := s.cache.Delete(ctx, loginAttemptsPrefix+email); err != nil {
		s.log.Warn(ctx, "failed to reset login attempts", err)
	}

	token, claims, err := s.tokens.IssueToken(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "failed to issue token")
	}

	lastAccess := models.NewDateTime(s.now())
	if err := s.users.TouchLastAccess(ctx, user.ID, lastAccess); err != nil {
		s.log.Warn(s.log.WithUserID(ctx, user.ID), "failed to record last access", err)
	} else {
		user.LastAccessAt = &lastAccess
	}

	return &models.LoginResult{
		AccessToken: token,
		TokenType:   utils.TokenType,
		ExpiresAt:   models.NewDateTime(claims.Expiry),
		User:        user.Profile(),
	}, nil
}

func (s *AuthService) throttle(ctx context.Context, email string) error {
	if s.cfg.LoginAttempts <= 0 {
		return nil
	}
	attempts, err := s.cache.Incr(ctx, loginAttemptsPrefix+email, s.cfg.LoginWindow)
	if err != nil {
		s.log.Warn(ctx, "login throttle unavailable", err)
		return nil
	}
	if attempts > int64(s.cfg.LoginAttempts) {
		return apperrors.RateLimited("too many login attempts, try again later")
	}
	return nil
}

// Authenticate verifies a bearer token and rejects revoked ones.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*utils.TokenClaims, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, errInvalidToken
	}

	revoked, err := s.cache.Get(ctx, revokedTokenPrefix+claims.TokenID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, err, "session store unavailable")
	}
	if revoked != "" {
		return nil, errInvalidToken
	}

	before, err := s.cache.Get(ctx, revokedBeforePrefix+claims.UserID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeUnavailable, err, "session store unavailable")
	}
	if before != "" {
		cutoff, err := strconv.ParseInt(before, 10, 64)
		if err == nil && claims.IssuedAt.UnixNano() <= cutoff {
			return nil, errInvalidToken
		}
	}
	return claims, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *utils.TokenClaims) error {
	ttl := claims.Expiry.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, revokedTokenPrefix+claims.TokenID, "1", ttl); err != nil {
		return apperrors.Wrap(apperrors.CodeUnavailable, err, "session store unavailable")
	}
	return nil
}

// RevokeUser invalidates every token issued to a user up to now.
func (s *AuthService) RevokeUser(ctx context.Context, userID string) error {
	cutoff := strconv.FormatInt(s.now().UnixNano(), 10)
	if err := s.cache.Set(ctx, revokedBeforePrefix+userID, cutoff, s.tokens.TTL()); err != nil {
		return apperrors.Wrap(apperrors.CodeUnavailable, err, "session store unavailable")
	}
	return nil
}

// Me returns the profile of the signed-in user.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "user")
	}
	profile := user.Profile()
	return &profile, nil
}

// SendResetCode e-mails a reset code to an active user. The outcome is the
// same whether or not the address belongs to an account.
func (s *AuthService) SendResetCode(ctx context.Context, email string) error {
	if s.mailer == nil {
		return apperrors.NotFound("password reset is not enabled")
	}
	email = models.NormalizeEmail(email)
	if err := validation.Validate(email, validation.Required, is.EmailFormat); err != nil {
		return apperrors.Validation("email: " + err.Error())
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		s.log.Info(ctx, "reset code requested for unknown email")
		return nil
	}
	if err != nil {
		return storeError(err, "user")
	}
	if !user.Active {
		return nil
	}

	code, err := s.resetCodes.Issue(ctx, email)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnavailable, err, "session store unavailable")
	}
	if err := s.mailer.SendResetCode(ctx, email, code); err != nil {
		s.log.Error(s.log.WithUserID(ctx, user.ID), "failed to send reset code", err)
	}
	return nil
}

// ResetPassword sets a new password after checking the e-mailed code. Tokens
// issued before the reset stop working.
func (s *AuthService) ResetPassword(ctx context.Context, input models.ResetPasswordInput) error {
	if err := input.Validate(); err != nil {
		return invalid(err)
	}
	email := models.NormalizeEmail(input.Email)

	ok, err := s.resetCodes.Consume(ctx, email, input.Code)
	if errors.Is(err, utils.ErrResetLocked) {
		s.log.Warn(ctx, "password reset locked after repeated wrong codes", err)
		return apperrors.RateLimited("too many reset attempts, try again later")
	}
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUnavailable, err, "session store unavailable")
	}
	if !ok {
		return apperrors.Validation("invalid reset code")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return apperrors.Validation("invalid reset code")
	}
	if err != nil {
		return storeError(err, "user")
	}
	hash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "failed to hash password")
	}
	if _, err := s.users.Update(ctx, user.ID, map[string]any{"password_hash": hash}); err != nil {
		return storeError(err, "user")
	}
	return s.RevokeUser(ctx, user.ID)
}
