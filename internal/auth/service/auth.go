package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/laptrinhthatde/apishop/internal/auth/domain"
	"github.com/laptrinhthatde/apishop/internal/auth/email"
	"github.com/laptrinhthatde/apishop/internal/auth/store"
	"github.com/laptrinhthatde/apishop/pkg/cryptox"
	"github.com/laptrinhthatde/apishop/pkg/jwtx"
	"github.com/laptrinhthatde/apishop/pkg/slogx"
)

// AuthService orchestrates the credential workflows: login, logout,
// password change, forgot/reset password and refresh exchange. Each
// operation is stateless between invocations; the only multi-step state
// is the reset ticket persisted on the user record.
type AuthService struct {
	Store store.Store

	AccessSigner    *jwtx.Signer
	RefreshSigner   *jwtx.Signer
	AccessVerifier  *jwtx.Verifier
	RefreshVerifier *jwtx.Verifier

	Blacklist *Blacklist
	Mailer    email.Mailer

	ResetTTL     time.Duration
	ResetBaseURL string // reset link prefix; token appended as ?secretKey=
}

// LoginResult bundles what a successful login returns: both tokens and
// the authenticated user joined with its role.
type LoginResult struct {
	Tokens domain.TokenPair
	User   domain.User
	Role   domain.Role
}

// Login verifies the credentials and issues the access/refresh pair
// carrying the user's id and current permission set. Both the
// missing-user and password-mismatch paths stop immediately and report
// the same InvalidCredentials outcome, so callers cannot probe which
// emails exist.
func (s *AuthService) Login(ctx context.Context, loginEmail, password string) (*LoginResult, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, loginEmail)
	if err != nil {
		return nil, mapStoreNotFound(err, ErrInvalidCredentials)
	}

	// Disabled accounts authenticate like unknown ones.
	if user.Status != domain.StatusActive {
		l.Info("login rejected for inactive account", slog.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, user.RoleID)
	if err != nil {
		return nil, mapCollaboratorErr(err)
	}

	accessToken, _, err := s.AccessSigner.Issue(user.ID, role.Permissions, now)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := s.RefreshSigner.Issue(user.ID, role.Permissions, now)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Tokens: domain.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    s.AccessSigner.TTL(),
		},
		User: user,
		Role: role,
	}, nil
}

// Logout revokes the presented access token. Idempotent: an invalid,
// expired or already-revoked token is not an error, the caller ends up
// logged out either way. The boundary layer clears the refresh cookie.
func (s *AuthService) Logout(ctx context.Context, accessToken string) {
	claims, err := s.AccessVerifier.Verify(accessToken)
	if err != nil {
		// Nothing to revoke: the token is already unusable.
		return
	}

	s.Blacklist.Revoke(accessToken, claims.ExpiresAt.Time)
}

// ChangePassword verifies the current password, rejects a no-op change,
// then stores the new hash and revokes the presented access token so
// the caller must re-authenticate. Every check stops the workflow on
// first failure; nothing is written after a failed check.
func (s *AuthService) ChangePassword(
	ctx context.Context,
	userID, currentPassword, newPassword, accessToken string,
) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return mapStoreNotFound(err, ErrNotFound)
	}

	if err := cryptox.VerifyPassword(currentPassword, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrInvalidCredentials
		}
		return err
	}

	// Reject replacing the password with itself.
	if err := cryptox.VerifyPassword(newPassword, user.PasswordHash); err == nil {
		return ErrDuplicateValue
	} else if !errors.Is(err, cryptox.ErrPasswordMismatch) {
		return err
	}

	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return mapCollaboratorErr(err)
	}

	// Force re-authentication with the new password.
	s.Logout(ctx, accessToken)
	return nil
}

// ForgotPassword issues a reset ticket for the account matching the
// supplied email and mails the reset link. The raw token never lands at
// rest; the user record stores its fingerprint plus the expiry instant.
// Calling again overwrites any outstanding ticket.
func (s *AuthService) ForgotPassword(ctx context.Context, userEmail string) error {
	l := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, userEmail)
	if err != nil {
		return mapStoreNotFound(err, ErrNotFound)
	}

	resetToken, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(s.ResetTTL)
	fp := cryptox.FingerprintToken(resetToken)

	if err := s.Store.Users().SetResetTicket(ctx, user.ID, fp, expiresAt); err != nil {
		return mapCollaboratorErr(err)
	}

	resetLink := s.ResetBaseURL + "?secretKey=" + resetToken
	if err := s.Mailer.SendPasswordResetEmail(ctx, user.Email, resetLink, s.ResetTTL); err != nil {
		l.Error("failed to send password reset email",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return ErrUnavailable
	}

	return nil
}

// ResetPassword redeems a reset ticket. The ticket must match and be
// unexpired before any user field is read; it is cleared in the same
// transaction that stores the new hash, so it can be consumed exactly
// once.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	now := time.Now()
	fp := cryptox.FingerprintToken(resetToken)

	user, err := s.Store.Users().GetUserByResetTokenHash(ctx, fp, now)
	if err != nil {
		return mapStoreNotFound(err, ErrInvalidResetToken)
	}

	if err := cryptox.VerifyPassword(newPassword, user.PasswordHash); err == nil {
		return ErrDuplicateValue
	} else if !errors.Is(err, cryptox.ErrPasswordMismatch) {
		return err
	}

	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, newHash); err != nil {
			return err
		}
		return tx.Users().ClearResetTicket(ctx, user.ID)
	})
	return mapCollaboratorErr(err)
}

// RefreshTokens exchanges a valid refresh token for a fresh access
// token. The refresh token only verifies against the refresh secret;
// permissions are re-read from the user's role so a re-issued access
// token picks up role changes.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	now := time.Now()

	claims, err := s.RefreshVerifier.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		return nil, mapStoreNotFound(err, ErrInvalidRefresh)
	}
	if user.Status != domain.StatusActive {
		return nil, ErrInvalidRefresh
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, user.RoleID)
	if err != nil {
		return nil, mapCollaboratorErr(err)
	}

	accessToken, _, err := s.AccessSigner.Issue(user.ID, role.Permissions, now)
	if err != nil {
		return nil, err
	}

	// No rotation: the presented refresh token stays valid until expiry.
	return &domain.TokenPair{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.AccessSigner.TTL(),
	}, nil
}
