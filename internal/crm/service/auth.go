package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/crmgate/internal/crm/domain"
	"github.com/aussiebroadwan/crmgate/internal/crm/store"
	"github.com/aussiebroadwan/crmgate/pkg/cryptox"
	"github.com/aussiebroadwan/crmgate/pkg/idx"
	"github.com/aussiebroadwan/crmgate/pkg/jwtx"
	"github.com/aussiebroadwan/crmgate/pkg/slogx"
	"github.com/pquerna/otp/totp"
)

const tokenTypeBearer = "Bearer"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrOTPRequired        = errors.New("otp_required")
)

type AuthService struct {
	Store      store.Store
	Hasher     *cryptox.PasswordHasher
	Signer     *jwtx.Signer
	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is overridden in tests.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login verifies the password and, when the user enrolled TOTP, the one
// time code. A missing code yields ErrOTPRequired so the client can route
// to its /otp screen and retry with the code.
func (s *AuthService) Login(ctx context.Context, username, password, otpCode string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	username = strings.ToLower(strings.TrimSpace(username))

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login for unknown user", slog.String("username", username))
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		l.Info("login password mismatch", slog.String("user_id", u.ID))
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	amr := []string{"pwd"}
	if u.HasMFA() {
		otpCode = strings.TrimSpace(otpCode)
		if otpCode == "" {
			return domain.TokenPair{}, ErrOTPRequired
		}
		if !totp.Validate(otpCode, *u.MFASecret) {
			l.Info("login otp mismatch", slog.String("user_id", u.ID))
			return domain.TokenPair{}, ErrInvalidTOTPCode
		}
		amr = append(amr, "otp")
	}

	var pair domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		pair, err = s.issue(ctx, tx, u, idx.New(idx.PrefixRefreshToken).String(), amr)
		return err
	})
	if err != nil {
		return domain.TokenPair{}, err
	}

	l.Info("user logged in", slog.String("user_id", u.ID))
	return pair, nil
}

// Refresh rotates a refresh token. Presenting a token that was already
// rotated or revoked revokes every token of its session.
func (s *AuthService) Refresh(ctx context.Context, refreshOpaque string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	fp := cryptox.FingerprintToken(strings.TrimSpace(refreshOpaque))
	now := s.now()

	var (
		pair   domain.TokenPair
		replay bool
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rt, err := tx.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}
		if rt.Revoked {
			replay = true
			return tx.RefreshTokens().RevokeSession(ctx, rt.SessionID)
		}
		if !rt.Active(now) {
			return ErrInvalidRefresh
		}

		u, err := tx.Users().GetUserByID(ctx, rt.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidRefresh
			}
			return err
		}

		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}
		pair, err = s.issue(ctx, tx, u, rt.SessionID, rt.AMR)
		return err
	})
	if err != nil {
		return domain.TokenPair{}, err
	}
	if replay {
		l.Warn("refresh token replayed, session revoked")
		return domain.TokenPair{}, ErrInvalidRefresh
	}
	return pair, nil
}

// Logout revokes the refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshOpaque string) error {
	fp := cryptox.FingerprintToken(strings.TrimSpace(refreshOpaque))
	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, fp)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}

// issue signs an access token for u and stores a new refresh token under
// sessionID.
func (s *AuthService) issue(ctx context.Context, tx store.Tx, u domain.User, sessionID string, amr []string) (domain.TokenPair, error) {
	now := s.now()

	claims := jwtx.NewAccessClaims(jwtx.AccessParams{
		Subject:       u.ID,
		BusinessID:    u.BusinessID,
		RoleID:        u.RoleID,
		AMR:           amr,
		Username:      u.Username,
		PreferredName: u.PreferredName,
		Issuer:        s.Issuer,
		Audience:      s.Audience,
		TTL:           s.AccessTTL,
	}, now)
	access, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshOpaque, fingerprint, err := cryptox.NewRefreshToken()
	if err != nil {
		return domain.TokenPair{}, err
	}
	err = tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New(idx.PrefixRefreshToken).String(),
		UserID:    u.ID,
		TokenHash: fingerprint,
		SessionID: sessionID,
		AMR:       amr,
		ExpiresAt: now.Add(s.RefreshTTL),
	})
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refreshOpaque,
		TokenType:    tokenTypeBearer,
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}, nil
}
