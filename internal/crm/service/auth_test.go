package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/crmgate/pkg/rbac"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	e := newEnv(t)
	res := e.seed(t)
	ctx := context.Background()

	pair, err := e.auth.Login(ctx, " OLIVIA ", testOwnerPassword, "")
	require.NoError(t, err)
	require.Equal(t, "Bearer", pair.TokenType)
	require.NotEmpty(t, pair.RefreshToken)
	require.EqualValues(t, (15 * time.Minute).Seconds(), pair.ExpiresIn)

	claims, err := e.verifier().Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, res.Owner.ID, claims.Subject)
	require.Equal(t, res.Business.ID, claims.BusinessID)
	require.Equal(t, systemRole(t, res, rbac.RoleOwner).ID, claims.RoleID)
	require.Equal(t, []string{"pwd"}, claims.AMR)

	_, err = e.auth.Login(ctx, "olivia", "wrong password", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = e.auth.Login(ctx, "nobody", testOwnerPassword, "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_TOTP(t *testing.T) {
	e := newEnv(t)
	res := e.seed(t)
	ctx := context.Background()

	enrollment, err := e.mfa.Enroll(ctx, res.Owner.ID)
	require.NoError(t, err)
	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, e.mfa.Verify(ctx, res.Owner.ID, code))

	_, err = e.auth.Login(ctx, "olivia", testOwnerPassword, "")
	require.ErrorIs(t, err, ErrOTPRequired)

	_, err = e.auth.Login(ctx, "olivia", testOwnerPassword, "000000x")
	require.ErrorIs(t, err, ErrInvalidTOTPCode)

	// a wrong password never reveals that a code is needed
	_, err = e.auth.Login(ctx, "olivia", "wrong password", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	pair, err := e.auth.Login(ctx, "olivia", testOwnerPassword, code)
	require.NoError(t, err)

	claims, err := e.verifier().Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, []string{"pwd", "otp"}, claims.AMR)
}

func TestRefresh_Rotation(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	ctx := context.Background()

	first, err := e.auth.Login(ctx, "olivia", testOwnerPassword, "")
	require.NoError(t, err)

	second, err := e.auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = e.verifier().Verify(second.AccessToken)
	require.NoError(t, err)

	// replaying the rotated token revokes the whole session
	_, err = e.auth.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
	_, err = e.auth.Refresh(ctx, second.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefresh_Rejects(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	ctx := context.Background()

	_, err := e.auth.Refresh(ctx, "not-a-token")
	require.ErrorIs(t, err, ErrInvalidRefresh)

	pair, err := e.auth.Login(ctx, "olivia", testOwnerPassword, "")
	require.NoError(t, err)

	e.auth.Now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	_, err = e.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestLogout(t *testing.T) {
	e := newEnv(t)
	e.seed(t)
	ctx := context.Background()

	pair, err := e.auth.Login(ctx, "olivia", testOwnerPassword, "")
	require.NoError(t, err)

	require.NoError(t, e.auth.Logout(ctx, pair.RefreshToken))
	_, err = e.auth.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	// unknown tokens are fine
	require.NoError(t, e.auth.Logout(ctx, "unknown"))
}
