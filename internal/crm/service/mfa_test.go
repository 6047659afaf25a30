package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func TestMFA_EnrollVerify(t *testing.T) {
	e := newEnv(t)
	res := e.seed(t)
	ctx := context.Background()

	require.ErrorIs(t, e.mfa.Verify(ctx, res.Owner.ID, "123456"), ErrMFANotEnrolled)

	enrollment, err := e.mfa.Enroll(ctx, res.Owner.ID)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.True(t, strings.HasPrefix(enrollment.URL, "otpauth://totp/"))
	require.Equal(t, "olivia", enrollment.Account)

	require.ErrorIs(t, e.mfa.Verify(ctx, res.Owner.ID, "000000x"), ErrInvalidTOTPCode)

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	require.NoError(t, e.mfa.Verify(ctx, res.Owner.ID, code))

	_, err = e.mfa.Enroll(ctx, res.Owner.ID)
	require.ErrorIs(t, err, ErrMFAAlreadyEnabled)

	_, err = e.mfa.Enroll(ctx, "usr_missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfile(t *testing.T) {
	e := newEnv(t)
	res := e.seed(t)
	ctx := context.Background()

	p, err := e.profile.Profile(ctx, res.Owner.ID)
	require.NoError(t, err)
	require.Equal(t, res.Owner.ID, p.User.ID)
	require.Equal(t, res.Owner.RoleID, p.Role.ID)
	require.True(t, p.Role.System)
	require.Equal(t, res.Business.Name, p.Business.Name)

	_, err = e.profile.Profile(ctx, "usr_missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}
