package Services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAccounts(t *testing.T) *AccountService {
	s := NewAccountService(newTestDB(t))
	s.Cost = bcrypt.MinCost
	return s
}

func TestPasswordProblem(t *testing.T) {
	assert.NotEmpty(t, PasswordProblem("Sh0rt"))
	assert.NotEmpty(t, PasswordProblem("alllowercase1"))
	assert.NotEmpty(t, PasswordProblem("NoDigitsHere"))
	assert.Empty(t, PasswordProblem("Good1Password"))
}

func TestRegisterAndAuthenticate(t *testing.T) {
	s := newAccounts(t)
	ctx := context.Background()

	user, err := s.Register(ctx, " Sam ", " Sam@Example.com ", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "Sam", user.Username)
	assert.Equal(t, "sam@example.com", user.Email)
	assert.NotEqual(t, []byte("Secret123"), user.PasswordHash)

	_, err = s.Register(ctx, "Other", "SAM@example.com", "Secret123")
	assert.True(t, IsConflict(err))

	_, err = s.Register(ctx, "Weak", "weak@example.com", "password")
	assert.True(t, IsValidation(err))

	got, err := s.Authenticate(ctx, "sam@EXAMPLE.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.Authenticate(ctx, "sam@example.com", "Wrong1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate(ctx, "nobody@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateSettings(t *testing.T) {
	s := newAccounts(t)
	ctx := context.Background()
	user, err := s.Register(ctx, "Sam", "sam@example.com", "Secret123")
	require.NoError(t, err)
	_, err = s.Register(ctx, "Alex", "alex@example.com", "Secret123")
	require.NoError(t, err)

	name, optOut := "Samantha", true
	got, err := s.UpdateSettings(ctx, user.ID, SettingsChanges{Username: &name, NotificationsOptOut: &optOut})
	require.NoError(t, err)
	assert.Equal(t, "Samantha", got.Username)
	assert.True(t, got.NotificationsOptOut)

	email := "new@example.com"
	_, err = s.UpdateSettings(ctx, user.ID, SettingsChanges{Email: &email, CurrentPassword: "wrong"})
	assert.True(t, IsValidation(err))

	taken := "alex@example.com"
	_, err = s.UpdateSettings(ctx, user.ID, SettingsChanges{Email: &taken, CurrentPassword: "Secret123"})
	assert.True(t, IsConflict(err))

	_, err = s.UpdateSettings(ctx, user.ID, SettingsChanges{Email: &email, CurrentPassword: "Secret123", NewPassword: "Newer1234"})
	require.NoError(t, err)

	_, err = s.Authenticate(ctx, "new@example.com", "Newer1234")
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, "sam@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	stored, err := s.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Samantha", stored.Username)
	assert.True(t, stored.NotificationsOptOut)
}

func TestSetPassword(t *testing.T) {
	s := newAccounts(t)
	ctx := context.Background()
	user, err := s.Register(ctx, "Sam", "sam@example.com", "Secret123")
	require.NoError(t, err)

	assert.True(t, IsValidation(s.SetPassword(ctx, user.ID, "short")))
	require.NoError(t, s.SetPassword(ctx, user.ID, "Reset1234"))
	_, err = s.Authenticate(ctx, "sam@example.com", "Reset1234")
	require.NoError(t, err)

	assert.True(t, IsNotFound(s.SetPassword(ctx, 999, "Reset1234")))
}
