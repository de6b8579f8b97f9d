package services

import (
	"context"
	"strings"
	"testing"

	"restaurant-pos/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Register(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		sess    Session
		in      RegisterInput
		wantErr error
	}{
		{name: "success_self_signup_staff", in: RegisterInput{Username: "  nina ", Password: "secret1", Role: "staff"}},
		{name: "error_self_signup_admin", in: RegisterInput{Username: "omar", Password: "secret1", Role: models.RoleAdmin}, wantErr: ErrForbidden},
		{name: "error_staff_registers_user", sess: staffSess, in: RegisterInput{Username: "pia", Password: "secret1", Role: models.RoleStaff}, wantErr: ErrForbidden},
		{name: "success_admin_creates_admin", sess: adminSess, in: RegisterInput{Username: "quinn", Password: "secret1", Role: models.RoleAdmin}},
		{name: "error_duplicate_username", in: RegisterInput{Username: "nina", Password: "secret1", Role: models.RoleStaff}, wantErr: ErrInvalidState},
		{name: "error_short_password", in: RegisterInput{Username: "rita", Password: "123", Role: models.RoleStaff}, wantErr: ErrInvalidInput},
		{name: "error_short_username", in: RegisterInput{Username: "ab", Password: "secret1", Role: models.RoleStaff}, wantErr: ErrInvalidInput},
		{name: "error_password_over_72_bytes", in: RegisterInput{Username: "tess", Password: strings.Repeat("é", 40), Role: models.RoleStaff}, wantErr: ErrInvalidInput},
		{name: "error_unknown_role", in: RegisterInput{Username: "sven", Password: "secret1", Role: "CHEF"}, wantErr: ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Users.Register(ctx, tt.sess, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, user.ID)
			assert.NotEqual(t, tt.in.Password, user.PasswordHash)
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Users.Register(ctx, Session{}, RegisterInput{Username: "tara", Password: "letmein", Role: models.RoleStaff})
	require.NoError(t, err)

	user, err := svc.Users.Authenticate(ctx, " tara ", "letmein")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, user.Role)

	_, err = svc.Users.Authenticate(ctx, "tara", "wrong")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Users.Authenticate(ctx, "nobody", "letmein")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserService_EnsureDefaultAdminAndList(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	created, err := svc.Users.EnsureDefaultAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Users.EnsureDefaultAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.False(t, created)

	admin, err := svc.Users.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = svc.Users.List(ctx, staffSess)
	assert.ErrorIs(t, err, ErrForbidden)

	users, err := svc.Users.List(ctx, NewSession(admin))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)

	got, err := svc.Users.Get(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.Username, got.Username)
}
