package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Role
		wantErr bool
	}{
		{name: "user", in: "User", want: RoleUser},
		{name: "moderator", in: "Moderator", want: RoleModerator},
		{name: "administrator", in: "Administrator", want: RoleAdministrator},
		{name: "padded", in: " User ", want: RoleUser},
		{name: "unknown", in: "root", wantErr: true},
		{name: "wrong case", in: "user", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoleSetMembership(t *testing.T) {
	rs := RoleSet{RoleUser, RoleModerator}

	assert.True(t, rs.Has(RoleUser))
	assert.False(t, rs.Has(RoleAdministrator))

	assert.True(t, rs.Intersects(RoleModerator, RoleAdministrator))
	assert.False(t, rs.Intersects(RoleAdministrator))
	assert.False(t, rs.Intersects())
}

func TestAuthorize(t *testing.T) {
	rs := RoleSet{RoleModerator}

	assert.NoError(t, Authorize(true, rs, RoleUser, RoleModerator))
	assert.ErrorIs(t, Authorize(true, rs, RoleAdministrator), ErrRoleDenied)

	// Inactive wins over a matching role.
	assert.ErrorIs(t, Authorize(false, rs, RoleModerator), ErrUserInactive)
}

func TestRoleSetSerialization(t *testing.T) {
	rs := RoleSet{RoleUser, RoleAdministrator}
	assert.Equal(t, "User,Administrator", rs.String())

	parsed, err := ParseRoleSet("User,Administrator")
	require.NoError(t, err)
	assert.Equal(t, rs, parsed)
}

func TestParseRoleSet(t *testing.T) {
	t.Run("duplicates dropped", func(t *testing.T) {
		rs, err := ParseRoleSet("User,User,Moderator")
		require.NoError(t, err)
		assert.Equal(t, RoleSet{RoleUser, RoleModerator}, rs)
	})
	t.Run("unknown name fails", func(t *testing.T) {
		_, err := ParseRoleSet("User,superuser")
		assert.ErrorIs(t, err, ErrUnknownRole)
	})
	t.Run("empty defaults to user", func(t *testing.T) {
		rs, err := ParseRoleSet("")
		require.NoError(t, err)
		assert.Equal(t, RoleSet{RoleUser}, rs)
	})
}
