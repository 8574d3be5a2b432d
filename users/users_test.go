package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUsers_Find(t *testing.T) {
	u := NewLocalUsers()
	open := u.Add("open", "secret")
	lan := u.Add("lan", "secret")
	require.NoError(t, lan.AddIP("192.168.0.0/16"))
	require.NoError(t, lan.AddIP("::1"))

	tests := []struct {
		name       string
		username   string
		password   string
		remoteAddr string
		wantErr    error
	}{
		{"any address", "open", "secret", "203.0.113.7:5000", nil},
		{"pipe address", "open", "secret", "pipe", nil},
		{"allowed prefix", "lan", "secret", "192.168.1.20:2121", nil},
		{"allowed ipv6", "lan", "secret", "[::1]:2121", nil},
		{"mapped ipv4", "lan", "secret", "[::ffff:192.168.1.20]:2121", nil},
		{"denied prefix", "lan", "secret", "10.0.0.1:2121", ErrIPNotAllowed},
		{"wrong password", "open", "nope", "127.0.0.1:1", ErrInvalidPassword},
		{"unknown user", "nobody", "secret", "127.0.0.1:1", ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := u.Find(tt.username, tt.password, tt.remoteAddr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.username, user.Username)
		})
	}
	assert.Same(t, open, mustGet(t, u, "open"))
}

func TestUser_IPs(t *testing.T) {
	u := NewLocalUsers().Add("a", "b")
	require.NoError(t, u.AddIP("10.1.2.3"))
	assert.True(t, u.FindIP("10.1.2.3"))
	assert.False(t, u.FindIP("10.1.2.4"))
	assert.False(t, u.FindIP("not an ip"))
	assert.Error(t, u.AddIP("not an ip"))

	u.RemoveIP("10.1.2.3")
	assert.Empty(t, u.IPs)
}

func TestLocalUsers_ListRemove(t *testing.T) {
	u := NewLocalUsers()
	u.Add("bob", "1")
	u.Add("alice", "2")
	list, err := u.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username)

	assert.Equal(t, "bob", u.Remove("bob").Username)
	_, err = u.Get("bob")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func mustGet(t *testing.T, u *LocalUsers, name string) *User {
	t.Helper()
	user, err := u.Get(name)
	require.NoError(t, err)
	return user
}
