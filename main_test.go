package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telebroad/ftpserver/config"
	"github.com/telebroad/ftpserver/filesystem"
)

func TestOpenFileSystem(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.DefaultConfig()
	cfg.Root = t.TempDir()
	fs, closeFS, err := openFileSystem(cfg, logger)
	require.NoError(t, err)
	defer closeFS()
	assert.IsType(t, &filesystem.LocalFS{}, fs)

	cfg.Backend = config.BackendMemory
	fs, closeFS, err = openFileSystem(cfg, logger)
	require.NoError(t, err)
	defer closeFS()
	assert.IsType(t, &filesystem.MemoryFS{}, fs)

	cfg.Backend = "s3"
	_, _, err = openFileSystem(cfg, logger)
	assert.Error(t, err)
}

func TestBuildUsers(t *testing.T) {
	u, err := buildUsers(nil)
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = buildUsers([]config.User{{Username: "bob", Password: "secret", IPs: []string{"127.0.0.1"}}})
	require.NoError(t, err)
	user, err := u.Find("bob", "secret", "127.0.0.1:4000")
	require.NoError(t, err)
	assert.Equal(t, "bob", user.Username)
	_, err = u.Find("bob", "secret", "10.1.1.1:4000")
	assert.Error(t, err)

	_, err = buildUsers([]config.User{{Username: "bob", IPs: []string{"not an ip"}}})
	assert.Error(t, err)
}

func TestServe_StopsWithContext(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	cfg.Backend = config.BackendMemory

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, serve(ctx, cfg, io.Discard))
}

func TestRootCmd(t *testing.T) {
	cmd := newRootCmd()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serveCmd.Name())
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}
