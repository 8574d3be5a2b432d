package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/telebroad/ftpserver/config"
	"github.com/telebroad/ftpserver/filesystem"
	"github.com/telebroad/ftpserver/ftp"
	"github.com/telebroad/ftpserver/keys"
	"github.com/telebroad/ftpserver/tools"
	"github.com/telebroad/ftpserver/users"
)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "ftpserver",
		Short:         "FTP server with pluggable storage backends",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file, environment variables override it")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the FTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
			defer stop()
			return serve(ctx, cfg, cmd.ErrOrStderr())
		},
	}
	rootCmd.AddCommand(serveCmd)
	return rootCmd
}

// serve runs the server until ctx is done
func serve(ctx context.Context, cfg *config.Config, logOutput io.Writer) error {
	logger := tools.NewLogger(cfg.LogLevel, logOutput)

	fs, closeFS, err := openFileSystem(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFS()

	localUsers, err := buildUsers(cfg.Users)
	if err != nil {
		return err
	}
	// without configured users every login is accepted
	var u users.Users
	if localUsers != nil {
		u = localUsers
	}

	ftpServer, err := ftp.NewServer(cfg.Addr, fs, u)
	if err != nil {
		return err
	}
	ftpServer.WelcomeMessage = cfg.WelcomeMessage
	ftpServer.SetLogger(logger)

	if err := ftpServer.TryListenAndServe(100 * time.Millisecond); err != nil {
		return fmt.Errorf("error starting ftp server: %w", err)
	}
	logger.Info("FTP server started", "addr", cfg.Addr, "backend", cfg.Backend)

	<-ctx.Done()
	logger.Info("Shutting down", "cause", context.Cause(ctx))
	if err := ftpServer.Close(context.Cause(ctx)); err != nil && !errors.Is(err, net.ErrClosed) {
		logger.Warn("Error closing listener", "error", err)
	}
	return nil
}

// openFileSystem creates the backend named in the config, the returned func releases it
func openFileSystem(cfg *config.Config, logger *slog.Logger) (filesystem.FileSystem, func(), error) {
	switch cfg.Backend {
	case config.BackendLocal:
		local := filesystem.NewLocalFS(cfg.Root)
		local.SetLogger(logger)
		return local, func() {}, nil
	case config.BackendMemory:
		return filesystem.NewMemoryFS(), func() {}, nil
	case config.BackendSFTP:
		sshConfig, err := keys.ClientConfig(cfg.SFTP.User, cfg.SFTP.Password, cfg.SFTP.KeyFile, cfg.SFTP.HostKey)
		if err != nil {
			return nil, nil, err
		}
		if cfg.SFTP.HostKey == "" {
			logger.Warn("No sftp host key configured, the server identity is not verified", "addr", cfg.SFTP.Addr)
		}
		remote, err := filesystem.DialSFTP(cfg.SFTP.Addr, sshConfig, cfg.SFTP.Root)
		if err != nil {
			return nil, nil, err
		}
		remote.SetLogger(logger)
		return remote, func() {
			if err := remote.Close(); err != nil {
				logger.Warn("Error closing sftp backend", "error", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// buildUsers returns nil when no users are configured
func buildUsers(list []config.User) (*users.LocalUsers, error) {
	if len(list) == 0 {
		return nil, nil
	}
	u := users.NewLocalUsers()
	for _, cu := range list {
		user := u.Add(cu.Username, cu.Password)
		for _, ip := range cu.IPs {
			if err := user.AddIP(ip); err != nil {
				return nil, fmt.Errorf("user %s: %w", cu.Username, err)
			}
		}
	}
	return u, nil
}
