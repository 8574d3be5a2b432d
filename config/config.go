// Package config loads the server configuration from defaults, an optional YAML file and
// the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backends that can serve the FTP file system
const (
	BackendLocal  = "local"
	BackendMemory = "memory"
	BackendSFTP   = "sftp"
)

// User is a login added to the local user store
type User struct {
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	IPs      []string `yaml:"ips,omitempty"`
}

// SFTP is the remote server used by the sftp backend
type SFTP struct {
	Addr     string `yaml:"addr"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	KeyFile  string `yaml:"key_file"`
	HostKey  string `yaml:"host_key"` // authorized_keys format, empty skips the check
	Root     string `yaml:"root"`
}

// Config holds all configuration options of the server
type Config struct {
	Addr           string `yaml:"addr"`
	Root           string `yaml:"root"`
	Backend        string `yaml:"backend"`
	WelcomeMessage string `yaml:"welcome_message"`
	LogLevel       string `yaml:"log_level"`
	Users          []User `yaml:"users,omitempty"`
	SFTP           SFTP   `yaml:"sftp"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Addr:           ":21",
		Root:           "/static",
		Backend:        BackendLocal,
		WelcomeMessage: "Welcome to the FTP Server",
		LogLevel:       "info",
		SFTP: SFTP{
			Root: "/",
		},
	}
}

// Load loads the configuration. path is optional, when it is empty only the defaults and
// the environment are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, err
		}
	}
	cfg.loadFromEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadFromEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("FTP_SERVER_ADDR", &c.Addr)
	set("FTP_SERVER_ROOT", &c.Root)
	set("FTP_BACKEND", &c.Backend)
	set("FTP_WELCOME_MESSAGE", &c.WelcomeMessage)
	set("LOG_LEVEL", &c.LogLevel)
	set("SFTP_BACKEND_ADDR", &c.SFTP.Addr)
	set("SFTP_BACKEND_USER", &c.SFTP.User)
	set("SFTP_BACKEND_PASS", &c.SFTP.Password)
	set("SFTP_BACKEND_KEY_FILE", &c.SFTP.KeyFile)
	set("SFTP_BACKEND_HOST_KEY", &c.SFTP.HostKey)
	set("SFTP_BACKEND_ROOT", &c.SFTP.Root)

	// the default user is added to the users of the file
	var u User
	set("FTP_DEFAULT_USER", &u.Username)
	set("FTP_DEFAULT_PASS", &u.Password)
	if u.Username != "" {
		var ip string
		set("FTP_DEFAULT_IP", &ip)
		if ip != "" {
			u.IPs = strings.Split(ip, ",")
		}
		c.Users = append(c.Users, u)
	}
	c.Backend = strings.ToLower(c.Backend)
}

// Validate checks that the configuration can be used to start the server
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	switch c.Backend {
	case BackendLocal:
		if c.Root == "" {
			errs = append(errs, errors.New("root is required for the local backend"))
		}
	case BackendMemory:
	case BackendSFTP:
		if c.SFTP.Addr == "" {
			errs = append(errs, errors.New("sftp.addr is required for the sftp backend"))
		}
		if c.SFTP.User == "" {
			errs = append(errs, errors.New("sftp.user is required for the sftp backend"))
		}
		if c.SFTP.Password == "" && c.SFTP.KeyFile == "" {
			errs = append(errs, errors.New("sftp.password or sftp.key_file is required for the sftp backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	for i, u := range c.Users {
		if u.Username == "" {
			errs = append(errs, fmt.Errorf("users[%d]: username is required", i))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
