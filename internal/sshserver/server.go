// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"net"
	"os"
	"sync"
	"time"

	"github.com/gpskit/gpskit/internal/core/serverbase"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
)

const (
	// DefaultHost binds to loopback; remote exposure is an explicit choice.
	DefaultHost = HostAddress("127.0.0.1")
	// DefaultTokenTTL is how long issued tokens stay valid.
	DefaultTokenTTL = time.Hour
	// DefaultStartupTimeout bounds how long Start waits for readiness.
	DefaultStartupTimeout = 5 * time.Second
	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second
)

type (
	// Clock abstracts time for token expiry. Production code uses the real
	// clock; tests inject a fake to control expiration deterministically.
	Clock interface {
		Now() time.Time
	}

	// Config holds immutable configuration for the SSH server.
	Config struct {
		// Host is the address to bind to (default: 127.0.0.1).
		Host HostAddress
		// Port is the port to listen on (0 = auto-select).
		Port ListenPort
		// TokenTTL is how long issued tokens are valid (default: 1 hour).
		TokenTTL time.Duration
		// StartupTimeout is the max time to wait for the server to be
		// ready (default: 5s).
		StartupTimeout time.Duration
		// ShutdownTimeout is the timeout for graceful shutdown (default: 10s).
		ShutdownTimeout time.Duration
		// HostKeyPath, when set, persists the host key at this path so
		// reconnecting clients do not see a key change on every restart.
		// Empty means an ephemeral in-memory key.
		HostKeyPath string
		// Handler runs the operator workflow for each authenticated
		// session. Sessions on a server without a handler are refused.
		Handler SessionHandler
		// Logger receives structured server logs. Defaults to a stderr
		// logger with the "ssh-server" prefix.
		Logger *log.Logger
	}

	// Server is the SSH access server for the GPS workflow.
	// A Server instance is single-use: once stopped or failed, create a new one.
	Server struct {
		*serverbase.Base

		// Immutable configuration (set at creation, never modified)
		cfg Config

		// Initialized during Start(); srvMu guards writes.
		srvMu    sync.Mutex
		srv      *ssh.Server
		listener net.Listener
		addr     string // Actual bound address (including resolved port)

		// Token management
		tokens  map[TokenValue]*Token
		tokenMu sync.RWMutex

		clock  Clock
		logger *log.Logger
	}

	// realClock is the production Clock.
	realClock struct{}
)

func (realClock) Now() time.Time { return time.Now() }

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Host:            DefaultHost,
		Port:            0,
		TokenTTL:        DefaultTokenTTL,
		StartupTimeout:  DefaultStartupTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

// Validate checks the configuration. All field errors are collected into a
// single InvalidServerConfigError.
func (c Config) Validate() error {
	var fieldErrors []error
	if err := c.Host.Validate(); err != nil {
		fieldErrors = append(fieldErrors, err)
	}
	if err := c.Port.Validate(); err != nil {
		fieldErrors = append(fieldErrors, err)
	}
	if len(fieldErrors) > 0 {
		return &InvalidServerConfigError{FieldErrors: fieldErrors}
	}
	return nil
}

// New creates a new SSH server instance.
// The server is not started; call Start() to begin accepting connections.
func New(cfg Config) *Server {
	return NewWithClock(cfg, realClock{})
}

// NewWithClock creates a server with an injected clock.
func NewWithClock(cfg Config, clk Clock) *Server {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = DefaultStartupTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "ssh-server",
		})
	}

	return &Server{
		Base:   serverbase.NewBase(),
		cfg:    cfg,
		tokens: make(map[TokenValue]*Token),
		clock:  clk,
		logger: logger,
	}
}
