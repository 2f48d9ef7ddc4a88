package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/bnema/mailtm-mcp/internal/adapters/mailtm"
	tomlrepo "github.com/bnema/mailtm-mcp/internal/adapters/repo/toml"
	filestore "github.com/bnema/mailtm-mcp/internal/adapters/secrets/file"
	"github.com/bnema/mailtm-mcp/internal/application"
	"github.com/bnema/mailtm-mcp/internal/ports"
)

type app struct {
	service  *application.Service
	sessions *application.SessionStore
	logger   *slog.Logger
}

func wireApp() (*app, error) {
	logger := newLogger()

	mailboxes, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire mailbox repository: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	secretsRoot := envOrDefault("MAILTM_SECRETS_PATH", filepath.Join(homeDir, ".mailtm", "secrets"))
	secrets := filestore.NewStore(secretsRoot)

	client := mailtm.New(
		mailtm.WithBaseURL(envOrDefault("MAILTM_BASE_URL", mailtm.DefaultBaseURL)),
	)

	sessions := application.NewSessionStore(secrets, logger)
	service := application.NewService(client, sessions, mailboxes, secrets, ports.SystemClock{}, logger)

	return &app{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}, nil
}

// newLogger writes structured logs to stderr; stdout stays reserved for
// command output and the MCP stdio transport.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("MAILTM_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
