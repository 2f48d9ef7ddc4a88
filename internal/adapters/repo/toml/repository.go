// Package toml stores the mailbox registry, the record of temporary
// accounts this tool has created or logged into, as a TOML file replaced
// atomically on every write.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/mailtm-mcp/internal/domain"
	"github.com/bnema/mailtm-mcp/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName          = "config"
	configType          = "toml"
	mailboxesPathKey    = "mailboxes.path"
	mailboxesFileMode   = 0o600
	mailboxesDirMode    = 0o700
	mailboxesConfigDir  = ".mailtm"
	mailboxesConfigFile = "mailboxes.toml"
	tempFilePattern     = ".mailboxes-*.toml.tmp"
)

type Repository struct {
	mailboxesPath string
	mu            *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.MailboxRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	defaultPath := filepath.Join(homeDir, mailboxesConfigDir, mailboxesConfigFile)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, mailboxesConfigDir))
	cfg.SetDefault(mailboxesPathKey, defaultPath)

	err = cfg.ReadInConfig()
	if err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	mailboxesPath := cfg.GetString(mailboxesPathKey)
	if mailboxesPath == "" {
		return nil, errors.New("mailboxes path is empty")
	}
	mailboxesPath, err = normalizePath(mailboxesPath)
	if err != nil {
		return nil, err
	}

	return &Repository{mailboxesPath: mailboxesPath, mu: lockForPath(mailboxesPath)}, nil
}

func (r *Repository) Save(ctx context.Context, mailbox domain.Mailbox) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	encoded := toSchema(mailbox)
	updated := false
	for i := range file.Mailboxes {
		if file.Mailboxes[i].Address == encoded.Address {
			file.Mailboxes[i] = encoded
			updated = true
			break
		}
	}

	if !updated {
		file.Mailboxes = append(file.Mailboxes, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) GetByAddress(ctx context.Context, address string) (domain.Mailbox, error) {
	if err := ctx.Err(); err != nil {
		return domain.Mailbox{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Mailbox{}, err
	}
	file.applyDefaults()

	for _, entry := range file.Mailboxes {
		if entry.Address == address {
			return fromSchema(entry), nil
		}
	}

	return domain.Mailbox{}, domain.ErrMailboxNotFound
}

func (r *Repository) List(ctx context.Context) ([]domain.Mailbox, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}
	file.applyDefaults()

	mailboxes := make([]domain.Mailbox, 0, len(file.Mailboxes))
	for _, entry := range file.Mailboxes {
		mailboxes = append(mailboxes, fromSchema(entry))
	}

	return mailboxes, nil
}

func (r *Repository) Delete(ctx context.Context, address string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}
	file.applyDefaults()

	kept := file.Mailboxes[:0]
	for _, entry := range file.Mailboxes {
		if entry.Address != address {
			kept = append(kept, entry)
		}
	}
	file.Mailboxes = kept

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.mailboxesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read mailboxes file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode mailboxes file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.mailboxesPath), mailboxesDirMode); err != nil {
		return fmt.Errorf("create mailboxes directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode mailboxes file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.mailboxesPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp mailboxes file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp mailboxes file: %w", err)
	}

	if err := tempFile.Chmod(mailboxesFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp mailboxes file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp mailboxes file: %w", err)
	}

	if err := os.Rename(tempName, r.mailboxesPath); err != nil {
		return fmt.Errorf("replace mailboxes file: %w", err)
	}

	cleanup = false

	if err := os.Chmod(r.mailboxesPath, mailboxesFileMode); err != nil {
		return fmt.Errorf("chmod mailboxes file: %w", err)
	}

	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve mailboxes path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(mailbox domain.Mailbox) mailboxSchema {
	return mailboxSchema{
		Address:     mailbox.Address,
		AccountID:   mailbox.AccountID,
		CreatedAt:   formatTime(mailbox.CreatedAt),
		LastLoginAt: formatTime(mailbox.LastLoginAt),
	}
}

func fromSchema(entry mailboxSchema) domain.Mailbox {
	return domain.Mailbox{
		Address:     entry.Address,
		AccountID:   entry.AccountID,
		CreatedAt:   parseTime(entry.CreatedAt),
		LastLoginAt: parseTime(entry.LastLoginAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
