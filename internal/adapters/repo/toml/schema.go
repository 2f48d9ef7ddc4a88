package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int             `toml:"version"`
	Mailboxes []mailboxSchema `toml:"mailboxes"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported mailboxes schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type mailboxSchema struct {
	Address     string `toml:"address"`
	AccountID   string `toml:"account_id"`
	CreatedAt   string `toml:"created_at"`
	LastLoginAt string `toml:"last_login_at,omitempty"`
}
