package domain

import "time"

// Mailbox is a registry entry for a temporary email account this tool has
// created or logged into. Credentials are never stored here; the password
// lives in the secret store under PasswordSecretRef.
type Mailbox struct {
	Address     string
	AccountID   string
	CreatedAt   time.Time
	LastLoginAt time.Time
}

// PasswordSecretRef returns the secret-store key holding the mailbox password.
func (m Mailbox) PasswordSecretRef() string {
	return "mailbox/" + m.Address + "/password"
}
