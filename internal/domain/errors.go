package domain

import "errors"

var (
	ErrNoSession          = errors.New("no active session")
	ErrNotFound           = errors.New("resource not found")
	ErrAddressTaken       = errors.New("address already taken or invalid")
	ErrInvalidCredentials = errors.New("invalid address or password")
	ErrRateLimited        = errors.New("rate limit exceeded")
	ErrNoDomains          = errors.New("no domains available")
	ErrMailboxNotFound    = errors.New("mailbox not found")
	ErrSecretNotFound     = errors.New("secret not found")
)
