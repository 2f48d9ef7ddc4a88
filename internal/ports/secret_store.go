package ports

import "context"

// SecretStore is the durable key-value slot behind session persistence and
// saved mailbox passwords. Get returns an error wrapping
// domain.ErrSecretNotFound when the key has no record.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
