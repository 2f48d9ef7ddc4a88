package ports

import (
	"context"

	"github.com/bnema/mailtm-mcp/internal/domain"
)

type MailboxRepository interface {
	GetByAddress(ctx context.Context, address string) (domain.Mailbox, error)
	List(ctx context.Context) ([]domain.Mailbox, error)
	Save(ctx context.Context, mailbox domain.Mailbox) error
	Delete(ctx context.Context, address string) error
}
