package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/bnema/mailtm-mcp/internal/adapters/mailtm"
	"github.com/bnema/mailtm-mcp/internal/domain"
	"github.com/bnema/mailtm-mcp/internal/ports"
)

const (
	randomLocalPartLength = 10
	randomPasswordLength  = 16

	localPartCharset = "abcdefghijklmnopqrstuvwxyz0123456789"
	passwordCharset  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%"
)

// CreatedEmail is the outcome of a successful account creation. The password
// is returned so the caller can reuse it with Login later.
type CreatedEmail struct {
	Address   string
	Password  string
	AccountID string
}

// Service implements the tool operations over the mail.tm client, the
// session store and the mailbox registry. Methods return typed results and
// sentinel-matchable errors; rendering them as user-facing text is the
// caller's concern.
type Service struct {
	client    *mailtm.Client
	sessions  *SessionStore
	mailboxes ports.MailboxRepository
	secrets   ports.SecretStore
	clock     ports.Clock
	logger    *slog.Logger
}

func NewService(
	client *mailtm.Client,
	sessions *SessionStore,
	mailboxes ports.MailboxRepository,
	secrets ports.SecretStore,
	clock ports.Clock,
	logger *slog.Logger,
) *Service {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		client:    client,
		sessions:  sessions,
		mailboxes: mailboxes,
		secrets:   secrets,
		clock:     clock,
		logger:    logger,
	}
}

// Sessions exposes the session store for callers that only need session state.
func (s *Service) Sessions() *SessionStore {
	return s.sessions
}

// ListDomains returns the domains available for new accounts.
func (s *Service) ListDomains(ctx context.Context) ([]string, error) {
	return s.client.Domains(ctx)
}

// CreateTempEmail registers a new account and activates its session. An
// empty address picks a random local part on the first available domain; an
// empty password generates a random one.
func (s *Service) CreateTempEmail(ctx context.Context, address, password string) (CreatedEmail, error) {
	if address == "" {
		domains, err := s.client.Domains(ctx)
		if err != nil {
			return CreatedEmail{}, fmt.Errorf("list domains: %w", err)
		}
		if len(domains) == 0 {
			return CreatedEmail{}, domain.ErrNoDomains
		}
		address = randomString(localPartCharset, randomLocalPartLength) + "@" + domains[0]
	}

	if password == "" {
		password = randomString(passwordCharset, randomPasswordLength)
	}

	if _, err := s.client.CreateAccount(ctx, address, password); err != nil {
		return CreatedEmail{}, fmt.Errorf("create account: %w", err)
	}

	token, accountID, err := s.client.Token(ctx, address, password)
	if err != nil {
		return CreatedEmail{}, fmt.Errorf("fetch token: %w", err)
	}

	s.sessions.Set(ctx, domain.Session{
		Token:     token,
		AccountID: accountID,
		Address:   address,
	})

	s.recordMailbox(ctx, address, accountID, password)

	return CreatedEmail{Address: address, Password: password, AccountID: accountID}, nil
}

// Login authenticates against an existing account and activates its session.
func (s *Service) Login(ctx context.Context, address, password string) (domain.Session, error) {
	token, accountID, err := s.client.Token(ctx, address, password)
	if err != nil {
		return domain.Session{}, fmt.Errorf("fetch token: %w", err)
	}

	session := domain.Session{
		Token:     token,
		AccountID: accountID,
		Address:   address,
	}
	s.sessions.Set(ctx, session)

	s.recordMailbox(ctx, address, accountID, "")

	return session, nil
}

// GetInbox lists one page of the active session's messages.
func (s *Service) GetInbox(ctx context.Context, page int) (domain.Inbox, error) {
	session, err := s.sessions.RequireActive(ctx)
	if err != nil {
		return domain.Inbox{}, err
	}

	if page < 1 {
		page = 1
	}

	messages, total, err := s.client.Messages(ctx, s.sessions.AuthHeader(ctx), page)
	if err != nil {
		return domain.Inbox{}, fmt.Errorf("list messages: %w", err)
	}

	return domain.Inbox{
		Address:  session.Address,
		Page:     page,
		Total:    total,
		Messages: messages,
	}, nil
}

// ReadEmail fetches the full content of one message.
func (s *Service) ReadEmail(ctx context.Context, messageID string) (domain.MessageDetail, error) {
	if _, err := s.sessions.RequireActive(ctx); err != nil {
		return domain.MessageDetail{}, err
	}

	detail, err := s.client.Message(ctx, s.sessions.AuthHeader(ctx), messageID)
	if err != nil {
		return domain.MessageDetail{}, fmt.Errorf("fetch message: %w", err)
	}

	return detail, nil
}

// MarkAsRead flags a message as seen.
func (s *Service) MarkAsRead(ctx context.Context, messageID string) error {
	if _, err := s.sessions.RequireActive(ctx); err != nil {
		return err
	}

	if err := s.client.MarkSeen(ctx, s.sessions.AuthHeader(ctx), messageID); err != nil {
		return fmt.Errorf("mark message seen: %w", err)
	}

	return nil
}

// DeleteEmail removes a message permanently.
func (s *Service) DeleteEmail(ctx context.Context, messageID string) error {
	if _, err := s.sessions.RequireActive(ctx); err != nil {
		return err
	}

	if err := s.client.DeleteMessage(ctx, s.sessions.AuthHeader(ctx), messageID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	return nil
}

// GetAccountInfo fetches the active session's account resource.
func (s *Service) GetAccountInfo(ctx context.Context) (domain.AccountInfo, error) {
	if _, err := s.sessions.RequireActive(ctx); err != nil {
		return domain.AccountInfo{}, err
	}

	info, err := s.client.Me(ctx, s.sessions.AuthHeader(ctx))
	if err != nil {
		return domain.AccountInfo{}, fmt.Errorf("fetch account: %w", err)
	}

	return info, nil
}

// DeleteAccount permanently removes the active account and clears the
// session. The returned address names the deleted account.
func (s *Service) DeleteAccount(ctx context.Context) (string, error) {
	session, err := s.sessions.RequireActive(ctx)
	if err != nil {
		return "", err
	}

	if err := s.client.DeleteAccount(ctx, s.sessions.AuthHeader(ctx), session.AccountID); err != nil {
		return "", fmt.Errorf("delete account: %w", err)
	}

	s.sessions.Clear(ctx)
	s.forgetMailbox(ctx, session.Address)

	return session.Address, nil
}

// Logout clears the session, active or not, and returns the address that was
// active, empty when there was none. It never fails.
func (s *Service) Logout(ctx context.Context) string {
	session := s.sessions.Current(ctx)
	s.sessions.Clear(ctx)

	return session.Address
}

// SavedPassword returns the password stored when a mailbox was generated,
// or domain.ErrSecretNotFound when none was kept.
func (s *Service) SavedPassword(ctx context.Context, address string) (string, error) {
	mailbox := domain.Mailbox{Address: address}
	return s.secrets.Get(ctx, mailbox.PasswordSecretRef())
}

// ListMailboxes returns the registry of known temporary accounts.
func (s *Service) ListMailboxes(ctx context.Context) ([]domain.Mailbox, error) {
	return s.mailboxes.List(ctx)
}

// recordMailbox upserts the registry entry for an account; password, when
// non-empty, is kept in the secret store so login can be replayed later.
// Registry failures never fail the operation that produced the session.
func (s *Service) recordMailbox(ctx context.Context, address, accountID, password string) {
	now := s.clock.Now()

	mailbox, err := s.mailboxes.GetByAddress(ctx, address)
	if err != nil {
		if !errors.Is(err, domain.ErrMailboxNotFound) {
			s.logger.Warn("could not read mailbox registry", "address", address, "error", err)
			return
		}
		mailbox = domain.Mailbox{Address: address, CreatedAt: now}
	}

	mailbox.AccountID = accountID
	mailbox.LastLoginAt = now

	if err := s.mailboxes.Save(ctx, mailbox); err != nil {
		s.logger.Warn("could not record mailbox", "address", address, "error", err)
		return
	}

	if password != "" {
		if err := s.secrets.Put(ctx, mailbox.PasswordSecretRef(), password); err != nil {
			s.logger.Warn("could not store mailbox password", "address", address, "error", err)
		}
	}
}

func (s *Service) forgetMailbox(ctx context.Context, address string) {
	mailbox := domain.Mailbox{Address: address}
	if err := s.secrets.Delete(ctx, mailbox.PasswordSecretRef()); err != nil {
		s.logger.Warn("could not delete mailbox password", "address", address, "error", err)
	}
	if err := s.mailboxes.Delete(ctx, address); err != nil {
		s.logger.Warn("could not remove mailbox from registry", "address", address, "error", err)
	}
}

func randomString(charset string, length int) string {
	out := make([]byte, length)
	for i := range out {
		out[i] = charset[rand.IntN(len(charset))]
	}
	return string(out)
}
