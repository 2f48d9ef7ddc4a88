// Package mcpserver exposes the temporary-email operations as MCP tools
// over stdio. Every tool returns a single text block; errors never cross
// the tool boundary, they are logged and rendered as text instead.
package mcpserver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bnema/mailtm-mcp/internal/adapters/mailtm"
	"github.com/bnema/mailtm-mcp/internal/application"
	"github.com/bnema/mailtm-mcp/internal/domain"
)

type Server struct {
	service *application.Service
	logger  *slog.Logger
	server  *mcp.Server
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

func New(service *application.Service, version string, opts ...Option) *Server {
	s := &Server{
		service: service,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	impl := &mcp.Implementation{
		Name:    "mailtm",
		Version: version,
	}

	s.server = mcp.NewServer(impl, nil)
	s.registerTools()

	return s
}

// Run serves MCP on stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

type createTempEmailArgs struct {
	Address  string `json:"address,omitempty" jsonschema:"Full email address (user@domain). Empty picks a random address on the first available domain."`
	Password string `json:"password,omitempty" jsonschema:"Account password. Empty generates a random one."`
}

type loginArgs struct {
	Address  string `json:"address" jsonschema:"The email address"`
	Password string `json:"password" jsonschema:"The account password"`
}

type getInboxArgs struct {
	Page int `json:"page,omitempty" jsonschema:"Page number, default 1 (up to 30 messages per page)"`
}

type messageArgs struct {
	MessageID string `json:"message_id" jsonschema:"The message ID from get_inbox"`
}

type noArgs struct{}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_domains",
		Description: "List all available domains for creating temporary email addresses.",
	}, s.handleListDomains)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_temp_email",
		Description: "Create a new temporary email account on mail.tm. Stores the session so get_inbox, read_email, etc. work right away. Returns the address and password for later reuse with login.",
	}, s.handleCreateTempEmail)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "login",
		Description: "Log in to an existing mail.tm account. Stores the session so subsequent tool calls work without passing credentials.",
	}, s.handleLogin)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_inbox",
		Description: "List messages in the current inbox. Requires an active session (call create_temp_email or login first).",
	}, s.handleGetInbox)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_email",
		Description: "Read the full content of an email by its ID. Requires an active session.",
	}, s.handleReadEmail)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "mark_as_read",
		Description: "Mark an email as read. Requires an active session.",
	}, s.handleMarkAsRead)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_email",
		Description: "Delete an email message permanently. Requires an active session.",
	}, s.handleDeleteEmail)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_account_info",
		Description: "Get details about the currently logged-in account (address, quota, usage). Requires an active session.",
	}, s.handleGetAccountInfo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_account",
		Description: "Permanently delete the current account and all its messages. This cannot be undone. Clears the active session.",
	}, s.handleDeleteAccount)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "logout",
		Description: "Clear the current session. Does not delete the account; log back in later with login and the same credentials.",
	}, s.handleLogout)
}

// textResult wraps a string as the tool-call result. Tool handlers never
// return protocol-level errors; failures are rendered into the text.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

func (s *Server) handleListDomains(ctx context.Context, req *mcp.CallToolRequest, args noArgs) (*mcp.CallToolResult, any, error) {
	domains, err := s.service.ListDomains(ctx)
	if err != nil {
		s.logger.Error("list_domains failed", "error", err)
		return textResult(formatError("listing domains", err))
	}

	return textResult(formatDomains(domains))
}

func (s *Server) handleCreateTempEmail(ctx context.Context, req *mcp.CallToolRequest, args createTempEmailArgs) (*mcp.CallToolResult, any, error) {
	created, err := s.service.CreateTempEmail(ctx, args.Address, args.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAddressTaken):
			return textResult(formatAddressTaken(args.Address))
		case errors.Is(err, domain.ErrNoDomains):
			return textResult(noCreateDomainText)
		}
		s.logger.Error("create_temp_email failed", "error", err)
		return textResult(formatError("creating email", err))
	}

	return textResult(formatCreated(created.Address, created.Password, created.AccountID))
}

func (s *Server) handleLogin(ctx context.Context, req *mcp.CallToolRequest, args loginArgs) (*mcp.CallToolResult, any, error) {
	session, err := s.service.Login(ctx, args.Address, args.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return textResult("Login failed: invalid address or password.")
		}
		s.logger.Error("login failed", "error", err)
		return textResult(formatError("logging in", err))
	}

	return textResult(formatLoggedIn(session.Address))
}

func (s *Server) handleGetInbox(ctx context.Context, req *mcp.CallToolRequest, args getInboxArgs) (*mcp.CallToolResult, any, error) {
	inbox, err := s.service.GetInbox(ctx, args.Page)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return textResult(noSessionText)
		}
		s.logger.Error("get_inbox failed", "error", err)
		return textResult(formatError("fetching inbox", err))
	}

	return textResult(formatInbox(inbox))
}

func (s *Server) handleReadEmail(ctx context.Context, req *mcp.CallToolRequest, args messageArgs) (*mcp.CallToolResult, any, error) {
	detail, err := s.service.ReadEmail(ctx, args.MessageID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoSession):
			return textResult(noSessionText)
		case errors.Is(err, domain.ErrNotFound):
			return textResult(formatMessageNotFound(args.MessageID))
		}
		s.logger.Error("read_email failed", "error", err)
		return textResult(formatError("reading email", err))
	}

	return textResult(formatMessage(detail))
}

func (s *Server) handleMarkAsRead(ctx context.Context, req *mcp.CallToolRequest, args messageArgs) (*mcp.CallToolResult, any, error) {
	if err := s.service.MarkAsRead(ctx, args.MessageID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNoSession):
			return textResult(noSessionText)
		case errors.Is(err, domain.ErrNotFound):
			return textResult(formatMessageNotFound(args.MessageID))
		}
		s.logger.Error("mark_as_read failed", "error", err)
		return textResult(formatError("marking as read", err))
	}

	return textResult(formatMarkedRead(args.MessageID))
}

func (s *Server) handleDeleteEmail(ctx context.Context, req *mcp.CallToolRequest, args messageArgs) (*mcp.CallToolResult, any, error) {
	if err := s.service.DeleteEmail(ctx, args.MessageID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNoSession):
			return textResult(noSessionText)
		case errors.Is(err, domain.ErrNotFound):
			return textResult(formatMessageNotFound(args.MessageID))
		}
		s.logger.Error("delete_email failed", "error", err)
		return textResult(formatError("deleting email", err))
	}

	return textResult(formatDeleted(args.MessageID))
}

func (s *Server) handleGetAccountInfo(ctx context.Context, req *mcp.CallToolRequest, args noArgs) (*mcp.CallToolResult, any, error) {
	info, err := s.service.GetAccountInfo(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			return textResult(noSessionText)
		}
		s.logger.Error("get_account_info failed", "error", err)
		return textResult(formatError("getting account info", err))
	}

	return textResult(formatAccountInfo(info))
}

func (s *Server) handleDeleteAccount(ctx context.Context, req *mcp.CallToolRequest, args noArgs) (*mcp.CallToolResult, any, error) {
	address, err := s.service.DeleteAccount(ctx)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoSession):
			return textResult(noSessionText)
		case errors.Is(err, mailtm.ErrUnexpectedStatus):
			return textResult(deletionFailedText)
		}
		s.logger.Error("delete_account failed", "error", err)
		return textResult(formatError("deleting account", err))
	}

	return textResult(formatAccountDeleted(address))
}

func (s *Server) handleLogout(ctx context.Context, req *mcp.CallToolRequest, args noArgs) (*mcp.CallToolResult, any, error) {
	address := s.service.Logout(ctx)
	s.logger.Info("logged out", "address", orDefault(address, "unknown"))

	return textResult(formatLoggedOut(address))
}
