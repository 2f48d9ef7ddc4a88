package mcpserver

import (
	"fmt"
	"strings"

	"github.com/bnema/mailtm-mcp/internal/domain"
)

// The strings below are the tool-call contract: text-oriented callers match
// on them, so they are kept stable and tested verbatim.

const (
	noSessionText      = "No active session. Use create_temp_email or login first."
	noDomainsText      = "No domains available at the moment."
	noCreateDomainText = "No domains available to create an account."
	deletionFailedText = "Account deletion failed."

	rule = "------------------------------------------------------------"
)

func formatDomains(domains []string) string {
	if len(domains) == 0 {
		return noDomainsText
	}

	lines := make([]string, 0, len(domains)+1)
	lines = append(lines, "Available domains:")
	for _, d := range domains {
		lines = append(lines, "  - "+d)
	}

	return strings.Join(lines, "\n")
}

func formatCreated(address, password, accountID string) string {
	return fmt.Sprintf(
		"Temporary email created!\nAddress:  %s\nPassword: %s\nAccount ID: %s\n\nSession is active. Use get_inbox() to check messages.",
		address, password, accountID,
	)
}

func formatLoggedIn(address string) string {
	return fmt.Sprintf("Logged in as %s. Session active.", address)
}

func formatInbox(inbox domain.Inbox) string {
	if len(inbox.Messages) == 0 {
		return fmt.Sprintf("Inbox is empty for %s.", inbox.Address)
	}

	lines := []string{
		fmt.Sprintf("Inbox: %s | %d message(s) total | Page %d", inbox.Address, inbox.Total, inbox.Page),
		rule,
	}
	for _, m := range inbox.Messages {
		status := "UNREAD"
		if m.Seen {
			status = "read"
		}
		lines = append(lines,
			fmt.Sprintf("[%s] %s", status, orDefault(m.Subject, "(no subject)")),
			"  From: "+orDefault(m.From, "unknown"),
			"  ID:   "+m.ID,
			"",
		)
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func formatMessage(detail domain.MessageDetail) string {
	return fmt.Sprintf(
		"From:    %s\nTo:      %s\nSubject: %s\nDate:    %s\nID:      %s\n%s\n%s",
		detail.From,
		strings.Join(detail.To, ", "),
		orDefault(detail.Subject, "(no subject)"),
		detail.CreatedAt,
		detail.ID,
		rule,
		detail.Body,
	)
}

func formatMarkedRead(messageID string) string {
	return fmt.Sprintf("Message '%s' marked as read.", messageID)
}

func formatDeleted(messageID string) string {
	return fmt.Sprintf("Message '%s' deleted.", messageID)
}

func formatMessageNotFound(messageID string) string {
	return fmt.Sprintf("Message '%s' not found.", messageID)
}

func formatAddressTaken(address string) string {
	return fmt.Sprintf("Error: Address '%s' is already taken or invalid. Try a different one.", address)
}

func formatAccountInfo(info domain.AccountInfo) string {
	return fmt.Sprintf(
		"Account:  %s\nID:       %s\nStorage:  %d / %d bytes (%.1f%% used)\nCreated:  %s\nUpdated:  %s",
		orDefault(info.Address, "N/A"),
		orDefault(info.ID, "N/A"),
		info.Used,
		info.Quota,
		info.UsedPercent(),
		orDefault(info.CreatedAt, "N/A"),
		orDefault(info.UpdatedAt, "N/A"),
	)
}

func formatAccountDeleted(address string) string {
	return fmt.Sprintf("Account '%s' permanently deleted. Session cleared.", address)
}

func formatLoggedOut(address string) string {
	return fmt.Sprintf("Logged out. Session for '%s' cleared.", orDefault(address, "unknown"))
}

func formatError(action string, err error) string {
	return fmt.Sprintf("Error %s: %v", action, err)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
