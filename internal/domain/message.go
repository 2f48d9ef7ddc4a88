package domain

// MessageSummary is one entry of an inbox listing.
type MessageSummary struct {
	ID      string
	From    string
	Subject string
	Seen    bool
}

// Inbox is one page of an account's message listing.
type Inbox struct {
	Address  string
	Page     int
	Total    int
	Messages []MessageSummary
}

// MessageDetail is the full content of a single message.
type MessageDetail struct {
	ID        string
	From      string
	To        []string
	Subject   string
	CreatedAt string
	Body      string
}

// AccountInfo is a read-only projection of the remote account resource.
type AccountInfo struct {
	ID        string
	Address   string
	Quota     int64
	Used      int64
	CreatedAt string
	UpdatedAt string
}

// UsedPercent returns storage usage as a percentage, 0 when the quota is 0.
func (a AccountInfo) UsedPercent() float64 {
	if a.Quota == 0 {
		return 0
	}
	return float64(a.Used) / float64(a.Quota) * 100
}
