package domain

// Session is the single credential set identifying the active mailbox.
// Token, AccountID and Address are either all set (authenticated) or all
// empty (unauthenticated); no operation leaves a partial session behind.
type Session struct {
	Token     string
	AccountID string
	Address   string
}

func (s Session) Active() bool {
	return s.Token != ""
}

// Merge overlays non-empty fields from other onto s. Used when restoring
// a persisted record over in-memory state.
func (s *Session) Merge(other Session) {
	if other.Token != "" {
		s.Token = other.Token
	}
	if other.AccountID != "" {
		s.AccountID = other.AccountID
	}
	if other.Address != "" {
		s.Address = other.Address
	}
}
