package mailtm

// The mail.tm API wraps collections in Hydra envelopes.

type domainEntry struct {
	Domain string `json:"domain"`
}

type domainsEnvelope struct {
	Members []domainEntry `json:"hydra:member"`
}

type accountPayload struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	Quota     int64  `json:"quota"`
	Used      int64  `json:"used"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type tokenPayload struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

type addressPayload struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type messageSummaryPayload struct {
	ID      string         `json:"id"`
	From    addressPayload `json:"from"`
	Subject string         `json:"subject"`
	Seen    bool           `json:"seen"`
}

type messagesEnvelope struct {
	Members []messageSummaryPayload `json:"hydra:member"`
	Total   int                     `json:"hydra:totalItems"`
}

type messagePayload struct {
	ID        string           `json:"id"`
	From      addressPayload   `json:"from"`
	To        []addressPayload `json:"to"`
	Subject   string           `json:"subject"`
	CreatedAt string           `json:"createdAt"`
	Text      string           `json:"text"`
	HTML      []string         `json:"html"`
}
