package whatsapp

// WebhookPayload is the inbound Cloud API webhook envelope, decoded only as
// deep as this bot needs: one text body per notification. Status-only
// notifications (sent/delivered/read receipts) decode with no messages.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Messages         []Message `json:"messages"`
}

type Message struct {
	From string `json:"from"`
	ID   string `json:"id"`
	Type string `json:"type"`
	Text *Text  `json:"text"`
}

type Text struct {
	Body string `json:"body"`
}

// TextBody extracts the first message's text body. ok is false for payloads
// that carry no text message, which includes all status notifications.
func (p *WebhookPayload) TextBody() (string, bool) {
	if p.Object == "" || len(p.Entry) == 0 {
		return "", false
	}
	if len(p.Entry[0].Changes) == 0 {
		return "", false
	}
	messages := p.Entry[0].Changes[0].Value.Messages
	if len(messages) == 0 || messages[0].Text == nil {
		return "", false
	}
	return messages[0].Text.Body, true
}
