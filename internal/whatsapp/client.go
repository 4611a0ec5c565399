// Package whatsapp is the WhatsApp Cloud API adapter: the outbound text
// client and the inbound webhook envelope types.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// SendErrorKind classifies an outbound send failure.
type SendErrorKind string

const (
	KindTimeout        SendErrorKind = "timeout"
	KindTransportError SendErrorKind = "transport_error"
	KindRemoteRejected SendErrorKind = "remote_rejected"
)

// SendError is a failed SendText. StatusCode is set only for
// KindRemoteRejected.
type SendError struct {
	Kind       SendErrorKind
	StatusCode int
	Err        error
}

func (e *SendError) Error() string {
	if e.Kind == KindRemoteRejected {
		return fmt.Sprintf("whatsapp send rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("whatsapp send failed (%s): %v", e.Kind, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

const sendTimeout = 10 * time.Second

type Client struct {
	httpClient    *http.Client
	accessToken   string
	phoneNumberID string
	version       string
	baseURL       string
}

func New(accessToken, phoneNumberID, version string) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: sendTimeout},
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		version:       version,
		baseURL:       "https://graph.facebook.com",
	}
}

// SetBaseURL points the client at a different Graph API host. Used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// textMessage is the Cloud API text message envelope.
type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// SendText delivers one plain-text message to a recipient. Failures come
// back as *SendError; the caller decides whether to log or surface them.
func (c *Client) SendText(ctx context.Context, recipient, body string) error {
	payload, err := json.Marshal(textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               recipient,
		Type:             "text",
		Text:             textBody{PreviewURL: false, Body: body},
	})
	if err != nil {
		return &SendError{Kind: KindTransportError, Err: err}
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.version, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &SendError{Kind: KindTransportError, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return &SendError{Kind: KindTimeout, Err: err}
		}
		return &SendError{Kind: KindTransportError, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &SendError{Kind: KindRemoteRejected, StatusCode: resp.StatusCode}
	}
	return nil
}
