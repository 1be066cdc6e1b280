package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ryantanww/MovAI/config"
)

// Intent is one classified intent of a message.
type Intent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Entity is one extracted entity value.
type Entity struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Understanding is the Wit.ai reading of a message. Intents come sorted by
// confidence; entities are keyed "<name>:<role>".
type Understanding struct {
	Text     string              `json:"text"`
	Intents  []Intent            `json:"intents"`
	Entities map[string][]Entity `json:"entities"`
}

// TopIntent returns the name of the most confident intent, or "".
func (u *Understanding) TopIntent() string {
	if len(u.Intents) == 0 {
		return ""
	}
	return u.Intents[0].Name
}

// Interpreter classifies a free-text message.
type Interpreter interface {
	Interpret(ctx context.Context, message string) (*Understanding, error)
}

// WitClient calls the Wit.ai message endpoint.
type WitClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewWitClient creates a Wit.ai client. cfg.BaseURL is the full message
// endpoint; cfg.APIKey is sent as a bearer token.
func NewWitClient(cfg *config.ChatConfig) *WitClient {
	return &WitClient{
		endpoint: cfg.BaseURL,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
}

// Interpret sends message as the q parameter and decodes the answer.
func (c *WitClient) Interpret(ctx context.Context, message string) (*Understanding, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+url.Values{"q": {message}}.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build wit request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wit request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("wit request: unexpected status %d", resp.StatusCode)
	}
	var u Understanding
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode wit response: %w", err)
	}
	return &u, nil
}
