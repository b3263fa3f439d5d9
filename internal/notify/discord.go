package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// Embed colours.
const (
	ColorError   = 0xFF0000
	ColorSuccess = 0x00FF00
	ColorInfo    = 0x3498DB
)

// Discord Embed Structures (based on documentation)
type EmbedFooter struct {
	Text    string `json:"text,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

type EmbedAuthor struct {
	Name    string `json:"name,omitempty"`
	URL     string `json:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"` // ISO8601 timestamp
	Color       int          `json:"color,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Author      *EmbedAuthor `json:"author,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

// WebhookPayload is the structure Discord expects for webhook requests with embeds
type WebhookPayload struct {
	Username string  `json:"username,omitempty"`
	Content  string  `json:"content,omitempty"`
	Embeds   []Embed `json:"embeds"`
}

// Discord posts embeds to a webhook. The zero value and a nil *Discord are
// valid no-op notifiers.
type Discord struct {
	webhookURL string
	client     *http.Client
	username   string
	wg         sync.WaitGroup
}

// NewDiscord returns a notifier for webhookURL; an empty URL disables it.
func NewDiscord(webhookURL string) *Discord {
	if webhookURL == "" {
		log.Println("WARN: DISCORD_WEBHOOK_URL not set, Discord notifications disabled.")
	}
	return &Discord{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 5 * time.Second},
		username:   "BrainiFi Notifier",
	}
}

// Notify sends embed in the background so the request path never waits on Discord.
func (d *Discord) Notify(embed Embed) {
	if d == nil || d.webhookURL == "" {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := d.Send(ctx, embed); err != nil {
			log.Printf("ERROR: Failed to send Discord embed notification: %v", err)
			return
		}
		log.Printf("INFO: Sent Discord embed notification: %s", embed.Title)
	}()
}

// Send posts embed and waits for Discord to answer.
func (d *Discord) Send(ctx context.Context, embed Embed) error {
	if d == nil || d.webhookURL == "" {
		return nil
	}
	if embed.Timestamp == "" {
		embed.Timestamp = time.Now().Format(time.RFC3339)
	}

	payload, err := json.Marshal(WebhookPayload{Username: d.username, Embeds: []Embed{embed}})
	if err != nil {
		return fmt.Errorf("marshal Discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create Discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("discord returned status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// Wait blocks until every notification started with Notify has finished.
func (d *Discord) Wait() {
	if d != nil {
		d.wg.Wait()
	}
}
