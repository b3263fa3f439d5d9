package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordNotify(t *testing.T) {
	var (
		mu       sync.Mutex
		payloads []WebhookPayload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p WebhookPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		mu.Lock()
		payloads = append(payloads, p)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	d := NewDiscord(srv.URL)
	d.Notify(Embed{Title: "New upload", Color: ColorSuccess})
	d.Notify(Embed{Title: "API Error", Color: ColorError})
	d.Wait()

	require.Len(t, payloads, 2)
	for _, p := range payloads {
		assert.Equal(t, "BrainiFi Notifier", p.Username)
		require.Len(t, p.Embeds, 1)
		assert.NotEmpty(t, p.Embeds[0].Timestamp)
	}
}

func TestDiscordSend_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad webhook", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewDiscord(srv.URL).Send(context.Background(), Embed{Title: "x"})
	assert.ErrorContains(t, err, "status 400")
}

func TestDiscordDisabled(t *testing.T) {
	var nilDiscord *Discord
	nilDiscord.Notify(Embed{Title: "ignored"})
	nilDiscord.Wait()
	assert.NoError(t, nilDiscord.Send(context.Background(), Embed{}))

	d := NewDiscord("")
	d.Notify(Embed{Title: "ignored"})
	d.Wait()
	assert.NoError(t, d.Send(context.Background(), Embed{}))
}
