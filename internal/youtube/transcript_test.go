package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://www.youtube.com/watch?list=PL1&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"https://example.com/video", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := VideoID(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newTestServer(t *testing.T, captions string) *Client {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		body := captions
		if body == "" {
			body = fmt.Sprintf(`{"playerCaptionsTracklistRenderer":{"captionTracks":[`+
				`{"baseUrl":"%s/timedtext?lang=fr","languageCode":"fr"},`+
				`{"baseUrl":"%s/timedtext?lang=en","languageCode":"en"}]}}`, srv.URL, srv.URL)
		}
		fmt.Fprintf(w, `<html><title>Intro to Stacks &amp; Queues - YouTube</title>`+
			`<script>var ytInitialPlayerResponse = {"captions":%s,"videoDetails":{}}</script></html>`, body)
	})
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lang") == "fr" {
			fmt.Fprint(w, `<transcript><text start="0" dur="1">Bonjour</text></transcript>`)
			return
		}
		fmt.Fprint(w, `<transcript><text start="0.5" dur="2.1">A stack is last in, first out.</text>`+
			`<text start="2.6" dur="1.9">It&amp;#39;s used for undo.</text><text start="4" dur="1"> </text></transcript>`)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := New(srv.Client())
	c.watchURL = srv.URL + "/watch?v=%s"
	return c
}

func TestGetTranscript(t *testing.T) {
	c := newTestServer(t, "")

	tr, err := c.GetTranscript(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "en")
	require.NoError(t, err)

	assert.Equal(t, "dQw4w9WgXcQ", tr.VideoID)
	assert.Equal(t, "Intro to Stacks & Queues", tr.Title)
	require.Len(t, tr.Segments, 2)
	assert.Equal(t, 2.6, tr.Segments[1].Offset)
	assert.Equal(t, "A stack is last in, first out. It's used for undo.", tr.Text())
}

func TestGetTranscript_DefaultTrack(t *testing.T) {
	c := newTestServer(t, "")
	tr, err := c.GetTranscript(context.Background(), "dQw4w9WgXcQ", "")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", tr.Text())
}

func TestGetTranscript_MissingLanguage(t *testing.T) {
	c := newTestServer(t, "")
	_, err := c.GetTranscript(context.Background(), "dQw4w9WgXcQ", "de")
	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestGetTranscript_NoTracks(t *testing.T) {
	c := newTestServer(t, `{"playerCaptionsTracklistRenderer":{"captionTracks":[]}}`)
	_, err := c.GetTranscript(context.Background(), "dQw4w9WgXcQ", "")
	assert.ErrorIs(t, err, ErrNoTranscript)
}
