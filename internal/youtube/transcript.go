package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	videoIDPattern    = regexp.MustCompile(`(?:youtube\.com\/(?:[^\/]+\/.+\/|(?:v|e(?:mbed)?|shorts)\/|.*[?&]v=)|youtu\.be\/)([^"&?\/\s]{11})`)
	bareIDPattern     = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	transcriptPattern = regexp.MustCompile(`<text start="([^"]*)" dur="([^"]*)"[^>]*>([^<]*)<\/text>`)
	titlePattern      = regexp.MustCompile(`<title>(.+?) - YouTube</title>`)
)

var (
	ErrInvalidURL   = errors.New("invalid YouTube URL or video ID")
	ErrNoTranscript = errors.New("no transcript available for this video")
)

// maxPageBytes caps how much of a watch page or transcript is read.
const maxPageBytes = 8 << 20

// Segment is one caption line.
type Segment struct {
	Text     string  `json:"text"`
	Duration float64 `json:"duration"`
	Offset   float64 `json:"offset"`
}

// Transcript is the caption text of one video.
type Transcript struct {
	VideoID  string
	Title    string
	Segments []Segment
}

// Text joins every segment into one block of prose.
func (t *Transcript) Text() string {
	var b strings.Builder
	for i, s := range t.Segments {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// Client scrapes caption tracks from YouTube watch pages.
type Client struct {
	httpClient *http.Client
	watchURL   string // fmt pattern taking the video ID
}

// New returns a Client. A nil httpClient gets one with a 30s timeout.
func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient, watchURL: "https://www.youtube.com/watch?v=%s"}
}

// VideoID extracts the 11 character video ID from a URL, or accepts a bare ID.
func VideoID(videoURL string) (string, error) {
	videoURL = strings.TrimSpace(videoURL)
	if bareIDPattern.MatchString(videoURL) {
		return videoURL, nil
	}
	if m := videoIDPattern.FindStringSubmatch(videoURL); m != nil {
		return m[1], nil
	}
	return "", ErrInvalidURL
}

// GetTranscript fetches the transcript of videoURL in lang, or the first
// available track when lang is empty.
func (c *Client) GetTranscript(ctx context.Context, videoURL, lang string) (*Transcript, error) {
	videoID, err := VideoID(videoURL)
	if err != nil {
		return nil, err
	}

	page, err := c.get(ctx, fmt.Sprintf(c.watchURL, videoID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video page: %w", err)
	}

	t := &Transcript{VideoID: videoID}
	if m := titlePattern.FindStringSubmatch(page); m != nil {
		t.Title = html.UnescapeString(m[1])
	}

	trackURL, err := captionTrackURL(page, lang)
	if err != nil {
		log.Printf("DEBUG: No usable caption track for video %s: %v", videoID, err)
		return nil, err
	}

	body, err := c.get(ctx, trackURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}

	for _, m := range transcriptPattern.FindAllStringSubmatch(body, -1) {
		offset, _ := strconv.ParseFloat(m[1], 64)
		duration, _ := strconv.ParseFloat(m[2], 64)
		text := strings.TrimSpace(html.UnescapeString(html.UnescapeString(m[3])))
		if text == "" {
			continue
		}
		t.Segments = append(t.Segments, Segment{Text: text, Duration: duration, Offset: offset})
	}
	if len(t.Segments) == 0 {
		return nil, ErrNoTranscript
	}
	return t, nil
}

func captionTrackURL(page, lang string) (string, error) {
	_, after, found := strings.Cut(page, `"captions":`)
	if !found {
		return "", ErrNoTranscript
	}
	end := strings.Index(after, `,"videoDetails`)
	if end < 0 {
		return "", fmt.Errorf("%w: captions block not terminated", ErrNoTranscript)
	}

	var captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []struct {
				BaseURL      string `json:"baseUrl"`
				LanguageCode string `json:"languageCode"`
			} `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	}
	if err := json.Unmarshal([]byte(after[:end]), &captions); err != nil {
		return "", fmt.Errorf("failed to parse captions data: %w", err)
	}

	tracks := captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return "", ErrNoTranscript
	}
	if lang == "" {
		return tracks[0].BaseURL, nil
	}
	for _, track := range tracks {
		if track.LanguageCode == lang {
			return track.BaseURL, nil
		}
	}
	return "", fmt.Errorf("%w in language %s", ErrNoTranscript, lang)
}

func (c *Client) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
