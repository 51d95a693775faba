package extract

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// captions fetches the English caption track of a YouTube video through the
// public timedtext endpoint and joins the cue texts with spaces.
func (e *Extractor) captions(ctx context.Context, videoURL string) (string, error) {
	id, err := videoID(videoURL)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("https://video.google.com/timedtext?lang=en&v=%s", url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := e.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption fetch returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", err
	}
	return parseTimedText(body)
}

type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

func parseTimedText(body []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse captions: %w", err)
	}
	if len(tt.Texts) == 0 {
		return "", errors.New("video has no English captions")
	}

	parts := make([]string, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		s := strings.TrimSpace(html.UnescapeString(t.Value))
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " "), nil
}

// videoID pulls the 11-character video identifier out of the common
// YouTube URL shapes (watch, youtu.be, shorts, embed) or accepts a bare ID.
func videoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty video URL")
	}

	u, err := url.Parse(raw)
	if err == nil && u.Host != "" {
		host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
		switch host {
		case "youtu.be":
			if id := strings.Trim(u.Path, "/"); id != "" {
				return id, nil
			}
		case "youtube.com", "m.youtube.com", "music.youtube.com":
			if id := u.Query().Get("v"); id != "" {
				return id, nil
			}
			for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
				if strings.HasPrefix(u.Path, prefix) {
					if id := strings.Trim(strings.TrimPrefix(u.Path, prefix), "/"); id != "" {
						return id, nil
					}
				}
			}
		}
		return "", fmt.Errorf("unrecognized video URL %q", raw)
	}

	// Bare ID: no scheme, no slashes.
	if !strings.ContainsAny(raw, "/?&= ") {
		return raw, nil
	}
	return "", fmt.Errorf("unrecognized video URL %q", raw)
}
