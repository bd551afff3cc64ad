package model

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// Video ID errors.
var (
	// ErrEmptyVideoID is returned when the video ID is empty.
	ErrEmptyVideoID = errors.New("video ID cannot be empty")
	// ErrInvalidVideoID is returned when no video ID can be extracted from the input.
	ErrInvalidVideoID = errors.New("invalid video ID: expected an 11-character ID or a YouTube URL")
)

// videoIDPattern matches a bare YouTube video ID.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseVideoID extracts a video ID from a bare ID or a YouTube URL.
//
// Accepted URL forms:
//   - https://www.youtube.com/watch?v=ID
//   - https://youtu.be/ID
//   - https://www.youtube.com/shorts/ID
//   - https://www.youtube.com/embed/ID
func ParseVideoID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrEmptyVideoID
	}
	if videoIDPattern.MatchString(s) {
		return s, nil
	}

	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", ErrInvalidVideoID
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var candidate string
	switch host {
	case "youtu.be":
		candidate = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com":
		if v := u.Query().Get("v"); v != "" {
			candidate = v
			break
		}
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				candidate = strings.Trim(strings.TrimPrefix(u.Path, prefix), "/")
				break
			}
		}
	}

	if !videoIDPattern.MatchString(candidate) {
		return "", ErrInvalidVideoID
	}
	return candidate, nil
}
