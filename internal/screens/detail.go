package screens

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"instaclone/internal/client"
)

// Snapshot is the immutable view of one post handed to the detail screen
type Snapshot struct {
	Username     string
	PostImageURL string
	AvatarURL    string
	Description  string
	TimeStamp    string
	LikeCount    int
}

// NewSnapshot copies what the detail screen shows, the relative time is computed from now
func NewSnapshot(post client.Post, now time.Time) Snapshot {
	return Snapshot{
		Username:     post.Author.Username,
		PostImageURL: post.ImageURL,
		AvatarURL:    post.Author.AvatarURL,
		Description:  post.Description,
		TimeStamp:    RelativeTime(post.CreatedAt, now),
		LikeCount:    len(post.LikedBy),
	}
}

// RelativeTime renders t as "3 minutes ago" style text. A zero time renders as "".
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// LegacyTimeLayout is the textual date form older records carry, e.g. "Thu Jul 09 17:20:55 UTC 2020"
const LegacyTimeLayout = "Mon Jan 02 15:04:05 MST 2006"

// RelativeTimeAgo parses a LegacyTimeLayout string and renders it relative to now.
// Input that does not parse renders as "".
func RelativeTimeAgo(raw string, now time.Time) string {
	t, err := time.Parse(LegacyTimeLayout, raw)
	if err != nil {
		return ""
	}
	return RelativeTime(t, now)
}

// Caption is the "username description" line, the username drawn in bold
type Caption struct {
	Username    string
	Description string
}

func (c Caption) HTML() string {
	return fmt.Sprintf("<b>%s</b> %s", c.Username, c.Description)
}

// ANSI renders the caption for a terminal
func (c Caption) ANSI() string {
	return fmt.Sprintf("\x1b[1m%s\x1b[0m %s", c.Username, c.Description)
}

func (s Snapshot) Caption() Caption {
	return Caption{Username: s.Username, Description: s.Description}
}

// DetailView renders a snapshot. Empty image URLs are not shown.
type DetailView interface {
	ShowDetail(s Snapshot)
}

type DetailScreen struct {
	view     DetailView
	snapshot Snapshot
}

// NewDetailScreen decodes the navigation payload
func NewDetailScreen(view DetailView, payload []byte) (*DetailScreen, error) {
	var s Snapshot
	if _, err := s.UnmarshalMsg(payload); err != nil {
		return nil, fmt.Errorf("decode detail snapshot: %w", err)
	}
	return &DetailScreen{view: view, snapshot: s}, nil
}

func (d *DetailScreen) Route() Route       { return RouteDetail }
func (d *DetailScreen) Start()             { d.view.ShowDetail(d.snapshot) }
func (d *DetailScreen) Stop()              {}
func (d *DetailScreen) Snapshot() Snapshot { return d.snapshot }

// openDetail encodes the post and pushes the detail screen
func openDetail(env *Env, session *client.Session, post client.Post, now time.Time) error {
	snapshot := NewSnapshot(post, now)
	payload, err := snapshot.MarshalMsg(nil)
	if err != nil {
		return fmt.Errorf("encode detail snapshot: %w", err)
	}
	env.Nav.Push(Destination{Route: RouteDetail, Session: session, Payload: payload})
	return nil
}
