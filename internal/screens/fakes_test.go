package screens

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/stretchr/testify/mock"

	"instaclone/internal/client"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) Login(ctx context.Context, username, password string) (*client.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Session), args.Error(1)
}

func (m *mockRemote) Register(ctx context.Context, username, password string) (*client.Session, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Session), args.Error(1)
}

func (m *mockRemote) Logout(ctx context.Context, s *client.Session) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockRemote) Me(ctx context.Context, s *client.Session) (*client.User, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.User), args.Error(1)
}

func (m *mockRemote) QueryPosts(ctx context.Context, s *client.Session, q client.PostQuery) ([]client.Post, error) {
	args := m.Called(ctx, s, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Post), args.Error(1)
}

func (m *mockRemote) SavePost(ctx context.Context, s *client.Session, p client.NewPost) (*client.Post, error) {
	args := m.Called(ctx, s, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Post), args.Error(1)
}

func (m *mockRemote) AddLike(ctx context.Context, s *client.Session, postID string) (*client.LikeResult, error) {
	args := m.Called(ctx, s, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.LikeResult), args.Error(1)
}

func (m *mockRemote) RemoveLike(ctx context.Context, s *client.Session, postID string) (*client.LikeResult, error) {
	args := m.Called(ctx, s, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.LikeResult), args.Error(1)
}

type memorySessions struct {
	session *client.Session
	saves   int
	cleared bool
}

func (m *memorySessions) Load() (*client.Session, error) { return m.session, nil }

func (m *memorySessions) Save(s *client.Session) error {
	m.session = s
	m.saves++
	return nil
}

func (m *memorySessions) Clear() error {
	m.session = nil
	m.cleared = true
	return nil
}

type recordingNav struct {
	pushed   []Destination
	replaced []Destination
	reset    []Destination
}

func (n *recordingNav) Push(d Destination)    { n.pushed = append(n.pushed, d) }
func (n *recordingNav) Replace(d Destination) { n.replaced = append(n.replaced, d) }
func (n *recordingNav) Reset(d Destination)   { n.reset = append(n.reset, d) }
func (n *recordingNav) Back() bool            { return false }

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(message string) { n.messages = append(n.messages, message) }

type postsView struct {
	shown      [][]client.Post
	shownLiked [][]bool
	rendered   []client.Post
	liked      []bool
	refreshing []bool
	header     []client.User
	counts     []int
}

func (v *postsView) ShowPosts(posts []client.Post, liked []bool) {
	v.shown = append(v.shown, posts)
	v.shownLiked = append(v.shownLiked, liked)
}

func (v *postsView) RenderPost(_ int, post client.Post, liked bool) {
	v.rendered = append(v.rendered, post)
	v.liked = append(v.liked, liked)
}

func (v *postsView) SetRefreshing(r bool) { v.refreshing = append(v.refreshing, r) }

func (v *postsView) ShowProfile(user client.User, count int) {
	v.header = append(v.header, user)
	v.counts = append(v.counts, count)
}

// deferred holds work and completions until flush, so a test can act between them
type deferred struct {
	mu    sync.Mutex
	queue []func()
}

func (d *deferred) Go(work func())       { d.push(work) }
func (d *deferred) Dispatch(task func()) { d.push(task) }

func (d *deferred) push(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, f)
}

func (d *deferred) flush() {
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			d.mu.Unlock()
			return
		}
		f := d.queue[0]
		d.queue = d.queue[1:]
		d.mu.Unlock()
		f()
	}
}

type fixture struct {
	env      *Env
	remote   *mockRemote
	sessions *memorySessions
	nav      *recordingNav
	notifier *recordingNotifier
}

func newFixture() *fixture {
	f := &fixture{
		remote:   new(mockRemote),
		sessions: &memorySessions{},
		nav:      &recordingNav{},
		notifier: &recordingNotifier{},
	}
	f.env = &Env{
		Ctx:      context.Background(),
		Remote:   f.remote,
		Sessions: f.sessions,
		Nav:      f.nav,
		Notifier: f.notifier,
		Exec:     Inline{},
		UI:       Inline{},
		Logger:   log.New(io.Discard, "", 0),
	}
	return f
}

func testSession() *client.Session {
	return &client.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         client.User{ID: "user-1", Username: "pablo"},
	}
}
