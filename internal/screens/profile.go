package screens

import (
	"context"
	"time"

	"instaclone/internal/client"
)

type ProfileView interface {
	PostsView
	// ShowProfile renders the header. An empty AvatarURL means no avatar.
	ShowProfile(user client.User, postCount int)
}

type ProfileScreen struct {
	env  *Env
	lc   *Lifecycle
	view ProfileView
	list postList
	now  func() time.Time
}

func NewProfileScreen(env *Env, session *client.Session, view ProfileView) *ProfileScreen {
	return &ProfileScreen{
		env:  env,
		lc:   NewLifecycle(env.context()),
		view: view,
		list: postList{env: env, session: session, view: view},
		now:  time.Now,
	}
}

func (p *ProfileScreen) Route() Route { return RouteProfile }

func (p *ProfileScreen) Start() {
	p.view.ShowProfile(p.list.session.CurrentUser(), len(p.list.posts))
	p.QueryOwnPosts()
}

func (p *ProfileScreen) Stop() { p.lc.Stop() }

func (p *ProfileScreen) Posts() []client.Post      { return p.list.posts }
func (p *ProfileScreen) Session() *client.Session { return p.list.session }

// QueryOwnPosts loads the newest posts authored by the session user
func (p *ProfileScreen) QueryOwnPosts() {
	session := p.list.session
	q := client.PostQuery{AuthorID: session.UserID(), Limit: FeedLimit}
	runAsync(p.lc, p.env, func(ctx context.Context) ([]client.Post, error) {
		return p.env.Remote.QueryPosts(ctx, session, q)
	}, func(posts []client.Post, err error) {
		if err != nil {
			p.env.logf("Issue with getting posts %v", err)
			return
		}
		p.list.replace(posts)
		p.view.SetRefreshing(false)
		p.view.ShowProfile(profileUser(session, posts), len(posts))
	})
}

func (p *ProfileScreen) Refresh() {
	p.view.SetRefreshing(true)
	p.QueryOwnPosts()
}

func (p *ProfileScreen) Toggle(i int) bool { return p.list.toggle(i) }

func (p *ProfileScreen) Open(i int) bool {
	post, ok := p.list.at(i)
	if !ok {
		return false
	}
	if err := openDetail(p.env, p.list.session, *post, p.now()); err != nil {
		p.env.logf("Issue with opening post %s: %v", post.ID, err)
		return false
	}
	return true
}

// Logout forgets the persisted session and returns to the credential screen at once.
// The remote session is ended in the background on the app context, a failure is only logged.
func (p *ProfileScreen) Logout() {
	session := p.list.session
	if err := p.env.Sessions.Clear(); err != nil {
		p.env.logf("Issue with clearing session: %v", err)
	}

	ctx := p.env.context()
	p.env.Exec.Go(func() {
		if err := p.env.Remote.Logout(ctx, session); err != nil {
			p.env.logf("Issue with logout %v", err)
		}
	})

	p.env.Nav.Reset(Destination{Route: RouteLogin})
}

// profileUser prefers the session user and fills a missing avatar from the loaded posts
func profileUser(session *client.Session, posts []client.Post) client.User {
	user := session.CurrentUser()
	if user.AvatarURL == "" && len(posts) > 0 && posts[0].Author.ID == user.ID {
		user.AvatarURL = posts[0].Author.AvatarURL
	}
	return user
}
