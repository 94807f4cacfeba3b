package screens

import (
	"context"
	"time"

	"instaclone/internal/client"
)

// FeedLimit is the size of the single page the feed and profile load
const FeedLimit = 20

type FeedScreen struct {
	env  *Env
	lc   *Lifecycle
	list postList
	now  func() time.Time
}

func NewFeedScreen(env *Env, session *client.Session, view PostsView) *FeedScreen {
	return &FeedScreen{
		env:  env,
		lc:   NewLifecycle(env.context()),
		list: postList{env: env, session: session, view: view},
		now:  time.Now,
	}
}

func (f *FeedScreen) Route() Route { return RouteFeed }
func (f *FeedScreen) Start()       { f.QueryPosts() }
func (f *FeedScreen) Stop()        { f.lc.Stop() }

func (f *FeedScreen) Posts() []client.Post      { return f.list.posts }
func (f *FeedScreen) Session() *client.Session { return f.list.session }

// QueryPosts loads the newest posts of everyone. A failure is logged and the shown list is kept.
func (f *FeedScreen) QueryPosts() {
	queryInto(f.lc, f.env, &f.list, client.PostQuery{Limit: FeedLimit})
}

// Refresh is the pull-to-refresh gesture
func (f *FeedScreen) Refresh() {
	f.list.view.SetRefreshing(true)
	f.QueryPosts()
}

func (f *FeedScreen) Toggle(i int) bool { return f.list.toggle(i) }

// Open pushes the detail screen for post i
func (f *FeedScreen) Open(i int) bool {
	post, ok := f.list.at(i)
	if !ok {
		return false
	}
	if err := openDetail(f.env, f.list.session, *post, f.now()); err != nil {
		f.env.logf("Issue with opening post %s: %v", post.ID, err)
		return false
	}
	return true
}

func queryInto(lc *Lifecycle, env *Env, list *postList, q client.PostQuery) {
	session := list.session
	runAsync(lc, env, func(ctx context.Context) ([]client.Post, error) {
		return env.Remote.QueryPosts(ctx, session, q)
	}, func(posts []client.Post, err error) {
		if err != nil {
			env.logf("Issue with getting posts %v", err)
			return
		}
		list.replace(posts)
		list.view.SetRefreshing(false)
	})
}
