package screens

import (
	"context"
	"log"

	"instaclone/internal/client"
)

// Remote is the part of the store client the screens call
type Remote interface {
	Login(ctx context.Context, username, password string) (*client.Session, error)
	Register(ctx context.Context, username, password string) (*client.Session, error)
	Logout(ctx context.Context, s *client.Session) error
	Me(ctx context.Context, s *client.Session) (*client.User, error)
	QueryPosts(ctx context.Context, s *client.Session, q client.PostQuery) ([]client.Post, error)
	SavePost(ctx context.Context, s *client.Session, p client.NewPost) (*client.Post, error)
	AddLike(ctx context.Context, s *client.Session, postID string) (*client.LikeResult, error)
	RemoveLike(ctx context.Context, s *client.Session, postID string) (*client.LikeResult, error)
}

// Notifier shows short transient messages to the user
type Notifier interface {
	Notify(message string)
}

// Env is what every screen shares. It holds no per-screen state.
type Env struct {
	// Ctx outlives single screens. Like requests run on it so leaving a screen does not cancel them.
	Ctx      context.Context
	Remote   Remote
	Sessions client.SessionStore
	Nav      Navigator
	Notifier Notifier
	Exec     Executor
	UI       Dispatcher
	Logger   *log.Logger

	// like writes for one post reach the store in the order they were made
	likes keyedQueue
}

func (e *Env) context() context.Context {
	if e.Ctx == nil {
		return context.Background()
	}
	return e.Ctx
}

func (e *Env) logf(format string, args ...interface{}) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
