package screens

import (
	"context"
	"net/http"

	"instaclone/internal/client"
)

const (
	msgLoginFailed  = "Issue with login!"
	msgSignUpFailed = "Issue with sign up!"
	msgSuccess      = "Success!"
)

// Launch is the session gate. A persisted session is checked with the store first: a valid one
// goes straight to the feed and the credential screen never enters the stack. A session the store
// rejects is forgotten and the credential screen is shown. When the store cannot be reached the
// session is kept.
func Launch(env *Env) {
	session, err := env.Sessions.Load()
	if err != nil {
		env.logf("Issue with reading session: %v", err)
	}
	if session == nil {
		env.Nav.Replace(Destination{Route: RouteLogin})
		return
	}

	lc := NewLifecycle(env.context())
	runAsync(lc, env, func(ctx context.Context) (*client.User, error) {
		return env.Remote.Me(ctx, session)
	}, func(user *client.User, err error) {
		switch {
		case client.IsStatus(err, http.StatusUnauthorized):
			env.logf("Issue with session, signing out: %v", err)
			if err := env.Sessions.Clear(); err != nil {
				env.logf("Issue with clearing session: %v", err)
			}
			env.Nav.Replace(Destination{Route: RouteLogin})
			return
		case err != nil:
			env.logf("Issue with checking session %v", err)
		default:
			session.SetUser(*user)
			if err := env.Sessions.Save(session); err != nil {
				env.logf("Issue with saving session: %v", err)
			}
		}
		env.Nav.Replace(Destination{Route: RouteFeed, Session: session})
	})
}

type LoginScreen struct {
	env *Env
	lc  *Lifecycle
}

func NewLoginScreen(env *Env) *LoginScreen {
	return &LoginScreen{env: env, lc: NewLifecycle(env.context())}
}

func (s *LoginScreen) Route() Route { return RouteLogin }
func (s *LoginScreen) Start()       {}
func (s *LoginScreen) Stop()        { s.lc.Stop() }

func (s *LoginScreen) Login(username, password string) {
	s.authenticate(msgLoginFailed, func(ctx context.Context) (*client.Session, error) {
		return s.env.Remote.Login(ctx, username, password)
	})
}

func (s *LoginScreen) Register(username, password string) {
	s.authenticate(msgSignUpFailed, func(ctx context.Context) (*client.Session, error) {
		return s.env.Remote.Register(ctx, username, password)
	})
}

func (s *LoginScreen) authenticate(failure string, call func(ctx context.Context) (*client.Session, error)) {
	runAsync(s.lc, s.env, call, func(session *client.Session, err error) {
		if err != nil {
			s.env.logf("%s %v", failure, err)
			s.env.Notifier.Notify(failure)
			return
		}

		if err := s.env.Sessions.Save(session); err != nil {
			s.env.logf("Issue with saving session: %v", err)
		}
		s.env.Nav.Replace(Destination{Route: RouteFeed, Session: session})
		s.env.Notifier.Notify(msgSuccess)
	})
}
