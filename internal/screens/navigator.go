package screens

import (
	"fmt"
	"sync"

	"instaclone/internal/client"
)

type Route string

const (
	RouteLogin   Route = "login"
	RouteFeed    Route = "feed"
	RouteDetail  Route = "detail"
	RouteCompose Route = "compose"
	RouteProfile Route = "profile"
)

// Destination is where to go next. Session travels explicitly, Payload carries encoded arguments.
type Destination struct {
	Route   Route
	Session *client.Session
	Payload []byte
}

type Navigator interface {
	// Push shows d on top of the current screen
	Push(d Destination)
	// Replace finishes the current screen and shows d in its place
	Replace(d Destination)
	// Reset finishes every screen and shows d as the only one
	Reset(d Destination)
	// Back finishes the top screen. It reports false when nothing is left to go back to.
	Back() bool
}

// Screen is a node of the navigation stack
type Screen interface {
	Route() Route
	Start()
	Stop()
}

// Builder creates a screen for a destination
type Builder func(d Destination) (Screen, error)

// Stack is the Navigator used by the app. Methods are expected to run on the UI loop.
type Stack struct {
	mu      sync.Mutex
	build   Builder
	screens []Screen

	// OnChange is called with the new top screen after every transition
	OnChange func(top Screen)
	// OnError is called when a destination cannot be built
	OnError func(d Destination, err error)
}

func NewStack(build Builder) *Stack {
	return &Stack{build: build}
}

func (s *Stack) Top() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.screens) == 0 {
		return nil
	}
	return s.screens[len(s.screens)-1]
}

func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.screens)
}

func (s *Stack) Push(d Destination) {
	s.navigate(d, func(screens []Screen) []Screen { return screens })
}

func (s *Stack) Replace(d Destination) {
	s.navigate(d, func(screens []Screen) []Screen {
		if len(screens) == 0 {
			return screens
		}
		screens[len(screens)-1].Stop()
		return screens[:len(screens)-1]
	})
}

func (s *Stack) Reset(d Destination) {
	s.navigate(d, func(screens []Screen) []Screen {
		for i := len(screens) - 1; i >= 0; i-- {
			screens[i].Stop()
		}
		return screens[:0]
	})
}

func (s *Stack) Back() bool {
	s.mu.Lock()
	if len(s.screens) <= 1 {
		s.mu.Unlock()
		return false
	}
	top := s.screens[len(s.screens)-1]
	s.screens = s.screens[:len(s.screens)-1]
	next := s.screens[len(s.screens)-1]
	s.mu.Unlock()

	top.Stop()
	s.changed(next)
	return true
}

func (s *Stack) navigate(d Destination, finish func([]Screen) []Screen) {
	screen, err := s.build(d)
	if err != nil {
		if s.OnError != nil {
			s.OnError(d, fmt.Errorf("navigate to %s: %w", d.Route, err))
		}
		return
	}

	s.mu.Lock()
	s.screens = append(finish(s.screens), screen)
	s.mu.Unlock()

	s.changed(screen)
	screen.Start()
}

func (s *Stack) changed(top Screen) {
	if s.OnChange != nil {
		s.OnChange(top)
	}
}
