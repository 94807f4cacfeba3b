package screens

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"instaclone/internal/client"
)

func TestProfileScreen_QueryOwnPosts(t *testing.T) {
	f := newFixture()
	session := testSession()
	view := &postsView{}
	own := []client.Post{
		{ID: "post-3", Author: client.User{ID: "user-1", Username: "pablo", AvatarURL: "http://img/me.jpg"}},
		{ID: "post-1", Author: client.User{ID: "user-1", Username: "pablo", AvatarURL: "http://img/me.jpg"}},
	}
	f.remote.On("QueryPosts", mock.Anything, session, client.PostQuery{AuthorID: "user-1", Limit: 20}).Return(own, nil).Once()

	NewProfileScreen(f.env, session, view).Start()

	require.Len(t, view.header, 2)
	assert.Equal(t, 0, view.counts[0])
	assert.Equal(t, 2, view.counts[1])
	assert.Equal(t, "pablo", view.header[1].Username)
	assert.Equal(t, "http://img/me.jpg", view.header[1].AvatarURL)
	assert.Equal(t, own, view.shown[0])
	f.remote.AssertExpectations(t)
}

func TestProfileScreen_NoAvatar(t *testing.T) {
	f := newFixture()
	session := testSession()
	view := &postsView{}
	f.remote.On("QueryPosts", mock.Anything, session, mock.Anything).Return([]client.Post{}, nil)

	NewProfileScreen(f.env, session, view).Start()

	assert.Empty(t, view.header[1].AvatarURL)
	assert.Equal(t, 0, view.counts[1])
}

func TestProfileScreen_RefreshFailure(t *testing.T) {
	f := newFixture()
	session := testSession()
	view := &postsView{}
	f.remote.On("QueryPosts", mock.Anything, session, mock.Anything).Return(nil, errors.New("offline"))

	profile := NewProfileScreen(f.env, session, view)
	profile.Refresh()

	assert.Empty(t, view.shown)
	assert.Equal(t, []bool{true}, view.refreshing)
	assert.Empty(t, f.notifier.messages)
}

func TestProfileScreen_Logout(t *testing.T) {
	tests := []struct {
		name      string
		remoteErr error
	}{
		{name: "Выход из аккаунта"},
		{name: "Выход при ошибке сервера", remoteErr: errors.New("offline")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			session := testSession()
			f.sessions.session = session
			f.remote.On("Logout", mock.Anything, session).Return(tc.remoteErr).Once()

			NewProfileScreen(f.env, session, &postsView{}).Logout()

			assert.True(t, f.sessions.cleared)
			assert.Nil(t, f.sessions.session)
			assert.Equal(t, []Destination{{Route: RouteLogin}}, f.nav.reset)
			f.remote.AssertExpectations(t)
		})
	}
}

func TestProfileScreen_LogoutSurvivesLeavingScreen(t *testing.T) {
	f := newFixture()
	queue := &deferred{}
	f.env.Exec = queue
	f.env.UI = queue
	session := testSession()
	f.sessions.session = session
	f.remote.On("Logout", mock.Anything, session).Return(nil).Once()

	profile := NewProfileScreen(f.env, session, &postsView{})
	profile.Logout()
	profile.Stop()
	queue.flush()

	assert.True(t, f.sessions.cleared)
	assert.Nil(t, f.sessions.session)
	assert.Equal(t, []Destination{{Route: RouteLogin}}, f.nav.reset)
	f.remote.AssertExpectations(t)
}
