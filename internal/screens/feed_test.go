package screens

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"instaclone/internal/client"
)

func feedPosts() []client.Post {
	return []client.Post{
		{
			ID:          "post-2",
			Description: "sunset",
			ImageURL:    "http://img/2.jpg",
			CreatedAt:   time.Date(2020, 7, 9, 17, 0, 0, 0, time.UTC),
			Author:      client.User{ID: "user-2", Username: "maria", AvatarURL: "http://img/a.jpg"},
			LikedBy:     []string{"user-1"},
		},
		{
			ID:          "post-1",
			Description: "coffee",
			CreatedAt:   time.Date(2020, 7, 9, 16, 0, 0, 0, time.UTC),
			Author:      client.User{ID: "user-1", Username: "pablo"},
			LikedBy:     []string{},
		},
	}
}

func TestFeedScreen_QueryPosts(t *testing.T) {
	t.Run("Лента загружается одним запросом", func(t *testing.T) {
		f := newFixture()
		session := testSession()
		view := &postsView{}
		f.remote.On("QueryPosts", mock.Anything, session, client.PostQuery{Limit: 20}).Return(feedPosts(), nil).Once()

		feed := NewFeedScreen(f.env, session, view)
		feed.Start()

		require.Len(t, view.shown, 1)
		assert.Equal(t, feedPosts(), view.shown[0])
		assert.Equal(t, []bool{false}, view.refreshing)
		f.remote.AssertExpectations(t)
	})

	t.Run("Ошибка только логируется", func(t *testing.T) {
		f := newFixture()
		session := testSession()
		view := &postsView{}
		f.remote.On("QueryPosts", mock.Anything, session, client.PostQuery{Limit: 20}).Return(feedPosts(), nil).Once()
		f.remote.On("QueryPosts", mock.Anything, session, client.PostQuery{Limit: 20}).Return(nil, errors.New("offline")).Once()

		feed := NewFeedScreen(f.env, session, view)
		feed.QueryPosts()
		feed.Refresh()

		assert.Len(t, view.shown, 1)
		assert.Equal(t, feedPosts(), feed.Posts())
		assert.Equal(t, []bool{false, true}, view.refreshing)
		assert.Empty(t, f.notifier.messages)
	})
}

func TestFeedScreen_Toggle(t *testing.T) {
	t.Run("Двойное переключение возвращает исходное состояние", func(t *testing.T) {
		f := newFixture()
		session := testSession()
		view := &postsView{}
		f.remote.On("QueryPosts", mock.Anything, session, mock.Anything).Return(feedPosts(), nil)
		f.remote.On("AddLike", mock.Anything, session, "post-1").Return(&client.LikeResult{PostID: "post-1", LikeCount: 1, Liked: true}, nil).Once()
		f.remote.On("RemoveLike", mock.Anything, session, "post-1").Return(&client.LikeResult{PostID: "post-1"}, nil).Once()

		feed := NewFeedScreen(f.env, session, view)
		feed.Start()

		require.True(t, feed.Toggle(1))
		assert.True(t, HasUser(feed.Posts()[1].LikedBy, "user-1"))
		assert.Equal(t, "1 like", LikeLabel(len(feed.Posts()[1].LikedBy)))

		require.True(t, feed.Toggle(1))
		assert.False(t, HasUser(feed.Posts()[1].LikedBy, "user-1"))
		assert.Equal(t, "0 likes", LikeLabel(len(feed.Posts()[1].LikedBy)))

		assert.Equal(t, []bool{true, false}, view.liked)
		f.remote.AssertExpectations(t)
	})

	t.Run("Ошибка запроса не откатывает лайк", func(t *testing.T) {
		f := newFixture()
		session := testSession()
		view := &postsView{}
		f.remote.On("QueryPosts", mock.Anything, session, mock.Anything).Return(feedPosts(), nil)
		f.remote.On("RemoveLike", mock.Anything, session, "post-2").Return(nil, errors.New("offline"))

		feed := NewFeedScreen(f.env, session, view)
		feed.Start()
		feed.Toggle(0)

		assert.Empty(t, feed.Posts()[0].LikedBy)
		assert.Empty(t, f.notifier.messages)
	})

	t.Run("Неверный индекс", func(t *testing.T) {
		f := newFixture()
		feed := NewFeedScreen(f.env, testSession(), &postsView{})

		assert.False(t, feed.Toggle(3))
		f.remote.AssertNotCalled(t, "AddLike", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFeedScreen_Open(t *testing.T) {
	f := newFixture()
	session := testSession()
	f.remote.On("QueryPosts", mock.Anything, session, mock.Anything).Return(feedPosts(), nil)

	feed := NewFeedScreen(f.env, session, &postsView{})
	feed.now = func() time.Time { return time.Date(2020, 7, 9, 20, 0, 0, 0, time.UTC) }
	feed.Start()

	require.True(t, feed.Open(0))
	require.Len(t, f.nav.pushed, 1)
	assert.Equal(t, RouteDetail, f.nav.pushed[0].Route)

	var s Snapshot
	_, err := s.UnmarshalMsg(f.nav.pushed[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{
		Username:     "maria",
		PostImageURL: "http://img/2.jpg",
		AvatarURL:    "http://img/a.jpg",
		Description:  "sunset",
		TimeStamp:    "3 hours ago",
		LikeCount:    1,
	}, s)
}

func TestHasUser(t *testing.T) {
	likedBy := []string{"user-1", "user-3"}

	assert.True(t, HasUser(likedBy, "user-1"))
	assert.True(t, HasUser(likedBy, string([]byte("user-3"))))
	assert.False(t, HasUser(likedBy, "user-2"))
	assert.False(t, HasUser(nil, "user-1"))
}

func TestHasUser_IdentityIndependent(t *testing.T) {
	a := testSession()
	b := testSession()
	require.NotSame(t, a, b)

	assert.True(t, HasUser([]string{a.UserID()}, b.UserID()))
}

func TestLikeLabel(t *testing.T) {
	tests := []struct {
		count    int
		expected string
	}{
		{0, "0 likes"},
		{1, "1 like"},
		{2, "2 likes"},
		{120, "120 likes"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, LikeLabel(tc.count))
	}
}

func TestFeedScreen_ShowsOwnLikesOnLoad(t *testing.T) {
	f := newFixture()
	session := testSession()
	view := &postsView{}
	f.remote.On("QueryPosts", mock.Anything, session, mock.Anything).Return(feedPosts(), nil)

	NewFeedScreen(f.env, session, view).Start()

	require.Len(t, view.shownLiked, 1)
	assert.Equal(t, []bool{true, false}, view.shownLiked[0])
}

func TestFeedScreen_ViewGetsCopies(t *testing.T) {
	f := newFixture()
	session := testSession()
	view := &postsView{}
	f.remote.On("QueryPosts", mock.Anything, session, mock.Anything).Return(feedPosts(), nil)
	f.remote.On("AddLike", mock.Anything, session, "post-1").Return(&client.LikeResult{}, nil)
	f.remote.On("RemoveLike", mock.Anything, session, "post-2").Return(&client.LikeResult{}, nil)

	feed := NewFeedScreen(f.env, session, view)
	feed.Start()
	feed.Toggle(0)
	feed.Toggle(1)

	assert.Equal(t, []string{"user-1"}, view.shown[0][0].LikedBy)
	assert.Empty(t, view.shown[0][1].LikedBy)
	assert.Empty(t, feed.Posts()[0].LikedBy)
	assert.Equal(t, []string{"user-1"}, feed.Posts()[1].LikedBy)
}

func TestFeedScreen_LikeWritesKeepOrder(t *testing.T) {
	f := newFixture()
	session := testSession()
	f.remote.On("QueryPosts", mock.Anything, session, mock.Anything).Return(feedPosts(), nil)

	feed := NewFeedScreen(f.env, session, &postsView{})
	feed.Start()

	var stored atomic.Bool
	var writes atomic.Int32
	f.remote.On("AddLike", mock.Anything, session, "post-1").After(50*time.Millisecond).
		Run(func(mock.Arguments) { stored.Store(true); writes.Add(1) }).
		Return(&client.LikeResult{Liked: true, LikeCount: 1}, nil)
	f.remote.On("RemoveLike", mock.Anything, session, "post-1").
		Run(func(mock.Arguments) { stored.Store(false); writes.Add(1) }).
		Return(&client.LikeResult{}, nil)

	f.env.Exec = GoExecutor()
	feed.Toggle(1)
	feed.Toggle(1)

	assert.Eventually(t, func() bool { return writes.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.False(t, HasUser(feed.Posts()[1].LikedBy, "user-1"))
	assert.False(t, stored.Load())
}
