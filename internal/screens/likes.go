package screens

import (
	"context"
	"fmt"

	"instaclone/internal/client"
)

// HasUser reports whether userID is in likedBy. Membership is by identifier only.
func HasUser(likedBy []string, userID string) bool {
	for _, id := range likedBy {
		if id == userID {
			return true
		}
	}
	return false
}

func LikeLabel(n int) string {
	if n == 1 {
		return "1 like"
	}
	return fmt.Sprintf("%d likes", n)
}

// PostsView renders a list of posts. liked[i] tells whether the session user likes posts[i].
// RenderPost is called after a single post changed locally. Views get copies they may keep.
type PostsView interface {
	ShowPosts(posts []client.Post, liked []bool)
	RenderPost(index int, post client.Post, liked bool)
	SetRefreshing(refreshing bool)
}

// postList is the list a feed or profile screen owns. It is only touched on the UI loop.
type postList struct {
	env     *Env
	session *client.Session
	view    PostsView
	posts   []client.Post
}

func (l *postList) replace(posts []client.Post) {
	l.posts = posts

	userID := l.session.UserID()
	shown := make([]client.Post, len(posts))
	liked := make([]bool, len(posts))
	for i, post := range posts {
		shown[i] = clonePost(post)
		liked[i] = HasUser(post.LikedBy, userID)
	}
	l.view.ShowPosts(shown, liked)
}

func (l *postList) at(i int) (*client.Post, bool) {
	if i < 0 || i >= len(l.posts) {
		return nil, false
	}
	return &l.posts[i], true
}

// toggle flips the session user's like on post i. The local state changes first and the
// remote request follows in the background, queued behind earlier writes for the same post.
// A failed request is logged and the local state stays.
func (l *postList) toggle(i int) bool {
	post, ok := l.at(i)
	if !ok {
		return false
	}

	userID := l.session.UserID()
	liked := HasUser(post.LikedBy, userID)

	var call func(ctx context.Context, s *client.Session, postID string) (*client.LikeResult, error)
	if liked {
		post.LikedBy = removeID(post.LikedBy, userID)
		call = l.env.Remote.RemoveLike
	} else {
		post.LikedBy = append(post.LikedBy, userID)
		call = l.env.Remote.AddLike
	}
	l.view.RenderPost(i, clonePost(*post), !liked)

	postID := post.ID
	ctx := l.env.context()
	l.env.likes.enqueue(l.env.Exec, postID, func() {
		if _, err := call(ctx, l.session, postID); err != nil {
			l.env.logf("Issue with saving like for post %s: %v", postID, err)
		}
	})
	return true
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func clonePost(post client.Post) client.Post {
	if post.LikedBy != nil {
		post.LikedBy = append(make([]string, 0, len(post.LikedBy)), post.LikedBy...)
	}
	return post
}
