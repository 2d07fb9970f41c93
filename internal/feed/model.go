package feed

import "time"

// Author is the summary of a post's author embedded in every post.
type Author struct {
	ID        string
	Username  string
	FullName  string
	AvatarURL string
}

// Post is a post as seen by the current viewer. LikeCount, IsLiked and
// IsSaved are derived by the backend relative to that viewer.
type Post struct {
	ID        string
	UserID    string
	Author    Author
	Content   string
	ImageURL  string
	CreatedAt time.Time

	LikeCount int
	IsLiked   bool
	IsSaved   bool
}

// User is the profile of a signed-in viewer.
type User struct {
	ID        string
	Email     string
	Username  string
	FullName  string
	Bio       string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LikeResult is the authoritative like state returned by the backend.
type LikeResult struct {
	Liked bool
	Count int
}

// Snapshot is a consistent copy of the three views.
type Snapshot struct {
	Feed      []Post
	UserPosts []Post
	Saved     []Post
	Loading   bool
}

func clonePosts(in []Post) []Post {
	if in == nil {
		return nil
	}
	out := make([]Post, len(in))
	copy(out, in)
	return out
}

func indexOf(posts []Post, id string) int {
	for i := range posts {
		if posts[i].ID == id {
			return i
		}
	}
	return -1
}

func without(posts []Post, id string) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func prepend(posts []Post, p Post) []Post {
	out := make([]Post, 0, len(posts)+1)
	out = append(out, p)
	return append(out, posts...)
}

func insertAt(posts []Post, i int, p Post) []Post {
	if i < 0 {
		i = 0
	}
	if i > len(posts) {
		i = len(posts)
	}
	out := make([]Post, 0, len(posts)+1)
	out = append(out, posts[:i]...)
	out = append(out, p)
	return append(out, posts[i:]...)
}

// mapPost returns a copy of posts with fn applied to every entry matching id.
func mapPost(posts []Post, id string, fn func(*Post)) []Post {
	if indexOf(posts, id) < 0 {
		return posts
	}
	out := clonePosts(posts)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
		}
	}
	return out
}
