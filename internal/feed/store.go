package feed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// FetchCooldown is the minimum time between two unforced feed fetches.
const FetchCooldown = time.Minute

// Store holds the feed, own-posts and saved views and keeps them consistent
// while likes and saves are applied optimistically. Views are only ever
// replaced as whole slices, never edited in place.
type Store struct {
	backend  Backend
	notifier Notifier
	now      func() time.Time
	locks    *keyedMutex

	mu          sync.RWMutex
	feed        []Post
	userPosts   []Post
	saved       []Post
	lastFetched time.Time
	feedLoads   int
	loading     int

	lmu       sync.Mutex
	listeners map[int]func(Snapshot)
	nextID    int
}

type Option func(*Store)

func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(b Backend, opts ...Option) *Store {
	s := &Store{
		backend:   b,
		notifier:  nopNotifier{},
		now:       time.Now,
		locks:     newKeyedMutex(),
		listeners: make(map[int]func(Snapshot)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) Feed() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePosts(s.feed)
}

func (s *Store) UserPosts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePosts(s.userPosts)
}

func (s *Store) Saved() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePosts(s.saved)
}

func (s *Store) LastFetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFetched
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Feed:      clonePosts(s.feed),
		UserPosts: clonePosts(s.userPosts),
		Saved:     clonePosts(s.saved),
		Loading:   s.loading > 0,
	}
}

// Subscribe registers fn to be called with a fresh snapshot after every
// change. The returned func removes the listener.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *Store) publish() {
	snap := s.Snapshot()
	s.lmu.Lock()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) update(fn func()) {
	s.mu.Lock()
	fn()
	s.mu.Unlock()
	s.publish()
}

func (s *Store) setLoading(on bool) {
	s.update(func() {
		if on {
			s.loading++
		} else if s.loading > 0 {
			s.loading--
		}
	})
}

// Reset drops every view and the fetch stamp, e.g. when the viewer changes.
func (s *Store) Reset() {
	s.update(func() {
		s.feed, s.userPosts, s.saved = nil, nil, nil
		s.lastFetched = time.Time{}
	})
}

// LoadAll fetches the feed view unless force is false and either the last
// successful fetch is younger than FetchCooldown or another fetch is still in
// flight. A failed fetch keeps what is shown.
func (s *Store) LoadAll(ctx context.Context, viewerID string, force bool) error {
	s.mu.Lock()
	fresh := !s.lastFetched.IsZero() && s.now().Sub(s.lastFetched) < FetchCooldown
	if !force && (fresh || s.feedLoads > 0) {
		s.mu.Unlock()
		return nil
	}
	s.feedLoads++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.feedLoads--
		s.mu.Unlock()
	}()

	s.setLoading(true)
	defer s.setLoading(false)

	posts, err := s.backend.FetchFeed(ctx, viewerID)
	if err != nil {
		log.Printf("[feed] load all posts: %v", err)
		return fmt.Errorf("load feed: %w", err)
	}
	s.update(func() {
		s.feed = clonePosts(posts)
		s.lastFetched = s.now()
	})
	return nil
}

func (s *Store) LoadUserPosts(ctx context.Context, userID, viewerID string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	posts, err := s.backend.FetchUserPosts(ctx, userID, viewerID)
	if err != nil {
		log.Printf("[feed] load posts of user %s: %v", userID, err)
		return fmt.Errorf("load user posts: %w", err)
	}
	s.update(func() { s.userPosts = clonePosts(posts) })
	return nil
}

func (s *Store) LoadSaved(ctx context.Context, viewerID string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	posts, err := s.backend.FetchSavedPosts(ctx, viewerID)
	if err != nil {
		log.Printf("[feed] load saved posts: %v", err)
		return fmt.Errorf("load saved posts: %w", err)
	}
	s.update(func() { s.saved = clonePosts(posts) })
	return nil
}

// AddPost puts a freshly created post on top of the feed and own-posts views.
func (s *Store) AddPost(p Post) {
	s.update(func() {
		s.feed = prepend(without(s.feed, p.ID), p)
		s.userPosts = prepend(without(s.userPosts, p.ID), p)
	})
}

// RemovePost drops the post from every view it appears in.
func (s *Store) RemovePost(postID string) {
	s.update(func() {
		s.feed = without(s.feed, postID)
		s.userPosts = without(s.userPosts, postID)
		s.saved = without(s.saved, postID)
	})
}

func (s *Store) findLocked(postID string) (Post, bool) {
	for _, view := range [][]Post{s.feed, s.userPosts, s.saved} {
		if i := indexOf(view, postID); i >= 0 {
			return view[i], true
		}
	}
	return Post{}, false
}

func (s *Store) setLikeLocked(postID string, r LikeResult) {
	set := func(p *Post) {
		p.IsLiked = r.Liked
		p.LikeCount = r.Count
	}
	s.feed = mapPost(s.feed, postID, set)
	s.userPosts = mapPost(s.userPosts, postID, set)
	s.saved = mapPost(s.saved, postID, set)
}

// ToggleLike flips the like optimistically in every view, then settles on
// the backend's answer. The backend count always wins over the local delta;
// on failure the pre-toggle state is restored.
func (s *Store) ToggleLike(ctx context.Context, viewerID, postID string) (LikeResult, error) {
	unlock := s.locks.Lock(postID)
	defer unlock()

	s.mu.Lock()
	p, ok := s.findLocked(postID)
	if !ok {
		s.mu.Unlock()
		return s.toggleLikeRemote(ctx, viewerID, postID)
	}
	before := LikeResult{Liked: p.IsLiked, Count: p.LikeCount}
	next := LikeResult{Liked: !before.Liked, Count: before.Count + 1}
	if before.Liked {
		next.Count = before.Count - 1
	}
	if next.Count < 0 {
		next.Count = 0
	}
	s.setLikeLocked(postID, next)
	s.mu.Unlock()
	s.publish()
	togglesTotal.WithLabelValues("like").Inc()

	res, err := s.backend.ToggleLike(ctx, viewerID, postID)
	if err != nil {
		s.update(func() { s.setLikeLocked(postID, before) })
		rollbacksTotal.WithLabelValues("like").Inc()
		log.Printf("[feed] toggle like %s: %v", postID, err)
		s.notifier.Error("Couldn't update like", err.Error())
		return before, fmt.Errorf("toggle like: %w", err)
	}
	s.update(func() { s.setLikeLocked(postID, res) })
	return res, nil
}

// toggleLikeRemote handles a post that is in no view: there is nothing to
// show optimistically, so only the backend answer is applied.
func (s *Store) toggleLikeRemote(ctx context.Context, viewerID, postID string) (LikeResult, error) {
	res, err := s.backend.ToggleLike(ctx, viewerID, postID)
	if err != nil {
		log.Printf("[feed] toggle like %s: %v", postID, err)
		s.notifier.Error("Couldn't update like", err.Error())
		return LikeResult{}, fmt.Errorf("toggle like: %w", err)
	}
	s.update(func() { s.setLikeLocked(postID, res) })
	return res, nil
}

type saveSnapshot struct {
	saved bool
	index int
	entry Post
}

func (s *Store) setSaveLocked(postID string, saved bool) {
	p, ok := s.findLocked(postID)
	if !ok {
		return
	}
	set := func(p *Post) { p.IsSaved = saved }
	s.feed = mapPost(s.feed, postID, set)
	s.userPosts = mapPost(s.userPosts, postID, set)
	if !saved {
		s.saved = without(s.saved, postID)
		return
	}
	if indexOf(s.saved, postID) >= 0 {
		return
	}
	p.IsSaved = true
	s.saved = prepend(s.saved, p)
}

func (s *Store) restoreSaveLocked(postID string, snap saveSnapshot) {
	set := func(p *Post) { p.IsSaved = snap.saved }
	s.feed = mapPost(s.feed, postID, set)
	s.userPosts = mapPost(s.userPosts, postID, set)
	present := indexOf(s.saved, postID) >= 0
	switch {
	case snap.index < 0 && present:
		s.saved = without(s.saved, postID)
	case snap.index >= 0 && !present:
		s.saved = insertAt(s.saved, snap.index, snap.entry)
	}
}

// ToggleSave flips the saved flag optimistically. Saving prepends the post
// to the saved view unless it is already there; unsaving removes it. A
// backend failure undoes both the flag and the saved-view change.
func (s *Store) ToggleSave(ctx context.Context, viewerID, postID string) (bool, error) {
	unlock := s.locks.Lock(postID)
	defer unlock()

	s.mu.Lock()
	p, ok := s.findLocked(postID)
	if !ok {
		s.mu.Unlock()
		saved, err := s.backend.ToggleSave(ctx, viewerID, postID)
		if err != nil {
			log.Printf("[feed] toggle save %s: %v", postID, err)
			s.notifier.Error("Couldn't update saved posts", err.Error())
			return false, fmt.Errorf("toggle save: %w", err)
		}
		s.update(func() { s.setSaveLocked(postID, saved) })
		return saved, nil
	}
	snap := saveSnapshot{saved: p.IsSaved, index: indexOf(s.saved, postID), entry: p}
	if snap.index >= 0 {
		snap.entry = s.saved[snap.index]
	}
	want := !p.IsSaved
	s.setSaveLocked(postID, want)
	s.mu.Unlock()
	s.publish()
	togglesTotal.WithLabelValues("save").Inc()

	saved, err := s.backend.ToggleSave(ctx, viewerID, postID)
	if err != nil {
		s.update(func() { s.restoreSaveLocked(postID, snap) })
		rollbacksTotal.WithLabelValues("save").Inc()
		log.Printf("[feed] toggle save %s: %v", postID, err)
		s.notifier.Error("Couldn't update saved posts", err.Error())
		return snap.saved, fmt.Errorf("toggle save: %w", err)
	}
	if saved != want {
		s.update(func() { s.setSaveLocked(postID, saved) })
	}
	return saved, nil
}

// CreatePost uploads the optional image, creates the post and adds it to
// the feed and own-posts views.
func (s *Store) CreatePost(ctx context.Context, viewerID, content, imagePath string) (Post, error) {
	content = strings.TrimSpace(content)
	if content == "" && imagePath == "" {
		s.notifier.Error("Error", "Please add some content or an image")
		return Post{}, ErrEmptyPost
	}

	var imageURL string
	if imagePath != "" {
		u, err := s.backend.UploadImage(ctx, imagePath, viewerID)
		if err != nil {
			log.Printf("[feed] upload image: %v", err)
			s.notifier.Error("Error", "Failed to upload image")
			return Post{}, fmt.Errorf("upload image: %w", err)
		}
		imageURL = u
	}

	p, err := s.backend.CreatePost(ctx, viewerID, content, imageURL)
	if err != nil {
		log.Printf("[feed] create post: %v", err)
		s.notifier.Error("Error", "Failed to create post")
		return Post{}, fmt.Errorf("create post: %w", err)
	}
	s.AddPost(p)
	s.notifier.Success("Success", "Post created successfully!")
	return p, nil
}

// DeletePost deletes the post remotely, together with its image, and then
// removes it from every view. Posts outside the views are deleted by id alone.
func (s *Store) DeletePost(ctx context.Context, postID string) error {
	s.mu.RLock()
	p, _ := s.findLocked(postID)
	s.mu.RUnlock()
	if err := s.backend.DeletePost(ctx, postID, p.ImageURL); err != nil {
		log.Printf("[feed] delete post %s: %v", postID, err)
		s.notifier.Error("Error", "Failed to delete post")
		return fmt.Errorf("delete post: %w", err)
	}
	s.RemovePost(postID)
	s.notifier.Success("Deleted", "Post deleted")
	return nil
}
