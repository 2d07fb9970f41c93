package post_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Truella/Framez/internal/like"
	"github.com/Truella/Framez/internal/post"
	"github.com/Truella/Framez/internal/saved"
	"github.com/Truella/Framez/internal/shared/db"
	"github.com/Truella/Framez/internal/shared/db/dbtest"
	"github.com/Truella/Framez/internal/user"
)

type captured struct {
	mu  sync.Mutex
	evs []any
}

func (c *captured) WriteJSON(_ context.Context, v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evs = append(c.evs, v)
	return nil
}

type removed struct{ urls []string }

// Owner treats http://cdn/post-images/<uid>/<name> as uploaded by uid.
func (r *removed) Owner(url string) string {
	key, ok := strings.CutPrefix(url, "http://cdn/post-images/")
	if !ok {
		return ""
	}
	uid, _, _ := strings.Cut(key, "/")
	return uid
}

func (r *removed) RemoveByURL(_ context.Context, url string) error {
	r.urls = append(r.urls, url)
	return nil
}

type dropped struct{ ids []string }

func (d *dropped) Del(_ context.Context, postID string) error {
	d.ids = append(d.ids, postID)
	return nil
}

type fixture struct {
	store  *db.Store
	repo   post.Repository
	svc    post.Service
	events *captured
	images *removed
	counts *dropped
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := dbtest.New(t, &user.Profile{}, &post.Post{}, &like.PostLike{}, &saved.SavedPost{})
	f := &fixture{store: store, repo: post.NewRepository(store), events: &captured{}, images: &removed{}, counts: &dropped{}}
	f.svc = post.NewService(f.repo, f.events, f.images, f.counts)

	for _, p := range []user.Profile{
		{ID: "alice", Email: "alice@example.com", Username: "alice", FullName: "Alice A"},
		{ID: "bob", Email: "bob@example.com", Username: "bob", FullName: "Bob B"},
	} {
		p := p
		if err := store.Base.Create(&p).Error; err != nil {
			t.Fatal(err)
		}
	}
	return f
}

func (f *fixture) seed(t *testing.T, id, uid string, at time.Time) {
	t.Helper()
	if err := f.repo.Create(context.Background(), &post.Post{ID: id, UserID: uid, Content: "post " + id, CreatedAt: at}); err != nil {
		t.Fatal(err)
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, "alice", post.CreateReq{Content: "   "}); !errors.Is(err, post.ErrEmptyPost) {
		t.Fatalf("empty: %v", err)
	}
	if _, err := f.svc.Create(ctx, "alice", post.CreateReq{Content: strings.Repeat("é", post.MaxContentLen+1)}); !errors.Is(err, post.ErrTooLong) {
		t.Fatalf("too long: %v", err)
	}

	v, err := f.svc.Create(ctx, "alice", post.CreateReq{Content: "  hello  "})
	if err != nil {
		t.Fatal(err)
	}
	if v.Content != "hello" || v.Author.Username != "alice" || v.LikeCount != 0 || v.IsLiked || v.IsSaved {
		t.Fatalf("got %+v", v)
	}
	if len(f.events.evs) != 1 {
		t.Fatalf("events %d", len(f.events.evs))
	}
	if ev, ok := f.events.evs[0].(post.CreatedEvent); !ok || ev.PostID != v.ID || ev.HasImage {
		t.Fatalf("event %+v", f.events.evs[0])
	}

	img, err := f.svc.Create(ctx, "alice", post.CreateReq{ImageURL: "http://cdn/post-images/alice/1.jpg"})
	if err != nil || img.ImageURL == "" {
		t.Fatalf("image-only post: %v", err)
	}
	for _, url := range []string{"http://cdn/post-images/alice/1.jpg", "http://elsewhere/cat.jpg"} {
		if _, err := f.svc.Create(ctx, "bob", post.CreateReq{Content: "mine now", ImageURL: url}); !errors.Is(err, post.ErrNotYours) {
			t.Fatalf("bob posting %s: %v", url, err)
		}
	}
}

func TestViewerRelativeFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	f.seed(t, "p1", "alice", base)
	f.seed(t, "p2", "bob", base.Add(time.Minute))

	likes := like.NewRepository(f.store)
	saves := saved.NewRepository(f.store)
	if _, err := likes.Toggle(ctx, "bob", "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := likes.Toggle(ctx, "alice", "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := saves.Toggle(ctx, "bob", "p1"); err != nil {
		t.Fatal(err)
	}

	feed, err := f.svc.Feed(ctx, "bob", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(feed) != 2 || feed[0].ID != "p2" || feed[1].ID != "p1" {
		t.Fatalf("feed order %+v", feed)
	}
	p1 := feed[1]
	if p1.LikeCount != 2 || !p1.IsLiked || !p1.IsSaved || p1.Author.FullName != "Alice A" {
		t.Fatalf("p1 for bob %+v", p1)
	}

	anon, err := f.svc.Feed(ctx, "", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if anon[1].IsLiked || anon[1].IsSaved || anon[1].LikeCount != 2 {
		t.Fatalf("anonymous %+v", anon[1])
	}

	mine, err := f.svc.ListByUser(ctx, "alice", "alice", 10, 0)
	if err != nil || len(mine) != 1 || !mine[0].IsLiked || mine[0].IsSaved {
		t.Fatalf("alice's posts %+v %v", mine, err)
	}

	savedView, err := f.svc.ListSaved(ctx, "bob", 10, 0)
	if err != nil || len(savedView) != 1 || savedView[0].ID != "p1" || !savedView[0].IsSaved {
		t.Fatalf("saved %+v %v", savedView, err)
	}
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	img := "http://cdn/post-images/alice/9.jpg"
	if err := f.repo.Create(ctx, &post.Post{ID: "p1", UserID: "alice", ImageURL: img, CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if _, err := like.NewRepository(f.store).Toggle(ctx, "bob", "p1"); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Delete(ctx, "bob", "p1"); !errors.Is(err, post.ErrForbidden) {
		t.Fatalf("non-owner: %v", err)
	}
	if err := f.svc.Delete(ctx, "alice", "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Get(ctx, "p1", "alice"); !errors.Is(err, post.ErrNotFound) {
		t.Fatalf("after delete: %v", err)
	}
	if len(f.images.urls) != 1 || f.images.urls[0] != img {
		t.Fatalf("image cleanup %v", f.images.urls)
	}
	if len(f.counts.ids) != 1 || f.counts.ids[0] != "p1" {
		t.Fatalf("cached counts not dropped: %v", f.counts.ids)
	}
	var n int64
	f.store.Base.Model(&like.PostLike{}).Where("post_id = ?", "p1").Count(&n)
	if n != 0 {
		t.Fatalf("%d orphaned likes", n)
	}
	if err := f.svc.Delete(ctx, "alice", "p1"); !errors.Is(err, post.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestDeleteKeepsImagesOthersRely(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	img := "http://cdn/post-images/alice/7.jpg"
	for _, p := range []post.Post{
		{ID: "a1", UserID: "alice", ImageURL: img},
		{ID: "a2", UserID: "alice", ImageURL: img},
		{ID: "b1", UserID: "bob", ImageURL: img},
	} {
		p.CreatedAt = time.Now()
		if err := f.repo.Create(ctx, &p); err != nil {
			t.Fatal(err)
		}
	}

	if err := f.svc.Delete(ctx, "bob", "b1"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Delete(ctx, "alice", "a1"); err != nil {
		t.Fatal(err)
	}
	if len(f.images.urls) != 0 {
		t.Fatalf("image removed while still in use or by a non-uploader: %v", f.images.urls)
	}
	if err := f.svc.Delete(ctx, "alice", "a2"); err != nil {
		t.Fatal(err)
	}
	if len(f.images.urls) != 1 || f.images.urls[0] != img {
		t.Fatalf("last post's image not removed: %v", f.images.urls)
	}
}
