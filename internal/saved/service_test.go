package saved

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Truella/Framez/internal/post"
	"github.com/Truella/Framez/internal/shared/db/dbtest"
)

func TestToggle(t *testing.T) {
	store := dbtest.New(t, &post.Post{}, &SavedPost{})
	posts := post.NewRepository(store)
	ctx := context.Background()
	if err := posts.Create(ctx, &post.Post{ID: "p1", UserID: "a", Content: "x", CreatedAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	svc := NewService(NewRepository(store), post.NewService(posts, nil, nil, nil))

	for i, want := range []bool{true, false, true} {
		res, err := svc.Toggle(ctx, "u1", "p1")
		if err != nil {
			t.Fatal(err)
		}
		if res.Saved != want {
			t.Fatalf("toggle %d: saved=%v", i, res.Saved)
		}
	}

	var n int64
	store.Base.Model(&SavedPost{}).Where("user_id = ? AND post_id = ?", "u1", "p1").Count(&n)
	if n != 1 {
		t.Fatalf("%d rows, want exactly one", n)
	}

	if _, err := svc.Toggle(ctx, "u1", "missing"); !errors.Is(err, post.ErrNotFound) {
		t.Fatalf("unknown post: %v", err)
	}
}
