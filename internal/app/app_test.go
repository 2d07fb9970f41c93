package app

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Truella/Framez/internal/api/apitest"
	"github.com/Truella/Framez/internal/client"
	"github.com/Truella/Framez/internal/feed"
	"github.com/Truella/Framez/internal/notify"
	"github.com/Truella/Framez/internal/session"
)

func newApp(t *testing.T, url, dir string) *App {
	t.Helper()
	a, err := New(Config{ServerURL: url, DataDir: dir, Notifier: &notify.Recorder{}})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestSessionDrivesFeed(t *testing.T) {
	srv := apitest.New(t)
	ctx := context.Background()

	poster := client.New(srv.URL)
	_, tok, err := poster.SignUp(ctx, session.SignUpInput{
		Email: "poster@example.com", Password: "password123", Username: "poster", FullName: "Poster",
	})
	if err != nil {
		t.Fatal(err)
	}
	poster.SetToken(tok)
	if _, err := poster.CreatePost(ctx, "", "welcome", ""); err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	a := newApp(t, srv.URL, dir)
	if a.Viewer() != "" || len(a.Feed.Feed()) != 0 {
		t.Fatal("fresh app should be signed out and empty")
	}

	err = a.Session.SignUp(ctx, session.SignUpInput{
		Email: "reader@example.com", Password: "password123", ConfirmPassword: "password123",
		Username: "Reader", FullName: "Reader",
	})
	if err != nil {
		t.Fatal(err)
	}
	if a.Viewer() == "" {
		t.Fatal("viewer not set after sign up")
	}
	if got := a.Feed.Feed(); len(got) != 1 || got[0].Content != "welcome" {
		t.Fatalf("feed after sign up %+v", got)
	}
	if err := a.Stop(); err != nil {
		t.Fatal(err)
	}

	// same device, new process
	b := newApp(t, srv.URL, dir)
	defer b.Stop()
	if u := b.Session.Current(); u == nil || u.Username != "reader" {
		t.Fatalf("session not restored: %+v", u)
	}
	if len(b.Feed.Feed()) != 1 {
		t.Fatal("feed not loaded on restore")
	}

	if err := b.Session.SignOut(ctx); err != nil {
		t.Fatal(err)
	}
	if b.Viewer() != "" || len(b.Feed.Feed()) != 0 {
		t.Fatal("sign out must clear the views")
	}
}

func TestActionsReachPostsBeyondFirstPage(t *testing.T) {
	srv := apitest.New(t)
	ctx := context.Background()

	a := newApp(t, srv.URL, t.TempDir())
	defer a.Stop()
	err := a.Session.SignUp(ctx, session.SignUpInput{
		Email: "old@example.com", Password: "password123", ConfirmPassword: "password123",
		Username: "old", FullName: "Old Timer",
	})
	if err != nil {
		t.Fatal(err)
	}
	uid := a.Viewer()

	var first feed.Post
	for i := 0; i < 55; i++ {
		p, err := a.Client.CreatePost(ctx, uid, fmt.Sprintf("post %d", i), "")
		if err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			first = p
		}
	}
	if err := a.Feed.LoadAll(ctx, uid, true); err != nil {
		t.Fatal(err)
	}
	if n := len(a.Feed.Feed()); n != 55 {
		t.Fatalf("feed view holds %d posts", n)
	}

	res, err := a.Feed.ToggleLike(ctx, uid, first.ID)
	if err != nil || !res.Liked || res.Count != 1 {
		t.Fatalf("like first post: %+v %v", res, err)
	}
	if err := a.Feed.DeletePost(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Client.ToggleLike(ctx, uid, first.ID); !errors.Is(err, client.ErrNotFound) {
		t.Fatalf("post still on server: %v", err)
	}
}
