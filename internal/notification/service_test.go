package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Truella/Framez/internal/kafka"
	"github.com/Truella/Framez/internal/like"
	"github.com/Truella/Framez/internal/shared/httpx"
)

type memRepo struct {
	byUser  map[string][]Notification
	pushErr error
}

func (m *memRepo) Push(_ context.Context, n Notification) error {
	if m.pushErr != nil {
		return m.pushErr
	}
	m.byUser[n.UserID] = append([]Notification{n}, m.byUser[n.UserID]...)
	return nil
}

func (m *memRepo) List(_ context.Context, uid string, limit int64) ([]Notification, error) {
	items := m.byUser[uid]
	if limit > 0 && int64(len(items)) > limit {
		items = items[:limit]
	}
	return items, nil
}

func event(t *testing.T, ev like.Event) []byte {
	t.Helper()
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestHandleLike(t *testing.T) {
	repo := &memRepo{byUser: map[string][]Notification{}}
	svc := NewService(repo)
	ctx := context.Background()

	cases := []struct {
		name string
		ev   like.Event
	}{
		{"self like", like.Event{PostID: "p1", OwnerID: "alice", UserID: "alice", Liked: true}},
		{"unlike", like.Event{PostID: "p1", OwnerID: "alice", UserID: "bob", Liked: false}},
		{"like", like.Event{PostID: "p1", OwnerID: "alice", UserID: "bob", Liked: true, Count: 3, At: time.Now()}},
	}
	for _, tc := range cases {
		if err := svc.HandleLike(ctx, "post.liked", nil, event(t, tc.ev)); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
	}

	got := repo.byUser["alice"]
	if len(got) != 1 {
		t.Fatalf("want one notification, got %+v", got)
	}
	if got[0].Kind != KindLike || got[0].Meta["user_id"] != "bob" || got[0].ID == "" {
		t.Fatalf("got %+v", got[0])
	}
	if len(repo.byUser["bob"]) != 0 {
		t.Fatal("liker was notified")
	}

	if err := svc.HandleLike(ctx, "post.liked", nil, []byte("{")); !kafka.IsPermanent(err) {
		t.Fatalf("undecodable event should be dropped, got %v", err)
	}

	repo.pushErr = errors.New("redis: connection refused")
	err := svc.HandleLike(ctx, "post.liked", nil, event(t, like.Event{PostID: "p1", OwnerID: "alice", UserID: "bob", Liked: true}))
	if err == nil || kafka.IsPermanent(err) {
		t.Fatalf("push failure should be retried, got %v", err)
	}
}

func TestListHandler(t *testing.T) {
	repo := &memRepo{byUser: map[string][]Notification{
		"alice": {{ID: "n1", UserID: "alice", Kind: KindLike}},
	}}
	h := NewHandler(NewService(repo))

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	req = req.WithContext(httpx.WithUser(req.Context(), "alice"))
	rec := httptest.NewRecorder()
	httpx.Wrap(h.List).ServeHTTP(rec, req)

	var out struct {
		Notifications []Notification `json:"notifications"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK || len(out.Notifications) != 1 || out.Notifications[0].ID != "n1" {
		t.Fatalf("code=%d out=%+v", rec.Code, out)
	}

	rec = httptest.NewRecorder()
	httpx.Wrap(h.List).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: %d", rec.Code)
	}
}
