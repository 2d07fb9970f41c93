// Package apitest runs the API against SQLite and in-memory object storage.
package apitest

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Truella/Framez/internal/api"
	"github.com/Truella/Framez/internal/like"
	"github.com/Truella/Framez/internal/media"
	"github.com/Truella/Framez/internal/migrate"
	"github.com/Truella/Framez/internal/post"
	"github.com/Truella/Framez/internal/saved"
	"github.com/Truella/Framez/internal/shared/db"
	"github.com/Truella/Framez/internal/shared/db/dbtest"
	"github.com/Truella/Framez/internal/user"
)

const Bucket = "post-images"

type Objects struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (o *Objects) Put(_ context.Context, key, _ string, data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.m[key] = data
	return nil
}

func (o *Objects) Remove(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.m, key)
	return nil
}

func (o *Objects) Keys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]string, 0, len(o.m))
	for k := range o.m {
		keys = append(keys, k)
	}
	return keys
}

type Server struct {
	*httptest.Server
	Store   *db.Store
	Objects *Objects
}

func New(t testing.TB) *Server {
	t.Helper()
	t.Setenv("JWT_SECRET", "apitest-secret")

	store := dbtest.New(t, migrate.Models()...)
	objects := &Objects{m: map[string][]byte{}}

	srv := &Server{Store: store, Objects: objects}
	mediaSvc := media.NewService(objects, Bucket, "http://media.test")
	posts := post.NewService(post.NewRepository(store), nil, mediaSvc, nil)

	mux := api.NewRouter(api.Deps{
		Users: user.NewService(user.NewRepository(store)),
		Posts: posts,
		Likes: like.NewService(like.NewRepository(store), posts, nil, nil),
		Saved: saved.NewService(saved.NewRepository(store), posts),
		Media: mediaSvc,
	})
	srv.Server = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}
