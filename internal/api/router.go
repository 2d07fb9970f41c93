package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Truella/Framez/internal/like"
	"github.com/Truella/Framez/internal/media"
	"github.com/Truella/Framez/internal/notification"
	"github.com/Truella/Framez/internal/post"
	"github.com/Truella/Framez/internal/ratelimit"
	"github.com/Truella/Framez/internal/saved"
	"github.com/Truella/Framez/internal/shared/httpx"
	"github.com/Truella/Framez/internal/user"
)

type Deps struct {
	Users         user.Service
	Posts         post.Service
	Likes         like.Service
	Saved         saved.Service
	Media         media.Service
	Notifications notification.Service

	// Limiter may be nil, which disables rate limiting.
	Limiter         *ratelimit.Limiter
	RateLimitPerMin int64
}

func NewRouter(d Deps) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	limit := func(h http.Handler) http.Handler {
		if d.Limiter == nil || d.RateLimitPerMin <= 0 {
			return h
		}
		return d.Limiter.LimitHTTP(d.RateLimitPerMin, time.Minute, ratelimit.ByUser, h)
	}
	protect := func(pattern string, h http.Handler) {
		mux.Handle(pattern, httpx.AuthMiddleware(h))
	}
	optional := func(pattern string, h http.Handler) {
		mux.Handle(pattern, httpx.OptionalAuth(h))
	}

	uh := user.NewHandler(d.Users)
	mux.Handle("POST /auth/signup", httpx.Wrap(uh.SignUp))
	mux.Handle("POST /auth/signin", httpx.Wrap(uh.SignIn))
	mux.Handle("GET /users/{user_id}", httpx.Wrap(uh.GetByID))
	protect("GET /me", httpx.Wrap(uh.Me))

	ph := post.NewHandler(d.Posts)
	optional("GET /posts", httpx.Wrap(ph.Feed))
	optional("GET /posts/{post_id}", httpx.Wrap(ph.GetByID))
	optional("GET /users/{user_id}/posts", httpx.Wrap(ph.ListByUser))
	protect("GET /me/saved", httpx.Wrap(ph.ListSaved))
	protect("POST /posts", limit(httpx.Wrap(ph.Create)))
	protect("DELETE /posts/{post_id}", httpx.Wrap(ph.Delete))

	lh := like.NewHandler(d.Likes)
	optional("GET /posts/{post_id}/likes", httpx.Wrap(lh.Get))
	protect("POST /posts/{post_id}/like", limit(httpx.Wrap(lh.Toggle)))

	sh := saved.NewHandler(d.Saved)
	protect("POST /posts/{post_id}/save", limit(httpx.Wrap(sh.Toggle)))

	if d.Media != nil {
		mh := media.NewHandler(d.Media)
		protect("POST /media/upload", limit(httpx.Wrap(mh.Upload)))
	}
	if d.Notifications != nil {
		nh := notification.NewHandler(d.Notifications)
		protect("GET /notifications", httpx.Wrap(nh.List))
	}
	return mux
}
