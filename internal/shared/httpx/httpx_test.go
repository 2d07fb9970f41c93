package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Truella/Framez/internal/shared/jwt"
)

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var out APIError
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestWrapMapsErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   int
		reason string
	}{
		{"plain", errors.New("boom"), http.StatusBadRequest, ""},
		{"unauthorized", fmt.Errorf("load: %w", ErrUnauthorized), http.StatusUnauthorized, ""},
		{"status", Status(http.StatusForbidden, "not_owner", errors.New("nope")), http.StatusForbidden, "not_owner"},
		{"wrapped status", fmt.Errorf("x: %w", Status(http.StatusNotFound, "", errors.New("gone"))), http.StatusNotFound, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := Wrap(func(w http.ResponseWriter, r *http.Request) error { return tc.err })
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != tc.code {
				t.Fatalf("code %d, want %d", rec.Code, tc.code)
			}
			body := decodeAPIError(t, rec)
			if body.Status != tc.code || body.Reason != tc.reason || body.Error != tc.err.Error() {
				t.Fatalf("body %+v", body)
			}
		})
	}
}

func TestDecodeBadJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	_, err := Decode[map[string]string](r)
	var se *StatusError
	if !errors.As(err, &se) || se.Reason != "bad_json" {
		t.Fatalf("got %v", err)
	}
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	tok, _ := jwt.Make("u1")

	var got string
	h := AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromCtx(r)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized || decodeAPIError(t, rec).Reason != "missing_bearer" {
		t.Fatalf("missing bearer: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer junk")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || got != "u1" {
		t.Fatalf("code=%d uid=%q", rec.Code, got)
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	tok, _ := jwt.Make("u2")

	var viewer string
	h := OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer = ViewerFromCtx(r)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if viewer != "" {
		t.Fatalf("anonymous viewer %q", viewer)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if viewer != "u2" {
		t.Fatalf("viewer %q", viewer)
	}
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=20&offset=x", nil)
	if QueryInt(r, "limit", 50) != 20 || QueryInt(r, "offset", 0) != 0 || QueryInt(r, "missing", 7) != 7 {
		t.Fatal("QueryInt")
	}
}
