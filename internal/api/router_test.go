package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/Truella/Framez/internal/api/apitest"
	"github.com/Truella/Framez/internal/shared/httpx"
)

func TestRoutes(t *testing.T) {
	srv := apitest.New(t)

	cases := []struct {
		method, path, body string
		code               int
		reason             string
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK, ""},
		{http.MethodGet, "/posts", "", http.StatusOK, ""},
		{http.MethodGet, "/posts/missing", "", http.StatusNotFound, "not_found"},
		{http.MethodGet, "/users/missing", "", http.StatusNotFound, "not_found"},
		{http.MethodPost, "/posts", `{"content":"hi"}`, http.StatusUnauthorized, "missing_bearer"},
		{http.MethodPost, "/posts/x/like", "", http.StatusUnauthorized, "missing_bearer"},
		{http.MethodGet, "/me/saved", "", http.StatusUnauthorized, "missing_bearer"},
		{http.MethodPost, "/auth/signup", `{"email":"bad","password":"x"}`, http.StatusBadRequest, "validation"},
		{http.MethodPost, "/auth/signup", `{`, http.StatusBadRequest, "bad_json"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req, _ := http.NewRequest(tc.method, srv.URL+tc.path, strings.NewReader(tc.body))
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.code {
				b, _ := io.ReadAll(resp.Body)
				t.Fatalf("code %d, want %d: %s", resp.StatusCode, tc.code, b)
			}
			if tc.reason == "" {
				return
			}
			var apiErr httpx.APIError
			if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
				t.Fatal(err)
			}
			if apiErr.Reason != tc.reason || apiErr.Status != tc.code {
				t.Fatalf("got %+v", apiErr)
			}
		})
	}
}
