package main

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/Truella/Framez/internal/api/apitest"
)

type cli struct {
	t         *testing.T
	url, data string
}

func (c cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out bytes.Buffer
	err := execute(context.Background(), append([]string{"--server", c.url, "--data", c.data}, args...), &out)
	return out.String(), err
}

func (c cli) must(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("framez %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestCLI(t *testing.T) {
	srv := apitest.New(t)
	c := cli{t: t, url: srv.URL, data: t.TempDir()}

	if _, err := c.run("feed"); !errors.Is(err, errSignedOut) {
		t.Fatalf("feed while signed out: %v", err)
	}

	out := c.must("signup", "--email", "kim@example.com", "--password", "password123",
		"--confirm", "password123", "--username", "Kim_1", "--name", "Kim")
	if !strings.Contains(out, "@kim_1") {
		t.Fatalf("signup output %q", out)
	}
	if out := c.must("whoami"); !strings.Contains(out, "kim@example.com") {
		t.Fatalf("whoami %q", out)
	}

	out = c.must("post", "--text", "hello from the terminal")
	m := regexp.MustCompile(`posted (\S+)`).FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("post output %q", out)
	}
	id := m[1]

	if out := c.must("feed"); !strings.Contains(out, "hello from the terminal") {
		t.Fatalf("feed %q", out)
	}
	if out := c.must("like", id); !strings.Contains(out, "liked "+id+" (1 likes)") {
		t.Fatalf("like %q", out)
	}
	if out := c.must("save", id); !strings.Contains(out, "saved "+id) {
		t.Fatalf("save %q", out)
	}
	if out := c.must("saved"); !strings.Contains(out, id) {
		t.Fatalf("saved %q", out)
	}
	if out := c.must("mine"); !strings.Contains(out, id) {
		t.Fatalf("mine %q", out)
	}

	if out := c.must("theme", "dark"); strings.TrimSpace(out) != "dark" {
		t.Fatalf("theme %q", out)
	}
	if out := c.must("theme"); strings.TrimSpace(out) != "dark" {
		t.Fatalf("theme not persisted: %q", out)
	}
	if _, err := c.run("theme", "purple"); err == nil {
		t.Fatal("expected invalid theme error")
	}

	c.must("delete", id)
	if out := c.must("feed", "--force"); strings.Contains(out, id) {
		t.Fatalf("deleted post still listed %q", out)
	}

	c.must("signout")
	if _, err := c.run("whoami"); !errors.Is(err, errSignedOut) {
		t.Fatalf("whoami after signout: %v", err)
	}
}
