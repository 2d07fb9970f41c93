package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/Truella/Framez/internal/feed"
	"github.com/Truella/Framez/internal/session"
)

var (
	_ feed.Backend = (*Client)(nil)
	_ session.Auth = (*Client)(nil)
)

// pageSize matches the server's largest page.
const pageSize = 50

// The viewer is carried by the bearer token; the viewerID arguments only
// satisfy feed.Backend.

func (c *Client) FetchFeed(ctx context.Context, _ string) ([]feed.Post, error) {
	return c.list(ctx, "/posts")
}

func (c *Client) FetchUserPosts(ctx context.Context, userID, _ string) ([]feed.Post, error) {
	return c.list(ctx, "/users/"+url.PathEscape(userID)+"/posts")
}

func (c *Client) FetchSavedPosts(ctx context.Context, _ string) ([]feed.Post, error) {
	return c.list(ctx, "/me/saved")
}

// list follows offset pages until a short one comes back. A post shifted
// onto the next page by a concurrent insert is kept once.
func (c *Client) list(ctx context.Context, path string) ([]feed.Post, error) {
	var (
		all  []feed.Post
		seen = make(map[string]struct{})
	)
	for offset := 0; ; offset += pageSize {
		var page wireList
		q := fmt.Sprintf("%s?limit=%d&offset=%d", path, pageSize, offset)
		if err := c.doJSON(ctx, http.MethodGet, q, nil, &page); err != nil {
			return nil, err
		}
		for _, p := range page.toPosts() {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			all = append(all, p)
		}
		if len(page.Items) < pageSize {
			return all, nil
		}
	}
}

func (c *Client) CreatePost(ctx context.Context, _ string, content, imageRef string) (feed.Post, error) {
	in := map[string]string{"content": content, "image_url": imageRef}
	var out wirePost
	if err := c.doJSON(ctx, http.MethodPost, "/posts", in, &out); err != nil {
		return feed.Post{}, err
	}
	return out.toPost(), nil
}

// DeletePost deletes the post; the server also removes its stored image.
func (c *Client) DeletePost(ctx context.Context, postID, _ string) error {
	return c.doJSON(ctx, http.MethodDelete, "/posts/"+url.PathEscape(postID), nil, nil)
}

func (c *Client) ToggleLike(ctx context.Context, _ string, postID string) (feed.LikeResult, error) {
	var out wireLike
	if err := c.doJSON(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/like", nil, &out); err != nil {
		return feed.LikeResult{}, err
	}
	return feed.LikeResult{Liked: *out.Liked, Count: int(*out.Count)}, nil
}

func (c *Client) ToggleSave(ctx context.Context, _ string, postID string) (bool, error) {
	var out wireSave
	if err := c.doJSON(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/save", nil, &out); err != nil {
		return false, err
	}
	return *out.Saved, nil
}

// UploadImage streams the local file at localRef to the media endpoint and
// returns the public URL of the compressed copy.
func (c *Client) UploadImage(ctx context.Context, localRef, _ string) (string, error) {
	f, err := os.Open(localRef)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(localRef))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/media/upload", pr)
	if err != nil {
		_ = pr.Close()
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out wireUpload
	if err := c.send(req, &out); err != nil {
		_ = pr.CloseWithError(err)
		return "", err
	}
	return out.URL, nil
}
