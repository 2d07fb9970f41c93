package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Truella/Framez/internal/shared/httpx"
)

type memStorage struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStorage) Put(_ context.Context, key, contentType string, data []byte) error {
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memStorage) Remove(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestService(store Storage) *service {
	s := NewService(store, "post-images", "http://cdn.local/").(*service)
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return s
}

func TestCompressCapsWidth(t *testing.T) {
	out, err := Compress(bytes.NewReader(pngBytes(t, 2160, 1440)))
	if err != nil {
		t.Fatal(err)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if format != "jpeg" || cfg.Width != MaxWidth || cfg.Height != 720 {
		t.Fatalf("got %s %dx%d", format, cfg.Width, cfg.Height)
	}
}

func TestCompressNeverUpscales(t *testing.T) {
	out, err := Compress(bytes.NewReader(pngBytes(t, 640, 480)))
	if err != nil {
		t.Fatal(err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 640 || b.Dy() != 480 {
		t.Fatalf("got %v", b)
	}
}

func TestCompressRejectsNonImage(t *testing.T) {
	if _, err := Compress(strings.NewReader("plain text")); !errors.Is(err, ErrNotImage) {
		t.Fatalf("got %v", err)
	}
}

func TestUploadAndRemove(t *testing.T) {
	store := newMemStorage()
	svc := newTestService(store)
	ctx := context.Background()

	url, err := svc.Upload(ctx, "user-1", bytes.NewReader(pngBytes(t, 100, 100)))
	if err != nil {
		t.Fatal(err)
	}
	if want := "http://cdn.local/post-images/user-1/1700000000123.jpg"; url != want {
		t.Fatalf("url %q, want %q", url, want)
	}
	if store.types["user-1/1700000000123.jpg"] != "image/jpeg" {
		t.Fatalf("objects %v", store.types)
	}

	if err := svc.RemoveByURL(ctx, url); err != nil {
		t.Fatal(err)
	}
	if len(store.objects) != 0 {
		t.Fatal("object not removed")
	}
	if err := svc.RemoveByURL(ctx, "https://elsewhere.example/a.jpg"); err != nil {
		t.Fatal(err)
	}
}

func TestKeyFromURL(t *testing.T) {
	cases := map[string]string{
		"http://x/post-images/u/1.jpg":           "u/1.jpg",
		"http://x/storage/v1/post-images/u/2.jpg": "u/2.jpg",
		"http://x/other/u/1.jpg":                 "",
	}
	for in, want := range cases {
		if got := KeyFromURL(in, "post-images"); got != want {
			t.Errorf("%s: got %q want %q", in, got, want)
		}
	}
}

func TestOwner(t *testing.T) {
	svc := newTestService(newMemStorage())
	cases := map[string]string{
		"http://cdn.local/post-images/u1/1.jpg":     "u1",
		"http://cdn.local/post-images/u1/a/1.jpg":   "",
		"http://cdn.local/post-images/1.jpg":        "",
		"http://evil.test/post-images/u1/1.jpg":     "",
		"http://cdn.local/other/u1/1.jpg":           "",
		"http://cdn.local/post-images/u1/1.jpg?x=y": "",
	}
	for in, want := range cases {
		if got := svc.Owner(in); got != want {
			t.Errorf("%s: got %q want %q", in, got, want)
		}
	}
}

// hugePNG is a valid PNG whose header declares w x h; only the header is
// meaningful.
func hugePNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	b := pngBytes(t, 1, 1)
	binary.BigEndian.PutUint32(b[16:20], w)
	binary.BigEndian.PutUint32(b[20:24], h)
	binary.BigEndian.PutUint32(b[29:33], crc32.ChecksumIEEE(b[12:29]))
	return b
}

func TestCompressRejectsHugeCanvas(t *testing.T) {
	b := hugePNG(t, 30000, 30000)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil || cfg.Width != 30000 {
		t.Fatalf("header not rewritten: %+v %v", cfg, err)
	}
	if _, err := Compress(bytes.NewReader(b)); !errors.Is(err, ErrNotImage) {
		t.Fatalf("got %v", err)
	}

	h := NewHandler(newTestService(newMemStorage()))
	req := multipartUpload(t, b)
	req = req.WithContext(httpx.WithUser(req.Context(), "u1"))
	rec := httptest.NewRecorder()
	httpx.Wrap(h.Upload).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("code %d: %s", rec.Code, rec.Body)
	}
}

func multipartUpload(t *testing.T, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "photo.png")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/media/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadHandler(t *testing.T) {
	h := NewHandler(newTestService(newMemStorage()))

	req := multipartUpload(t, pngBytes(t, 50, 50))
	req = req.WithContext(httpx.WithUser(req.Context(), "user-2"))
	rec := httptest.NewRecorder()
	httpx.Wrap(h.Upload).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), "user-2/1700000000123.jpg") {
		t.Fatalf("code=%d body=%s", rec.Code, rec.Body)
	}
}
