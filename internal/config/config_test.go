package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "S3_BUCKET", "S3_ENDPOINT", "S3_PUBLIC_URL", "RATE_LIMIT_PER_MIN", "OTEL_TRACES_SAMPLER_ARG"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.AppPort != ":8080" {
		t.Fatalf("port %q", c.AppPort)
	}
	if c.S3Bucket != "post-images" {
		t.Fatalf("bucket %q", c.S3Bucket)
	}
	if c.S3PublicURL != "http://minio:9000" {
		t.Fatalf("public url %q", c.S3PublicURL)
	}
	if c.RateLimitPerMin != 60 || c.OTELSampleRatio != 1.0 {
		t.Fatalf("limit=%d ratio=%v", c.RateLimitPerMin, c.OTELSampleRatio)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_NAME", "feed")
	t.Setenv("RATE_LIMIT_PER_MIN", "5")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "7")
	c := Load()
	if got, want := c.DSN(), "host=db port=5433 user=u password=p dbname=feed sslmode=disable"; got != want {
		t.Fatalf("dsn %q, want %q", got, want)
	}
	if c.RateLimitPerMin != 5 {
		t.Fatalf("limit %d", c.RateLimitPerMin)
	}
	if c.OTELSampleRatio != 1.0 {
		t.Fatalf("out-of-range ratio accepted: %v", c.OTELSampleRatio)
	}
}
