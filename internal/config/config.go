package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	Env         string
	AutoMigrate bool

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisHost string
	RedisPort string

	KafkaBrokers string
	KafkaGroupID string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string
	S3UseSSL    bool

	RateLimitPerMin int64

	OTELEndpoint    string
	OTELServiceName string
	OTELSampleRatio float64
}

// Load reads the environment, after merging a local .env when present.
func Load() *Config {
	_ = godotenv.Load()

	endpoint := getEnv("S3_ENDPOINT", "minio:9000")
	return &Config{
		AppPort:     getEnv("APP_PORT", ":8080"),
		Env:         getEnv("ENV", "dev"),
		AutoMigrate: getEnv("AUTO_MIGRATE", "true") == "true",

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBUser: getEnv("DB_USER", "framez"),
		DBPass: getEnv("DB_PASSWORD", "framez"),
		DBName: getEnv("DB_NAME", "framez"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),

		KafkaBrokers: getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "framez-notifications"),

		S3Endpoint:  endpoint,
		S3AccessKey: getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey: getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:    getEnv("S3_BUCKET", "post-images"),
		S3PublicURL: getEnv("S3_PUBLIC_URL", "http://"+endpoint),
		S3UseSSL:    getEnv("S3_USE_SSL", "false") == "true",

		RateLimitPerMin: int64(atoiDef(os.Getenv("RATE_LIMIT_PER_MIN"), 60)),

		OTELEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTELServiceName: getEnv("OTEL_SERVICE_NAME", "framez-api"),
		OTELSampleRatio: ratioDef(os.Getenv("OTEL_TRACES_SAMPLER_ARG"), 1.0),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func GetEnv(key, fallback string) string { return getEnv(key, fallback) }

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func atoiDef(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func ratioDef(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f > 1 {
		return def
	}
	return f
}
