package config

import (
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	ShutdownGrace time.Duration
	CanvasStore   CanvasStoreConfig
	Dataset       DatasetConfig
	Insight       InsightConfig
}

type CanvasStoreConfig struct {
	// FilePath is the local fallback used when no Postgres DSN is set
	// (CANVAS_STORE_PG_DSN, read by the repository itself).
	FilePath string
}

type DatasetConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type InsightConfig struct {
	Enabled bool
	Model   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8082", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	return &Config{
		Port:          *port,
		Env:           env,
		ShutdownGrace: resolveShutdownGrace(),
		CanvasStore: CanvasStoreConfig{
			FilePath: firstNonEmpty(strings.TrimSpace(os.Getenv("CANVAS_STORE_PATH")), filepath.Join("tmp", "canvas_documents.json")),
		},
		Dataset: loadDatasetConfig(env),
		Insight: InsightConfig{
			Enabled: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")) != "",
			Model:   strings.TrimSpace(os.Getenv("GEMINI_MODEL")),
		},
	}, nil
}

func loadDatasetConfig(env string) DatasetConfig {
	endpoint := resolveDatasetEndpoint(env)
	return DatasetConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("DATASET_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("DATASET_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("DATASET_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("DATASET_S3_BUCKET")), "dfuse-datasets"),
		UseSSL:    resolveDatasetUseSSL(env),
	}
}

func resolveDatasetEndpoint(env string) string {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return firstNonEmpty(strings.TrimSpace(os.Getenv("DATASET_MINIO_ENDPOINT")), "minio:9000")
	}
	return strings.TrimSpace(os.Getenv("DATASET_S3_ENDPOINT"))
}

func resolveDatasetUseSSL(env string) bool {
	if strings.EqualFold(strings.TrimSpace(env), "local") {
		return false
	}
	raw := strings.TrimSpace(os.Getenv("DATASET_S3_USE_SSL"))
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func resolveShutdownGrace() time.Duration {
	raw := strings.TrimSpace(os.Getenv("SHUTDOWN_GRACE"))
	if raw == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
