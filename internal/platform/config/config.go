package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration. FromEnv keeps main lean; dev
// defaults let the server boot with in-memory stores and no collaborators.
type Server struct {
	Addr           string
	PostgresDSN    string
	RedisURL       string
	KafkaBrokers   []string
	AuditTopic     string
	StorageBaseURL string
	JWTSigningKey  string
	JWTIssuer      string
}

// UploadTimeout bounds the storage collaborator round trip. The pipeline does
// not retry; the caller re-invokes on failure.
var UploadTimeout = 30 * time.Second

func FromEnv() Server {
	cfg := Server{
		Addr:           envOr("PLANSIGN_ADDR", ":8080"),
		PostgresDSN:    os.Getenv("PLANSIGN_POSTGRES_DSN"),
		RedisURL:       os.Getenv("PLANSIGN_REDIS_URL"),
		AuditTopic:     envOr("PLANSIGN_AUDIT_TOPIC", "plansign.contract.audit"),
		StorageBaseURL: envOr("PLANSIGN_STORAGE_URL", "http://localhost:9090"),
		JWTSigningKey:  envOr("PLANSIGN_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		JWTIssuer:      envOr("PLANSIGN_JWT_ISSUER", "plansign"),
	}
	if brokers := os.Getenv("PLANSIGN_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
