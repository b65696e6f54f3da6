package config

import (
	"os"
	"strings"
	"time"
)

// Config captures process-level configuration for the registry server.
type Config struct {
	Addr          string
	JWTSigningKey string

	// Registry identity (the CreditMint record created at startup).
	MintName        string
	MintSymbol      string
	MintMetadataURI string
	MintAuthority   string

	// PostgresURL selects the durable store; empty means in-memory stores.
	PostgresURL string

	// Redis backs the custody ledger when configured; empty means the
	// in-memory ledger.
	Redis RedisConfig

	// Kafka event publishing; no brokers means events stay on the in-process
	// buffer only.
	KafkaBrokers []string
	KafkaTopic   string

	// Authorization allowlists for the external policy check. Empty lists
	// leave the corresponding operation open (development behavior).
	AuthorizedValidators []string
	AuthorizedCertifiers []string
}

// RedisConfig holds Redis connection tuning.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("TERRASPARK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	mintName := os.Getenv("MINT_NAME")
	if mintName == "" {
		mintName = "Green Hydrogen Credit"
	}
	mintSymbol := os.Getenv("MINT_SYMBOL")
	if mintSymbol == "" {
		mintSymbol = "GHC"
	}

	return Config{
		Addr:            addr,
		JWTSigningKey:   jwtSigningKey,
		MintName:        mintName,
		MintSymbol:      mintSymbol,
		MintMetadataURI: os.Getenv("MINT_METADATA_URI"),
		MintAuthority:   os.Getenv("MINT_AUTHORITY"),
		PostgresURL:     os.Getenv("POSTGRES_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaBrokers:         splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:           topicOrDefault(os.Getenv("KAFKA_TOPIC")),
		AuthorizedValidators: splitList(os.Getenv("AUTHORIZED_VALIDATORS")),
		AuthorizedCertifiers: splitList(os.Getenv("AUTHORIZED_CERTIFIERS")),
	}
}

func topicOrDefault(topic string) string {
	if topic == "" {
		return "terraspark.credit-events"
	}
	return topic
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
