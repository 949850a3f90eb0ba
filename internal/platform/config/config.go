package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the server needs at startup. Values come from the
// environment (optionally seeded from a .env file) so main stays lean.
type Config struct {
	Addr string

	// StoreBackend selects the approval store: "memory" or "postgres".
	StoreBackend string
	DatabaseURL  string

	// EventSink selects the outbound event channel: "none", "log", "kafka"
	// or "redis".
	EventSink           string
	KafkaBrokers        []string
	KafkaTopic          string
	RedisURL            string
	RedisStream         string
	EventPublishTimeout time.Duration

	// ExtractorURL points at the external OCR/field-extraction service. Empty
	// means extraction endpoints report the upstream as unavailable.
	ExtractorURL string

	Rules RulesConfig
}

// RulesConfig mirrors the approval-rule knobs. Defaults match the documented
// configuration surface: $500 threshold, 0.85 confidence, both keyword checks
// enabled, empty whitelist (accept-all).
type RulesConfig struct {
	AmountThreshold       float64
	MinConfidence         float64
	RequireInvoiceKeyword bool
	RejectReceiptKeyword  bool
	AllowedBillToNames    []string
}

// FromEnv builds a Config from environment variables. A .env file in the
// working directory is loaded first when present; real environment variables
// win over file entries.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Addr:                getString("ADDR", ":8080"),
		StoreBackend:        getString("STORE_BACKEND", "memory"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		EventSink:           getString("EVENT_SINK", "log"),
		KafkaBrokers:        splitList(getString("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:          getString("KAFKA_TOPIC", "invoice-events"),
		RedisURL:            os.Getenv("REDIS_URL"),
		RedisStream:         getString("REDIS_STREAM", "invoice-events"),
		EventPublishTimeout: getDuration("EVENT_PUBLISH_TIMEOUT", 5*time.Second),
		ExtractorURL:        os.Getenv("EXTRACTOR_URL"),
		Rules: RulesConfig{
			AmountThreshold:       getFloat("APPROVAL_AMOUNT_THRESHOLD", 500.0),
			MinConfidence:         getFloat("APPROVAL_MIN_CONFIDENCE", 0.85),
			RequireInvoiceKeyword: getBool("APPROVAL_REQUIRE_INVOICE_KEYWORD", true),
			RejectReceiptKeyword:  getBool("APPROVAL_REJECT_RECEIPT_KEYWORD", true),
			AllowedBillToNames:    splitList(os.Getenv("APPROVAL_ALLOWED_BILL_TO_NAMES")),
		},
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

// splitList parses a comma-separated list, trimming whitespace and dropping
// empty entries. An empty input yields a nil slice.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
