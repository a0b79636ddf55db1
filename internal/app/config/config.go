package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string `env:"APP_HTTP_ADDR" envDefault:":8081"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"0"`
	// Empty means the migrations embedded in the binary.
	MigrationsDir string `env:"MIGRATIONS_DIR"`

	KafkaBrokers       []string `env:"KAFKA_BROKERS,required,notEmpty" envSeparator:","`
	KafkaTopic         string   `env:"KAFKA_TOPIC" envDefault:"orders"`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"orders-service"`
	KafkaChangesTopic  string   `env:"KAFKA_CHANGES_TOPIC" envDefault:"os-changes"`
	KafkaMinBytes      int      `env:"KAFKA_MIN_BYTES" envDefault:"1000"`
	KafkaMaxBytes      int      `env:"KAFKA_MAX_BYTES" envDefault:"10000000"`

	CacheWarmLimit int `env:"CACHE_WARM_LIMIT" envDefault:"100"`

	// Number -> key mappings. A non-empty RedisURL shares them between
	// replicas; otherwise each process keeps its own LRU.
	ResolverCacheTTL        time.Duration `env:"RESOLVER_CACHE_TTL" envDefault:"5m"`
	ResolverCacheMaxEntries int           `env:"RESOLVER_CACHE_MAX_ENTRIES" envDefault:"1000"`
	RedisURL                string        `env:"REDIS_URL"`

	ShareLinkTTL    time.Duration `env:"SHARE_LINK_TTL" envDefault:"168h"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads an optional dotenv file (ENV_FILE, default .env) and then the
// process environment. Variables already set in the environment win.
func Load() (Config, error) {
	file := os.Getenv("ENV_FILE")
	if file == "" {
		file = ".env"
	}
	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", file, err)
	}

	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	c.KafkaBrokers = splitCSV(strings.Join(c.KafkaBrokers, ","))
	if len(c.KafkaBrokers) == 0 {
		return Config{}, errors.New("KAFKA_BROKERS is required")
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return Config{}, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if c.DBMinConns > c.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}

	return c, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
