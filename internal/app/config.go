package app

import (
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (SHOPVIEW_ prefix), flags, or YAML config files.
type Config struct {
	Addr string `default:"0.0.0.0:8080" usage:"API server listen address"`

	// CatalogURL is the base URL of the dummyjson-style product feed.
	CatalogURL string `default:"https://dummyjson.com" usage:"Product feed base URL" flag:"catalog-url"`
	// SnapshotPath, when set, loads the catalog from a local snapshot file
	// (plain or .gz) instead of the remote feed.
	SnapshotPath string `default:"" usage:"Local catalog snapshot path (overrides catalog URL)" flag:"snapshot-path"`

	PageSize   int           `default:"10"  usage:"Products per page"`
	NoticeTTL  time.Duration `default:"3s"  usage:"Transient notice lifetime" flag:"notice-ttl"`
	SessionTTL time.Duration `default:"30m" usage:"Idle session eviction threshold" flag:"session-ttl"`

	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// RateLimitConfig controls the per-client rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, flags, and YAML
// config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOPVIEW",
		Files:     []string{"config.yaml", "/etc/shopview/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &cfg, nil
}
