package config

import (
	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/smartpos/pos-engine/pkg/logger"
)

const ConfigTagName = "env"
const ConfigDefaultTagName = "default"

var config *Config

// Config holds every tunable of the engine. Only this struct should be
// consulted for configuration values; no direct access to env, ini or
// any other config source should be made elsewhere.
type Config struct {
	AppEnv   string `env:"APP_ENV" default:"dev"`
	AppName  string `env:"APP_NAME" default:"pos_engine"`
	AppDebug bool   `env:"APP_DEBUG" default:"1"`

	// the boundary binds to loopback; the desktop UI is the only client
	HttpListenAddr string `env:"HTTP_LISTEN_ADDR" default:"127.0.0.1:8190"`

	DataDir      string `env:"DATA_DIR" default:"./data"`
	DatabaseFile string `env:"DATABASE_FILE" default:"pos.db"`

	ExportDir string `env:"EXPORT_DIR" default:"./data/exports"`

	LowStockThreshold int64 `env:"LOW_STOCK_THRESHOLD" default:"5"`

	PrinterURL        string `env:"PRINTER_URL" default:"http://127.0.0.1:8191"`
	PrinterTimeoutMs  int    `env:"PRINTER_TIMEOUT_MS" default:"5000"`
	PrinterMaxRetries int    `env:"PRINTER_MAX_RETRIES" default:"2"`

	// report cache; leave the address empty to run without redis
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASS"`
	RedisDatabase int    `env:"REDIS_DATABASE"`

	PromNamespace string `env:"PROM_NAMESPACE" default:"pos"`
	MetricsAddr   string `env:"METRICS_ADDR"`
	MetricsURI    string `env:"METRICS_URI" default:"/metrics"`

	LogLevel []string `env:"LOG_LEVEL"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	_, err = env.UnmarshalFromEnviron(c)

	if err != nil {
		return errors.New("failed to map env variables to Configuration object " + " error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
