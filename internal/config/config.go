package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig bundles everything the service needs at startup.
type AppConfig struct {
	ListenAddr    string `envconfig:"LISTEN_ADDR"`
	Port          string `envconfig:"PORT" default:"8080"`
	DatabasePath  string `envconfig:"DATABASE_PATH" default:"studylog.db"`
	SessionSecret string `envconfig:"SESSION_SECRET" default:"studylog-dev-secret"`
	GinMode       string `envconfig:"GIN_MODE" default:"release"`
	UploadDir     string `envconfig:"UPLOAD_DIR" default:"data/uploads"`
	UploadURLPath string `envconfig:"UPLOAD_URL_PATH" default:"/static/uploads"`

	SuperRootUserName string `envconfig:"SUPER_ROOT_USER_NAME"`
	SuperRootPassword string `envconfig:"SUPER_ROOT_PASSWORD"`

	DefaultAuthorName    string `envconfig:"DEFAULT_AUTHOR_NAME" default:"StudyLog Team"`
	DefaultAuthorPicture string `envconfig:"DEFAULT_AUTHOR_PICTURE"`

	LogDir        string `envconfig:"LOG_DIR" default:"logs"`
	LogFilename   string `envconfig:"LOG_FILENAME" default:"studylog.log"`
	LogMaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	LogMaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"7"`
	LogMaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"30"`
}

// Load reads configuration from the environment, after sourcing an
// optional .env file for local development. Missing keys fall back to
// safe defaults.
func Load() (AppConfig, error) {
	// A missing .env is fine; real deployments configure the process
	// environment directly.
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return AppConfig{}, err
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = fmt.Sprintf(":%s", cfg.Port)
	}

	return cfg, nil
}
