package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "VIDEOS"

type Config struct {
	Server   Server
	Database Database
	Log      Log
	CORS     CORS
	AWS      AWS
	Export   Export
}

type Server struct {
	Addr            string
	Mode            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type Database struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

type Log struct {
	Level string
}

type CORS struct {
	AllowOrigins []string
}

type AWS struct {
	Region   string
	S3Bucket string
}

type Export struct {
	Prefix string
}

// Load reads configuration from path, or from config.yaml under cmd/config/
// and the working directory when path is empty. A missing file is not an
// error: defaults and VIDEOS_* environment variables still apply.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("cmd/config/")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Server: Server{
			Addr:            v.GetString("server.addr"),
			Mode:            v.GetString("server.mode"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: Database{
			Driver:       v.GetString("database.driver"),
			DSN:          v.GetString("database.dsn"),
			MaxOpenConns: v.GetInt("database.max_open_conns"),
		},
		Log: Log{
			Level: v.GetString("log.level"),
		},
		CORS: CORS{
			AllowOrigins: v.GetStringSlice("cors.allow_origins"),
		},
		AWS: AWS{
			Region:   v.GetString("aws.region"),
			S3Bucket: v.GetString("aws.s3_bucket"),
		},
		Export: Export{
			Prefix: v.GetString("export.prefix"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3003")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "videos.db")
	v.SetDefault("database.max_open_conns", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("cors.allow_origins", []string{"*"})
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.s3_bucket", "")
	v.SetDefault("export.prefix", "snapshots/")
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Database.DSN == "" {
		return errors.New("config: database.dsn is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("config: unknown log.level %q", c.Log.Level)
	}
	return nil
}

// LogLevel maps log.level onto the kratos filter level.
func (c *Config) LogLevel() log.Level {
	return log.ParseLevel(strings.ToUpper(c.Log.Level))
}
