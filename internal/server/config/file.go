package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/flagx"
	"github.com/dmitrijs2005/gophjournal/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the optional config file. Durations
// use timex.Duration so both "1h" and integer nanoseconds are accepted.
// Only fields present in the file override the current values.
type FileConfig struct {
	Env              string         `json:"env" yaml:"env"`
	EndpointAddrHTTP string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn" yaml:"database_dsn"`
	SecretKey        string         `json:"secret_key" yaml:"secret_key"`
	SessionTTL       timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	BcryptCost       int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	RedisURL         string         `json:"redis_url" yaml:"redis_url"`
	AllowedOrigins   []string       `json:"allowed_origins" yaml:"allowed_origins"`
	StaticDir        string         `json:"static_dir" yaml:"static_dir"`
	RequestTimeout   timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	LogLevel         string         `json:"log_level" yaml:"log_level"`
	S3RootUser       string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region         string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
}

// parseFile loads the file named by -c/-config, if any. Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON. An unreadable
// or malformed file is a startup error, so parseFile panics.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *FileConfig) apply(config *Config) {
	overlay(&config.Env, c.Env)
	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	if c.SessionTTL.Duration > 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	overlay(&config.RedisURL, c.RedisURL)
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	overlay(&config.StaticDir, c.StaticDir)
	if c.RequestTimeout.Duration > 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	overlay(&config.LogLevel, c.LogLevel)
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
