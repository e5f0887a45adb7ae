package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Server     ServerConfig
	AWS        AWSConfig
	Storage    StorageConfig
	Records    RecordsConfig
	Face       FaceConfig
	Auth       AuthConfig
	Attendance AttendanceConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type AWSConfig struct {
	Region   string
	Endpoint string // optional custom endpoint for LocalStack-style setups
}

type StorageConfig struct {
	Bucket          string // bucket receiving attendance captures
	AnalyticsBucket string // bucket receiving aggregated analytics output
}

type RecordsConfig struct {
	Table              string // attendance records table
	RegistrationsTable string // face registration metadata table
}

type FaceConfig struct {
	CollectionID   string
	MatchThreshold float32 // minimum similarity (percent) for a face match
}

type AuthConfig struct {
	JWTSecret string
}

type AttendanceConfig struct {
	DailyLimit int           // max marks per employee per calendar day
	KeyPrefix  string        // object key namespace for uploads
	PresignTTL time.Duration // validity window of issued upload URLs
}

// defaultsFile mirrors the structure of the embedded defaults.yaml.
type defaultsFile struct {
	Attendance struct {
		DailyLimit        int    `yaml:"daily_limit"`
		KeyPrefix         string `yaml:"key_prefix"`
		PresignTTLSeconds int    `yaml:"presign_ttl_seconds"`
	} `yaml:"attendance"`
	Face struct {
		MatchThreshold float32 `yaml:"match_threshold"`
	} `yaml:"face"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat32 reads an environment variable and parses it as a positive float.
func envFloat32(key string, defaultVal float32) float32 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 32); err == nil && f > 0 {
		return float32(f)
	}
	return defaultVal
}

// envString reads an environment variable with a fallback default.
func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	var defaults defaultsFile
	if err := yaml.Unmarshal(defaultsYAML, &defaults); err != nil {
		// This is an embedded file so this error should never happen in practice.
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	return &Config{
		Server: ServerConfig{
			Host: envString("WEB_HOST", "0.0.0.0"),
			Port: envInt("WEB_PORT", 8080),
		},
		AWS: AWSConfig{
			Region:   os.Getenv("AWS_REGION"),
			Endpoint: os.Getenv("AWS_ENDPOINT_URL"),
		},
		Storage: StorageConfig{
			Bucket:          os.Getenv("ATTENDANCE_BUCKET"),
			AnalyticsBucket: os.Getenv("ANALYTICS_BUCKET"),
		},
		Records: RecordsConfig{
			Table:              os.Getenv("ATTENDANCE_TABLE"),
			RegistrationsTable: envString("REGISTRATIONS_TABLE", "FaceRegistrations"),
		},
		Face: FaceConfig{
			CollectionID:   os.Getenv("FACE_COLLECTION_ID"),
			MatchThreshold: envFloat32("FACE_MATCH_THRESHOLD", defaults.Face.MatchThreshold),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		},
		Attendance: AttendanceConfig{
			DailyLimit: envInt("ATTENDANCE_DAILY_LIMIT", defaults.Attendance.DailyLimit),
			KeyPrefix:  envString("UPLOAD_KEY_PREFIX", defaults.Attendance.KeyPrefix),
			PresignTTL: time.Duration(envInt("PRESIGN_TTL_SECONDS", defaults.Attendance.PresignTTLSeconds)) * time.Second,
		},
	}
}

// Validate checks that every value the attendance workflow depends on is
// present. It reports all missing values at once so operators can fix the
// environment in a single pass.
func (c *Config) Validate() error {
	var missing []string
	if c.Storage.Bucket == "" {
		missing = append(missing, "ATTENDANCE_BUCKET")
	}
	if c.Records.Table == "" {
		missing = append(missing, "ATTENDANCE_TABLE")
	}
	if c.Face.CollectionID == "" {
		missing = append(missing, "FACE_COLLECTION_ID")
	}
	if c.Auth.JWTSecret == "" {
		missing = append(missing, "AUTH_JWT_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v", missing)
	}
	if c.Attendance.DailyLimit <= 0 {
		return errors.New("daily limit must be positive")
	}
	if c.Attendance.PresignTTL <= 0 {
		return errors.New("presign TTL must be positive")
	}
	return nil
}

// ValidateAnalytics checks the additional values the aggregation job needs.
func (c *Config) ValidateAnalytics() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Storage.AnalyticsBucket == "" {
		return errors.New("missing required configuration: [ANALYTICS_BUCKET]")
	}
	return nil
}
