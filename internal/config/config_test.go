package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Attendance.DailyLimit != 2 {
		t.Errorf("expected default daily limit 2, got %d", cfg.Attendance.DailyLimit)
	}

	if cfg.Attendance.KeyPrefix != "uploads/" {
		t.Errorf("expected default key prefix 'uploads/', got '%s'", cfg.Attendance.KeyPrefix)
	}

	if cfg.Attendance.PresignTTL != 300*time.Second {
		t.Errorf("expected default presign TTL 300s, got %s", cfg.Attendance.PresignTTL)
	}

	if cfg.Face.MatchThreshold != 90 {
		t.Errorf("expected default match threshold 90, got %v", cfg.Face.MatchThreshold)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ATTENDANCE_DAILY_LIMIT", "3")
	t.Setenv("FACE_MATCH_THRESHOLD", "95")
	t.Setenv("PRESIGN_TTL_SECONDS", "60")
	t.Setenv("ATTENDANCE_BUCKET", "captures")

	cfg := Load()

	if cfg.Attendance.DailyLimit != 3 {
		t.Errorf("expected daily limit 3, got %d", cfg.Attendance.DailyLimit)
	}

	if cfg.Face.MatchThreshold != 95 {
		t.Errorf("expected match threshold 95, got %v", cfg.Face.MatchThreshold)
	}

	if cfg.Attendance.PresignTTL != time.Minute {
		t.Errorf("expected presign TTL 60s, got %s", cfg.Attendance.PresignTTL)
	}

	if cfg.Storage.Bucket != "captures" {
		t.Errorf("expected bucket 'captures', got '%s'", cfg.Storage.Bucket)
	}
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("ATTENDANCE_DAILY_LIMIT", "-1")
	t.Setenv("PRESIGN_TTL_SECONDS", "not-a-number")

	cfg := Load()

	if cfg.Attendance.DailyLimit != 2 {
		t.Errorf("expected fallback daily limit 2, got %d", cfg.Attendance.DailyLimit)
	}

	if cfg.Attendance.PresignTTL != 300*time.Second {
		t.Errorf("expected fallback presign TTL 300s, got %s", cfg.Attendance.PresignTTL)
	}
}

func validTestConfig() *Config {
	cfg := Load()
	cfg.Storage.Bucket = "captures"
	cfg.Storage.AnalyticsBucket = "analytics"
	cfg.Records.Table = "AttendanceLogs"
	cfg.Face.CollectionID = "faces"
	cfg.Auth.JWTSecret = "secret"
	return cfg
}

func TestValidate_AllPresent(t *testing.T) {
	if err := validTestConfig().Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidate_ReportsAllMissing(t *testing.T) {
	cfg := validTestConfig()
	cfg.Storage.Bucket = ""
	cfg.Face.CollectionID = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	for _, name := range []string{"ATTENDANCE_BUCKET", "FACE_COLLECTION_ID"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("expected error to mention %s, got %v", name, err)
		}
	}
}

func TestValidateAnalytics_RequiresBucket(t *testing.T) {
	cfg := validTestConfig()
	cfg.Storage.AnalyticsBucket = ""

	err := cfg.ValidateAnalytics()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "ANALYTICS_BUCKET") {
		t.Errorf("expected error to mention ANALYTICS_BUCKET, got %v", err)
	}
}
