package store

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

func TestKeyMaker_Pattern(t *testing.T) {
	km := NewKeyMaker("uploads/")

	key := km.Key("photo.png")

	matched, err := regexp.MatchString(`^uploads/\d+_photo\.png$`, key)
	if err != nil {
		t.Fatalf("bad pattern: %v", err)
	}
	if !matched {
		t.Errorf("key '%s' does not match uploads/<digits>_photo.png", key)
	}
}

func TestKeyMaker_FilenameSuffix(t *testing.T) {
	km := NewKeyMaker("uploads/")

	for _, name := range []string{"a.png", "attendance_123.png", "x.jpeg"} {
		key := km.Key(name)
		if !strings.HasSuffix(key, "_"+name) {
			t.Errorf("key '%s' does not end with filename '%s'", key, name)
		}
	}
}

func TestKeyMaker_SameMillisecondNeverCollides(t *testing.T) {
	frozen := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	km := NewKeyMaker("uploads/").WithClock(func() time.Time { return frozen })

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		key := km.Key("photo.png")
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key '%s' on iteration %d", key, i)
		}
		seen[key] = struct{}{}
	}
}

func TestKeyMaker_StripsPathComponents(t *testing.T) {
	km := NewKeyMaker("uploads/")

	key := km.Key("../../etc/passwd")

	if strings.Contains(key, "..") {
		t.Errorf("key '%s' contains path traversal", key)
	}
	if !strings.HasSuffix(key, "_passwd") {
		t.Errorf("key '%s' should end with base name", key)
	}
}

func TestKeyMaker_ConcurrentDistinct(t *testing.T) {
	km := NewKeyMaker("uploads/")

	keys := make(chan string, 50)
	for i := 0; i < 50; i++ {
		go func() { keys <- km.Key("photo.png") }()
	}

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		key := <-keys
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate key '%s'", key)
		}
		seen[key] = struct{}{}
	}
}
