package app

import (
	"reflect"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.Env != "dev" {
		t.Fatalf("Env = %q, want dev", cfg.Env)
	}
	if cfg.PGURL != "" || cfg.RedisAddr != "" {
		t.Fatal("archive and bus should default off")
	}
	if cfg.SendBuffer != 256 {
		t.Fatalf("SendBuffer = %d, want 256", cfg.SendBuffer)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SEND_BUFFER", "64")
	t.Setenv("CORS_ALLOW", "http://a.example, http://b.example ,")

	cfg := LoadConfig()
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.SendBuffer != 64 {
		t.Fatalf("SendBuffer = %d", cfg.SendBuffer)
	}
	want := []string{"http://a.example", "http://b.example"}
	if !reflect.DeepEqual(cfg.CORSAllow, want) {
		t.Fatalf("CORSAllow = %v, want %v", cfg.CORSAllow, want)
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("SEND_BUFFER", "not-a-number")
	cfg := LoadConfig()
	if cfg.SendBuffer != 256 {
		t.Fatalf("SendBuffer = %d, want default 256", cfg.SendBuffer)
	}
}
