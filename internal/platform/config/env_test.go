package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"TRACKMEET_TEST_PORT" envDefault:"123"`
}

type prefixedTestConfig struct {
	GroupSize int    `env:"GROUP_SIZE" envDefault:"8"`
	DBPath    string `env:"DB_PATH"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("TRACKMEET_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithPrefix(t *testing.T) {
	t.Setenv("TRACKMEET_TEST_GROUP_SIZE", "6")
	t.Setenv("TRACKMEET_TEST_DB_PATH", "/tmp/meet.db")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, EnvPrefix+"TEST_"); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.GroupSize != 6 {
		t.Fatalf("group size = %d, want 6", cfg.GroupSize)
	}
	if cfg.DBPath != "/tmp/meet.db" {
		t.Fatalf("db path = %q, want /tmp/meet.db", cfg.DBPath)
	}
}
