package config

import (
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "ai_models_test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.MongoDB.Database != "ai_models_test" {
		t.Fatalf("unexpected config values: %+v", cfg)
	}
	if cfg.Server.Port != "5174" {
		t.Fatalf("Server.Port = %q, want default 5174", cfg.Server.Port)
	}
}

func TestLoadConfigRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGODB_URI", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when MONGODB_URI is unset")
	}
}

func TestAuthDefaultsToEnforcing(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("AUTH_DISABLED", "")
	t.Setenv("ALLOW_INSECURE_TOKEN", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Auth.Disabled {
		t.Fatalf("auth bypass must never be the default")
	}
	if cfg.Auth.AllowInsecureToken {
		t.Fatalf("insecure token mode must never be the default")
	}
}
