package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.AppPort == "" {
		t.Fatalf("expected a default app port")
	}
	if cfg.CancelWindow != 30*time.Minute {
		t.Fatalf("expected default cancel window of 30m, got %v", cfg.CancelWindow)
	}
	if cfg.OTPExpires != 10*time.Minute {
		t.Fatalf("expected default OTP expiry of 10m, got %v", cfg.OTPExpires)
	}
	if !cfg.AdminCancelDelivered {
		t.Fatalf("expected admin cancel of delivered orders allowed by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CANCEL_WINDOW_MINUTES", "45")
	t.Setenv("ADMIN_CANCEL_DELIVERED", "false")
	t.Setenv("APP_ENV", "production")

	cfg := Load()

	if cfg.CancelWindow != 45*time.Minute {
		t.Fatalf("expected 45m cancel window, got %v", cfg.CancelWindow)
	}
	if cfg.AdminCancelDelivered {
		t.Fatalf("expected admin cancel of delivered orders disabled")
	}
	if cfg.IsDevelopment() {
		t.Fatalf("expected production mode")
	}
}
