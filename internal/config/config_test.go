package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	Load()

	if Cfg.Port != "8080" {
		t.Errorf("Port = %q", Cfg.Port)
	}
	if Cfg.StrictRecencyWindow != 90*24*time.Hour {
		t.Errorf("StrictRecencyWindow = %v", Cfg.StrictRecencyWindow)
	}
	if Cfg.RelaxedRecencyWindow != 365*24*time.Hour {
		t.Errorf("RelaxedRecencyWindow = %v", Cfg.RelaxedRecencyWindow)
	}
	if Cfg.MaxPOIs != 25 || Cfg.EventsMaxPOIs != 15 {
		t.Errorf("MaxPOIs/EventsMaxPOIs = %d/%d", Cfg.MaxPOIs, Cfg.EventsMaxPOIs)
	}
	if !Cfg.GzipEnabled {
		t.Error("GzipEnabled should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MAX_POIS", "5")
	t.Setenv("PROBE_TIMEOUT", "3s")
	t.Setenv("GZIP_ENABLED", "false")

	Load()

	if Cfg.Port != "9999" {
		t.Errorf("Port = %q", Cfg.Port)
	}
	if Cfg.MaxPOIs != 5 {
		t.Errorf("MaxPOIs = %d", Cfg.MaxPOIs)
	}
	if Cfg.ProbeTimeout != 3*time.Second {
		t.Errorf("ProbeTimeout = %v", Cfg.ProbeTimeout)
	}
	if Cfg.GzipEnabled {
		t.Error("GzipEnabled should be off")
	}
}

func TestEnvHelpersIgnoreMalformed(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")
	t.Setenv("FETCH_TIMEOUT", "soon")
	t.Setenv("GZIP_ENABLED", "sure")

	Load()

	if Cfg.RateLimitRPS != 30 {
		t.Errorf("RateLimitRPS = %d, want the default", Cfg.RateLimitRPS)
	}
	if Cfg.FetchTimeout != 30*time.Second {
		t.Errorf("FetchTimeout = %v, want the default", Cfg.FetchTimeout)
	}
	if !Cfg.GzipEnabled {
		t.Error("malformed bool should keep the default")
	}
}
