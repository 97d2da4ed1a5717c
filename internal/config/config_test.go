package config

import "testing"

func TestDefaultIsInvalidUntilPortAndRootSet(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() on Default() = nil, want an error (missing port/root)")
	}

	cfg.Port = "8080"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() with missing document_root = nil, want an error")
	}

	cfg.DocumentRoot = "/srv/www"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with port and root set = %v, want nil", err)
	}
}

func TestValidateRejectsZeroMaxConnections(t *testing.T) {
	cfg := Default()
	cfg.Port, cfg.DocumentRoot = "8080", "/srv/www"
	cfg.MaxConnections = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with MaxConnections = 0, want an error")
	}
}

func TestValidateRejectsSecurityHeadersWithoutTrailingBlankLine(t *testing.T) {
	cfg := Default()
	cfg.Port, cfg.DocumentRoot = "8080", "/srv/www"
	cfg.SecurityHeaders = "X-Test: 1\r\n"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with no trailing blank line, want an error")
	}
}

func TestPollTimeout(t *testing.T) {
	cfg := Default()
	cfg.TimeoutMS = 1000
	if got := cfg.PollTimeout().Milliseconds(); got != 1000 {
		t.Errorf("PollTimeout() = %dms, want 1000ms", got)
	}
}
