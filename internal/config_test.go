package internal

import (
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_TokenMode(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "secret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}

	cfg.Token = ""
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestSaveConfig_Validation(t *testing.T) {
	cases := []struct {
		name string
		cfg  SaveConfig
		ok   bool
	}{
		{"defaults", SaveConfig{Dir: ".", Extension: ".sav", HeaderSize: 4}, true},
		{"no header", SaveConfig{Dir: ".", Extension: ".sav", HeaderSize: 0}, true},
		{"negative header", SaveConfig{Dir: ".", Extension: ".sav", HeaderSize: -1}, false},
		{"extension without dot", SaveConfig{Dir: ".", Extension: "sav", HeaderSize: 4}, false},
		{"missing dir", SaveConfig{Extension: ".sav", HeaderSize: 4}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestApplicationConfig_Validation(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.Color = "sometimes"
	if err := cfg.Validate(); err == nil {
		t.Error("invalid colour mode should fail")
	}
	cfg = NewDefaultConfig()
	cfg.App.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("invalid format should fail")
	}
	cfg = NewDefaultConfig()
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("out-of-range port should fail")
	}
}

func TestSearchConfig_Options(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Search.CaseSensitive = true
	opts := cfg.Search.Options()
	if !opts.CaseSensitive || opts.PreviewLimit != 120 {
		t.Errorf("options = %+v", opts)
	}
	cfg.Search.PreviewLimit = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero preview limit should fail")
	}
}

func TestHTTPConfig_RateLimit(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.RateLimit = -1
	if err := cfg.Validate(); err == nil {
		t.Error("negative rate limit should fail")
	}
	cfg.App.HTTP.RateLimit = 2.5
	if err := cfg.Validate(); err != nil {
		t.Errorf("positive rate limit should pass: %v", err)
	}
	if got := cfg.App.HTTP.Address(); got != ":8080" {
		t.Errorf("address = %q", got)
	}
}
