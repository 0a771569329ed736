package internal

import (
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestHTTPConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"valid port", 8080, false},
		{"zero port", 0, true},
		{"negative port", -1, true},
		{"port too large", 70000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := HTTPConfig{Port: tt.port}
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCacheConfigRequiresPath(t *testing.T) {
	c := CacheConfig{}
	if err := c.Validate(); err == nil {
		t.Error("expected error for empty cache path")
	}
}

func TestNotionConfigValidate(t *testing.T) {
	c := NotionConfig{BaseURL: "https://api.notion.com", Version: "2022-06-28"}
	if err := c.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	c.Version = ""
	if err := c.Validate(); err == nil {
		t.Error("expected error for missing version")
	}
}

func TestAuthConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AuthConfig
		wantErr bool
	}{
		{"disabled", AuthConfig{Mode: AuthModeDisabled}, false},
		{"empty mode normalised to disabled", AuthConfig{}, false},
		{"token mode with token", AuthConfig{Mode: AuthModeToken, Token: "s3cret"}, false},
		{"token mode without token", AuthConfig{Mode: AuthModeToken}, true},
		{"unknown mode", AuthConfig{Mode: "mtls"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAuthEnabled(t *testing.T) {
	if (&AuthConfig{Mode: AuthModeDisabled}).AuthEnabled() {
		t.Error("disabled mode reported as enabled")
	}
	if !(&AuthConfig{Mode: AuthModeToken, Token: "x"}).AuthEnabled() {
		t.Error("token mode reported as disabled")
	}
}
