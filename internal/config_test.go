package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDefaultConfig_AvatarDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	s := cfg.Avatars.Settings()
	if !s.AvatarsEnabled {
		t.Error("avatars should be enabled by default")
	}
	if s.PeopleFolderPath != "Sets/People" {
		t.Errorf("people folder = %q, want %q", s.PeopleFolderPath, "Sets/People")
	}
	if s.AvatarFolderPath != "" {
		t.Errorf("avatar folder = %q, want empty", s.AvatarFolderPath)
	}
}

func TestAvatarsConfig_Normalization(t *testing.T) {
	cfg := AvatarsConfig{Enabled: true, PeopleFolder: `Sets\People\`, AvatarFolder: "_Meta/Avatars/"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	s := cfg.Settings()
	if s.PeopleFolderPath != "Sets/People" {
		t.Errorf("people folder = %q, want %q", s.PeopleFolderPath, "Sets/People")
	}
	if s.AvatarFolderPath != "_Meta/Avatars" {
		t.Errorf("avatar folder = %q, want %q", s.AvatarFolderPath, "_Meta/Avatars")
	}
}

func TestAvatarsConfig_EmptyPeopleFolder(t *testing.T) {
	cfg := AvatarsConfig{Enabled: true, PeopleFolder: ""}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty people folder should fail validation")
	}
}

func TestFullConfig_ValidationChained(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Avatars.PeopleFolder = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error from avatars section")
	}
}
