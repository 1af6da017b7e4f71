package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want 0.0.0.0", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.AdminPathPrefix != "/admin" {
		t.Errorf("AdminPathPrefix = %q, want /admin", cfg.AdminPathPrefix)
	}
	if cfg.UploadDir != "./data/uploads" {
		t.Errorf("UploadDir = %q, want ./data/uploads", cfg.UploadDir)
	}
	if cfg.CacheTTLSeconds != 30 {
		t.Errorf("CacheTTLSeconds = %d, want 30", cfg.CacheTTLSeconds)
	}
}

func TestLoad_File(t *testing.T) {
	configJSON := `{
		"admin_username": "admin",
		"admin_password_digest": "3c9909afec25354d551dae21590bb26e38d53f2173b8d3dc3eee4c047e7ab1c1eb8b85103e3be7ba613b31bb5c9c36214dc9f14a42fd7a2fdb84856bca5c44c2",
		"admin_path_prefix": "/backoffice",
		"port": 9090
	}`

	if err := os.WriteFile(ConfigFile, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(ConfigFile)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AdminUsername != "admin" {
		t.Errorf("AdminUsername = %q, want admin", cfg.AdminUsername)
	}
	if cfg.AdminPathPrefix != "/backoffice" {
		t.Errorf("AdminPathPrefix = %q, want /backoffice", cfg.AdminPathPrefix)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if !cfg.HasAdminCredentials() {
		t.Error("HasAdminCredentials() should be true")
	}
}

func TestLoad_EnvFallback(t *testing.T) {
	os.Setenv("SHOPLITE_ADMIN_USERNAME", "envadmin")
	os.Setenv("SHOPLITE_ADMIN_PASSWORD_DIGEST", "ZGlnZXN0")
	os.Setenv("SHOPLITE_PORT", "7070")
	defer os.Unsetenv("SHOPLITE_ADMIN_USERNAME")
	defer os.Unsetenv("SHOPLITE_ADMIN_PASSWORD_DIGEST")
	defer os.Unsetenv("SHOPLITE_PORT")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AdminUsername != "envadmin" {
		t.Errorf("AdminUsername = %q, want envadmin", cfg.AdminUsername)
	}
	if cfg.AdminPasswordDigest != "ZGlnZXN0" {
		t.Errorf("AdminPasswordDigest = %q, want ZGlnZXN0", cfg.AdminPasswordDigest)
	}
	if cfg.Port != 7070 {
		t.Errorf("Port = %d, want 7070", cfg.Port)
	}
}

func TestHasAdminCredentials_Missing(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"both empty", Config{}, false},
		{"username only", Config{AdminUsername: "admin"}, false},
		{"digest only", Config{AdminPasswordDigest: "ZGlnZXN0"}, false},
		{"both set", Config{AdminUsername: "admin", AdminPasswordDigest: "ZGlnZXN0"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.HasAdminCredentials(); got != tt.want {
				t.Errorf("HasAdminCredentials() = %v, want %v", got, tt.want)
			}
		})
	}
}
