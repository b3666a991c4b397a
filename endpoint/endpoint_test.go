package endpoint_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adamwoolhether/apiclient/endpoint"
)

func TestNew(t *testing.T) {
	testCases := map[string]struct {
		apiBase string
		wantErr bool
	}{
		"valid":    {apiBase: "https://api.example.com", wantErr: false},
		"empty":    {apiBase: "", wantErr: true},
		"relative": {apiBase: "/api", wantErr: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			cfg, err := endpoint.New(tc.apiBase)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.apiBase)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.BaseURL() != tc.apiBase {
				t.Errorf("exp base %q, got %q", tc.apiBase, cfg.BaseURL())
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("api_base: https://file.example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := endpoint.Load(endpoint.WithConfigFile(path), endpoint.WithEnvPrefix("APICLIENT_TEST_FILE"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBase != "https://file.example.com" {
		t.Errorf("exp file value, got %q", cfg.APIBase)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("api_base: https://file.example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APICLIENT_TEST_API_BASE", "https://env.example.com")

	cfg, err := endpoint.Load(endpoint.WithConfigFile(path), endpoint.WithEnvPrefix("APICLIENT_TEST"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBase != "https://env.example.com" {
		t.Errorf("exp env value, got %q", cfg.APIBase)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	t.Chdir(t.TempDir())

	envPath := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envPath, []byte("APICLIENT_DOTENV_API_BASE=https://dotenv.example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("APICLIENT_DOTENV_API_BASE") })

	cfg, err := endpoint.Load(endpoint.WithEnvFile(envPath), endpoint.WithEnvPrefix("APICLIENT_DOTENV"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIBase != "https://dotenv.example.com" {
		t.Errorf("exp dotenv value, got %q", cfg.APIBase)
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := endpoint.Load(endpoint.WithEnvPrefix("APICLIENT_TEST_UNSET")); err == nil {
		t.Error("expected validation error when api_base is unset")
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := endpoint.Load(endpoint.WithEnvFile("does-not-exist.env")); err == nil {
		t.Error("expected error for missing env file")
	}
}
