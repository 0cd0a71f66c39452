package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoader_LoadDefaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "emdflow" {
		t.Errorf("expected app name 'emdflow', got %s", cfg.App.Name)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Log.Level)
	}
	if cfg.Solver.DefaultNumIterations != 40 {
		t.Errorf("expected default_num_iterations 40, got %d", cfg.Solver.DefaultNumIterations)
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
app:
  name: custom-solver
  version: 2.0.0
  environment: staging
solver:
  default_num_iterations: 64
log:
  level: debug
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	if err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loader := NewLoader(WithConfigPaths(configPath))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "custom-solver" {
		t.Errorf("expected app name 'custom-solver', got %s", cfg.App.Name)
	}
	if cfg.App.Version != "2.0.0" {
		t.Errorf("expected version '2.0.0', got %s", cfg.App.Version)
	}
	if cfg.Solver.DefaultNumIterations != 64 {
		t.Errorf("expected 64 iterations, got %d", cfg.Solver.DefaultNumIterations)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Log.Level)
	}
}

func TestLoader_LoadFromEnv(t *testing.T) {
	os.Setenv("EMDFLOW_APP_NAME", "env-solver")
	os.Setenv("EMDFLOW_SOLVER_DEFAULT_NUM_ITERATIONS", "12")
	defer func() {
		os.Unsetenv("EMDFLOW_APP_NAME")
		os.Unsetenv("EMDFLOW_SOLVER_DEFAULT_NUM_ITERATIONS")
	}()

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "env-solver" {
		t.Errorf("expected app name 'env-solver', got %s", cfg.App.Name)
	}
	if cfg.Solver.DefaultNumIterations != 12 {
		t.Errorf("expected 12 iterations, got %d", cfg.Solver.DefaultNumIterations)
	}
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
app:
  name: file-solver
solver:
  default_num_iterations: 20
`
	os.WriteFile(configPath, []byte(configContent), 0644)

	os.Setenv("EMDFLOW_APP_NAME", "env-override")
	defer os.Unsetenv("EMDFLOW_APP_NAME")

	cfg, err := NewLoader(WithConfigPaths(configPath)).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "env-override" {
		t.Errorf("expected env override, got %s", cfg.App.Name)
	}
	if cfg.Solver.DefaultNumIterations != 20 {
		t.Errorf("expected default_num_iterations from file, got %d", cfg.Solver.DefaultNumIterations)
	}
}

func TestLoader_WithEnvPrefix(t *testing.T) {
	os.Setenv("CUSTOM_APP_NAME", "custom-prefix-solver")
	defer os.Unsetenv("CUSTOM_APP_NAME")

	cfg, err := NewLoader(WithEnvPrefix("CUSTOM_")).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "custom-prefix-solver" {
		t.Errorf("expected 'custom-prefix-solver', got %s", cfg.App.Name)
	}
}

func TestMustLoad_Success(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("MustLoad should not panic with valid config")
		}
	}()

	cfg := MustLoad()
	if cfg == nil {
		t.Error("expected non-nil config")
	}
}

func TestLoad_Simple(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg == nil {
		t.Error("expected non-nil config")
	}
}

func TestLoader_ConfigEnvVar(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom-config.yaml")

	configContent := `
app:
  name: config-env-var-solver
`
	os.WriteFile(configPath, []byte(configContent), 0644)

	os.Setenv("CONFIG_PATH", configPath)
	defer os.Unsetenv("CONFIG_PATH")

	cfg, err := NewLoader().Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "config-env-var-solver" {
		t.Errorf("expected 'config-env-var-solver', got %s", cfg.App.Name)
	}
}
