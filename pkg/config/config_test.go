package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetEnvVars(t *testing.T) {
	tests := []struct {
		name            string
		mockEnvFile     string
		wantOutput      string
		wantPlaceholder string
	}{
		{
			name:            "Valid .env file",
			mockEnvFile:     "PUNCHCARD_OUTPUT=/tmp/field.txt\nPUNCHCARD_PLACEHOLDER=unavailable\n",
			wantOutput:      "/tmp/field.txt",
			wantPlaceholder: "unavailable",
		},
		{
			name:            "No environment variables or .env file",
			wantPlaceholder: "punchcard: native routine unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"PUNCHCARD_OUTPUT", "PUNCHCARD_PLACEHOLDER"} {
				t.Setenv(key, "")
				os.Unsetenv(key)
			}

			// Save original directory and change to temp directory
			originalDir, err := os.Getwd()
			if err != nil {
				t.Fatalf("Failed to get current directory: %v", err)
			}

			tmpDir := t.TempDir()
			if err := os.Chdir(tmpDir); err != nil {
				t.Fatalf("Failed to change to temp directory: %v", err)
			}
			defer func() {
				if err := os.Chdir(originalDir); err != nil {
					t.Errorf("Failed to restore original directory: %v", err)
				}
			}()

			// Create .env file if applicable
			if tt.mockEnvFile != "" {
				envPath := filepath.Join(tmpDir, ".env")
				if err := os.WriteFile(envPath, []byte(tt.mockEnvFile), 0644); err != nil {
					t.Fatalf("Failed to write mock .env file: %v", err)
				}
			}

			cfg := GetEnvVars()
			if cfg.Output != tt.wantOutput {
				t.Errorf("Expected Output to be '%s', got '%s'", tt.wantOutput, cfg.Output)
			}
			if cfg.Placeholder != tt.wantPlaceholder {
				t.Errorf("Expected Placeholder to be '%s', got '%s'", tt.wantPlaceholder, cfg.Placeholder)
			}
		})
	}
}

func TestGetEnvVars_EnvOverridesDotEnv(t *testing.T) {
	t.Setenv("PUNCHCARD_STUB", "from-env")

	originalDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}
	tmpDir := t.TempDir()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}
	defer func() {
		_ = os.Chdir(originalDir)
	}()

	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("PUNCHCARD_STUB=from-file\n"), 0644); err != nil {
		t.Fatalf("Failed to write mock .env file: %v", err)
	}

	cfg := GetEnvVars()
	if cfg.Stub != "from-env" {
		t.Errorf("Expected Stub to be 'from-env', got '%s'", cfg.Stub)
	}
}
