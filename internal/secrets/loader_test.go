package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	t.Setenv("TEST_SECRET_PRIMARY", "")
	t.Setenv("TEST_SECRET_FALLBACK", "from-env")

	tests := []struct {
		name      string
		src       Source
		expect    string
		errSubstr string
	}{
		{
			name:   "file beats value",
			src:    Source{Name: "api key", Value: "inline", File: keyFile},
			expect: "from-file",
		},
		{
			name:   "value beats env",
			src:    Source{Value: " inline ", Env: []string{"TEST_SECRET_FALLBACK"}},
			expect: "inline",
		},
		{
			name:   "first non-empty env",
			src:    Source{Env: []string{"TEST_SECRET_PRIMARY", "TEST_SECRET_FALLBACK"}},
			expect: "from-env",
		},
		{
			name:      "empty file",
			src:       Source{Name: "api key", File: emptyFile},
			errSubstr: "is empty",
		},
		{
			name:      "missing file",
			src:       Source{Name: "api key", File: filepath.Join(dir, "missing")},
			errSubstr: "reading api key",
		},
		{
			name:      "nothing configured",
			src:       Source{},
			errSubstr: "secret is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.errSubstr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.errSubstr) {
					t.Fatalf("expected error containing %q, got %v", tt.errSubstr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
