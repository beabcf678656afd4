package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xob0t/cardgen/pkg/template"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Addr() != ":10000" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if cfg.BaseURL() != "http://localhost:10000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL())
	}
}

func TestPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cardgen.yaml")
	yml := `
port: 8081
output_dir: /tmp/out
variant: left
variants:
  left:
    layout:
      margin: 90
`
	if err := os.WriteFile(path, []byte(yml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := cfg.ApplyEnv(envMap(map[string]string{"PORT": "9090", "FORMAT": "tiff"})); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("env should override file port, got %d", cfg.Port)
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("file should override default output dir, got %q", cfg.OutputDir)
	}
	if cfg.TemplatePath != DefaultTemplatePath {
		t.Errorf("unset key should keep default, got %q", cfg.TemplatePath)
	}
	if cfg.Format != "tiff" {
		t.Errorf("Format = %q", cfg.Format)
	}

	v, err := cfg.SelectedVariant()
	if err != nil {
		t.Fatal(err)
	}
	if v.Layout.Margin != 90 || v.Layout.HeadlineY != template.Variants["left"].Layout.HeadlineY {
		t.Errorf("variant override not merged: %+v", v.Layout)
	}
}

func TestApplyEnvInvalidPort(t *testing.T) {
	cfg := Default()
	if err := cfg.ApplyEnv(envMap(map[string]string{"PORT": "http"})); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFileErrors(t *testing.T) {
	cfg := Default()
	if err := cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("port: [1, 2"), 0644)
	if err := cfg.LoadFile(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	cfg.Engine = "gpu"
	cfg.Format = "jpeg"
	cfg.Variant = "nope"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"port", "engine", "format", "variant"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestBaseURLTrimsSlash(t *testing.T) {
	cfg := Default()
	cfg.PublicBaseURL = "https://cards.example.com/"
	if got := cfg.BaseURL(); got != "https://cards.example.com" {
		t.Errorf("BaseURL = %q", got)
	}
}

func TestNewEngine(t *testing.T) {
	fm, err := template.NewFontManager("", "")
	if err != nil {
		t.Fatal(err)
	}
	for engine, want := range map[string]string{EngineFace: "face", EngineVector: "vector"} {
		cfg := Default()
		cfg.Engine = engine
		if got := cfg.NewEngine(fm).Name(); got != want {
			t.Errorf("NewEngine(%q).Name() = %q", engine, got)
		}
	}
}
