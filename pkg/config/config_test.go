package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name" toml:"name"`
	Port  int    `yaml:"port" toml:"port"`
	Inner struct {
		Path string `yaml:"path" toml:"path"`
	} `yaml:"inner" toml:"inner"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv("CLASSLOG_TEST_ROOT", "/srv/sessions")
	p := write(t, "config.yaml", "name: demo\nport: 9000\ninner:\n  path: ${CLASSLOG_TEST_ROOT}\n")

	var cfg sample
	if err := Load(p, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "demo" || cfg.Port != 9000 || cfg.Inner.Path != "/srv/sessions" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_TOML(t *testing.T) {
	p := write(t, "config.toml", "name = \"demo\"\nport = 9001\n\n[inner]\npath = \"sessions\"\n")

	var cfg sample
	if err := Load(p, &cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9001 || cfg.Inner.Path != "sessions" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	p := write(t, "config.yaml", "name: demo\nport: 0\n")
	var cfg sample
	err := Load(p, &cfg)
	if err == nil || !strings.Contains(err.Error(), "port must be positive") {
		t.Errorf("err = %v", err)
	}
}

func TestLoadOptional_Missing(t *testing.T) {
	cfg := sample{Port: 80}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	cfg.Port = 0
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &cfg); err == nil {
		t.Error("defaults should still be validated")
	}
}
