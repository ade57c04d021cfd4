package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadArgsCreatesConfigWithDefaults(t *testing.T) {
	dir := t.TempDir()
	rt, err := LoadArgs([]string{"-config", dir}, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if rt.ConfigPath != filepath.Join(dir, "config.yml") {
		t.Fatalf("unexpected config path %q", rt.ConfigPath)
	}
	if _, err := os.Stat(rt.ConfigPath); err != nil {
		t.Fatalf("expected config file created: %v", err)
	}
	if rt.File.DefaultNamespace != "default" {
		t.Fatalf("expected default namespace, got %q", rt.File.DefaultNamespace)
	}
	if rt.File.ParameterToken != "#" || rt.File.ParameterEndingToken != "!" {
		t.Fatalf("unexpected delimiters %q %q", rt.File.ParameterToken, rt.File.ParameterEndingToken)
	}
	if rt.File.QueryPrefix != "  >" {
		t.Fatalf("unexpected query prefix %q", rt.File.QueryPrefix)
	}
	if rt.File.TrovePath != filepath.Join(dir, "trove.yml") {
		t.Fatalf("unexpected trove path %q", rt.File.TrovePath)
	}
	if rt.File.PrimaryColor == nil || rt.File.PrimaryColor.Hex() != "#f2e5bc" {
		t.Fatalf("unexpected primary color %v", rt.File.PrimaryColor)
	}
}

func TestLoadArgsTroveFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	rt, err := LoadArgs([]string{"-config", dir, "-trove", "/tmp/custom.yml"}, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if rt.File.TrovePath != "/tmp/custom.yml" {
		t.Fatalf("expected flag to win, got %q", rt.File.TrovePath)
	}
}

func TestLoadArgsEnvFallbacks(t *testing.T) {
	dir := t.TempDir()
	environ := []string{
		"HOARD_CONFIG=" + dir,
		"HOARD_TROVE=/tmp/env-trove.yml",
		"HOARD_TRACE=true",
		"HOARD_LOG_FILE=/tmp/hoard-test.log",
		"OPENAI_API_KEY=sk-test",
	}
	rt, err := LoadArgs(nil, environ)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if rt.ConfigPath != filepath.Join(dir, "config.yml") {
		t.Fatalf("unexpected config path %q", rt.ConfigPath)
	}
	if rt.File.TrovePath != "/tmp/env-trove.yml" {
		t.Fatalf("expected env trove path, got %q", rt.File.TrovePath)
	}
	if !rt.Logging.Trace || rt.Logging.FilePath != "/tmp/hoard-test.log" {
		t.Fatalf("unexpected logging settings %+v", rt.Logging)
	}
	if !rt.GptConfigured() {
		t.Fatalf("expected env API key to configure generation")
	}
}

func TestLoadArgsBackfillsPartialConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	partial := "default_namespace: work\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatalf("write partial config: %v", err)
	}
	rt, err := LoadArgs([]string{"-config", path}, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if rt.File.DefaultNamespace != "work" {
		t.Fatalf("expected explicit namespace kept, got %q", rt.File.DefaultNamespace)
	}
	if rt.File.ParameterToken != "#" {
		t.Fatalf("expected parameter token backfilled, got %q", rt.File.ParameterToken)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var onDisk File
	if err := yaml.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("parse re-saved config: %v", err)
	}
	if onDisk.QueryPrefix != "  >" {
		t.Fatalf("expected backfill persisted, got %q", onDisk.QueryPrefix)
	}
	if !strings.Contains(string(data), "default_namespace: work") {
		t.Fatalf("expected namespace preserved in file:\n%s", data)
	}
}

func TestValidateRejectsDelimiterCollision(t *testing.T) {
	dir := t.TempDir()
	rt, err := LoadArgs([]string{"-config", dir}, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	rt.File.ParameterEndingToken = rt.File.ParameterToken
	if err := Validate(rt); err == nil {
		t.Fatalf("expected collision to fail validation")
	}
	rt.File.ParameterEndingToken = "!"
	rt.File.TrovePath = " "
	if err := Validate(rt); err == nil {
		t.Fatalf("expected blank trove path to fail validation")
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	dir := t.TempDir()
	rt, err := LoadArgs([]string{"-config", dir}, nil)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := Validate(rt); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestRGBHex(t *testing.T) {
	c := RGB{181, 118, 20}
	if c.Hex() != "#b57614" {
		t.Fatalf("unexpected hex %q", c.Hex())
	}
}
