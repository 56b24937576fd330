package main

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/alnah/go-textile/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"TEXTILE_CONFIG":        "site",
		"TEXTILE_DIALECT":       "html5",
		"TEXTILE_STYLE":         "plain",
		"TEXTILE_INPUT_DIR":     "docs",
		"TEXTILE_OUTPUT_DIR":    "site",
		"TEXTILE_IMAGE_TIMEOUT": "1s",
		"TEXTILE_WORKERS":       "3",
	}

	got := loadEnvConfig(func(k string) string { return vars[k] })
	want := &envConfig{
		ConfigPath:   "site",
		Dialect:      "html5",
		Style:        "plain",
		InputDir:     "docs",
		OutputDir:    "site",
		ImageTimeout: "1s",
		Workers:      3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loadEnvConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvConfig_InvalidWorkers(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"zero", "0", "-2"} {
		got := loadEnvConfig(func(k string) string {
			if k == "TEXTILE_WORKERS" {
				return v
			}
			return ""
		})
		if got.Workers != 0 {
			t.Errorf("TEXTILE_WORKERS=%q: Workers = %d, want 0", v, got.Workers)
		}
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars([]string{"TEXTILE_DIALECT=html5", "TEXTILE_DIALET=x", "HOME=/root"}, &buf)

	want := "warning: unknown environment variable TEXTILE_DIALET (typo?)\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Page.Style = "from-file"
	cfg.Input.DefaultDir = "file-docs"

	applyEnvConfig(&envConfig{Dialect: "html5", Style: "plain", ImageTimeout: "2s"}, cfg)

	if cfg.Textile.Dialect != "html5" {
		t.Errorf("Dialect = %q, want html5", cfg.Textile.Dialect)
	}
	if cfg.Page.Style != "plain" {
		t.Errorf("Style = %q, want plain (env beats file)", cfg.Page.Style)
	}
	if cfg.Input.DefaultDir != "file-docs" {
		t.Errorf("DefaultDir = %q, want file value kept", cfg.Input.DefaultDir)
	}
	if cfg.Images.Timeout != "2s" {
		t.Errorf("Timeout = %q, want 2s", cfg.Images.Timeout)
	}
}
