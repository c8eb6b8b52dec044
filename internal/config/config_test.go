package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timeout != 10*time.Second || cfg.SlowThreshold != 2*time.Second {
		t.Fatalf("default thresholds wrong: %+v", cfg)
	}
	if cfg.Concurrency != 0 || cfg.Schedule != "@every 5m" {
		t.Fatalf("default scheduling wrong: %+v", cfg)
	}
	if cfg.StateDir != "state" || cfg.ReportDir != "reports" || cfg.LogDir != "logs" {
		t.Fatalf("default dirs wrong: %+v", cfg)
	}
	if cfg.APIAddr != "127.0.0.1:8080" || cfg.RetentionDays != 30 {
		t.Fatalf("defaults wrong: %+v", cfg)
	}
	if len(cfg.URLs) != 0 || cfg.SlackWebhook != "" || cfg.HistoryPath != "" {
		t.Fatalf("expected empty optional settings: %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "monitor.yaml")
	body := `
urls:
  - https://example.com
  - https://example.org
timeout: 3s
slow_threshold: 500ms
concurrency: 4
schedule: "@every 1m"
state_dir: /var/lib/monitor
slack_webhook: https://hooks.slack.com/services/T/B/X
history_path: history.db
retention_days: 7
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.URLs) != 2 || cfg.URLs[0] != "https://example.com" {
		t.Fatalf("urls wrong: %+v", cfg.URLs)
	}
	if cfg.Timeout != 3*time.Second || cfg.SlowThreshold != 500*time.Millisecond {
		t.Fatalf("thresholds wrong: %+v", cfg)
	}
	if cfg.Concurrency != 4 || cfg.Schedule != "@every 1m" {
		t.Fatalf("scheduling wrong: %+v", cfg)
	}
	if cfg.StateDir != "/var/lib/monitor" || cfg.HistoryPath != "history.db" || cfg.RetentionDays != 7 {
		t.Fatalf("storage settings wrong: %+v", cfg)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MONITOR_URLS", "https://a.example, https://b.example,https://a.example")
	t.Setenv("MONITOR_TIMEOUT", "4s")
	t.Setenv("MONITOR_CONCURRENCY", "2")
	t.Setenv("MONITOR_SLACK_WEBHOOK", "https://hooks.slack.com/services/T/B/Y")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.URLs) != 2 {
		t.Fatalf("expected comma list split and deduped, got %+v", cfg.URLs)
	}
	if cfg.URLs[0] != "https://a.example" || cfg.URLs[1] != "https://b.example" {
		t.Fatalf("urls wrong: %+v", cfg.URLs)
	}
	if cfg.Timeout != 4*time.Second || cfg.Concurrency != 2 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.SlackWebhook == "" {
		t.Fatalf("webhook override not applied")
	}
}

func TestLoad_ClampsBadValues(t *testing.T) {
	t.Setenv("MONITOR_TIMEOUT", "-5s")
	t.Setenv("MONITOR_CONCURRENCY", "-3")
	t.Setenv("MONITOR_RETENTION_DAYS", "-1")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Timeout != 10*time.Second {
		t.Fatalf("negative timeout should fall back to default, got %v", cfg.Timeout)
	}
	if cfg.Concurrency != 0 || cfg.RetentionDays != 0 {
		t.Fatalf("negative values should clamp to zero: %+v", cfg)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for explicitly named missing file")
	}
}
