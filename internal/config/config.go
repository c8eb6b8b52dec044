package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/harshil1002/website-monitor/internal/probe"
)

type Config struct {
	URLs          []string      // monitored URLs, in configured order
	Timeout       time.Duration // per-probe hard timeout
	SlowThreshold time.Duration // success latency above this is slow
	Concurrency   int           // max parallel probes, 0 means all at once
	Schedule      string        // cron spec for the daemon, e.g. "@every 5m"
	StateDir      string        // snapshot + down-since documents
	ReportDir     string        // recovery + slow-alert documents
	LogDir        string        // rotating log files, empty means stderr
	APIAddr       string        // daemon API bind address
	SlackWebhook  string        // empty disables notifications
	HistoryPath   string        // sqlite file or postgres:// DSN, empty disables history
	RetentionDays int           // prune history older than this, 0 keeps all
}

// Load reads the optional YAML config file and MONITOR_* environment
// overrides. path "" looks for monitor.yaml in the working directory
// and treats its absence as "defaults only".
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("timeout", probe.DefaultTimeout)
	v.SetDefault("slow_threshold", probe.DefaultSlowThreshold)
	v.SetDefault("concurrency", 0)
	v.SetDefault("schedule", "@every 5m")
	v.SetDefault("state_dir", "state")
	v.SetDefault("report_dir", "reports")
	v.SetDefault("log_dir", "logs")
	v.SetDefault("api_addr", "127.0.0.1:8080")
	v.SetDefault("slack_webhook", "")
	v.SetDefault("history_path", "")
	v.SetDefault("retention_days", 30)

	v.SetEnvPrefix("MONITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("monitor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		URLs:          urlList(v.GetStringSlice("urls")),
		Timeout:       v.GetDuration("timeout"),
		SlowThreshold: v.GetDuration("slow_threshold"),
		Concurrency:   v.GetInt("concurrency"),
		Schedule:      v.GetString("schedule"),
		StateDir:      v.GetString("state_dir"),
		ReportDir:     v.GetString("report_dir"),
		LogDir:        v.GetString("log_dir"),
		APIAddr:       v.GetString("api_addr"),
		SlackWebhook:  v.GetString("slack_webhook"),
		HistoryPath:   v.GetString("history_path"),
		RetentionDays: v.GetInt("retention_days"),
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = probe.DefaultTimeout
	}
	if cfg.SlowThreshold <= 0 {
		cfg.SlowThreshold = probe.DefaultSlowThreshold
	}
	if cfg.Concurrency < 0 {
		cfg.Concurrency = 0
	}
	if cfg.RetentionDays < 0 {
		cfg.RetentionDays = 0
	}
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 5m"
	}
	if cfg.StateDir == "" {
		cfg.StateDir = "state"
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = "reports"
	}
	if cfg.APIAddr == "" {
		cfg.APIAddr = "127.0.0.1:8080"
	}

	return cfg, nil
}

// urlList accepts both the YAML list form and the env form (one
// comma-separated string, possibly pre-split on spaces by viper),
// trims whitespace, and keeps the first occurrence of each URL.
func urlList(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, chunk := range raw {
		for _, u := range strings.Split(chunk, ",") {
			u = strings.TrimSpace(u)
			if u == "" || seen[u] {
				continue
			}
			seen[u] = true
			out = append(out, u)
		}
	}
	return out
}
