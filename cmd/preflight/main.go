// cmd/preflight/main.go
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/harshil1002/website-monitor/internal/config"
)

// Preflight validates the configuration before the monitor or daemon
// is deployed: hard failures exit 1, questionable settings warn.
func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	configPath := flag.String("config", "", "config file (default: monitor.yaml in the working directory)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail(err.Error())
	}

	if len(cfg.URLs) == 0 {
		fail("no URLs configured (set urls in the config file or MONITOR_URLS).")
	}
	bad := 0
	for _, raw := range cfg.URLs {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			warn(fmt.Sprintf("URL %q does not look like an absolute http(s) URL.", raw))
			bad++
		}
	}
	if bad == 0 {
		ok(fmt.Sprintf("%d URL(s) configured", len(cfg.URLs)))
	}

	if cfg.SlowThreshold >= cfg.Timeout {
		warn(fmt.Sprintf("slow_threshold (%s) >= timeout (%s); nothing will ever be classified slow.", cfg.SlowThreshold, cfg.Timeout))
	} else {
		ok(fmt.Sprintf("timeout=%s slow_threshold=%s", cfg.Timeout, cfg.SlowThreshold))
	}

	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		fail(fmt.Sprintf("schedule %q is not a valid cron spec: %v", cfg.Schedule, err))
	}
	ok("schedule=" + cfg.Schedule)

	if !writable(cfg.StateDir) {
		fail(fmt.Sprintf("state dir %q is not writable; the monitor cannot persist snapshots.", cfg.StateDir))
	}
	ok("state dir writable: " + cfg.StateDir)

	if !writable(cfg.ReportDir) {
		warn(fmt.Sprintf("report dir %q is not writable; report documents will be lost.", cfg.ReportDir))
	} else {
		ok("report dir writable: " + cfg.ReportDir)
	}

	if cfg.LogDir == "" {
		warn("log_dir empty — logs go to stderr.")
	} else if !writable(cfg.LogDir) {
		warn(fmt.Sprintf("log dir %q is not writable; logging will fail at startup.", cfg.LogDir))
	} else {
		ok("log dir writable: " + cfg.LogDir)
	}

	if cfg.SlackWebhook == "" {
		warn("slack_webhook empty — transitions will not be pushed anywhere.")
	} else {
		ok("slack webhook present")
	}

	switch {
	case cfg.HistoryPath == "":
		warn("history_path empty — probe history is disabled.")
	case strings.HasPrefix(cfg.HistoryPath, "postgres://"), strings.HasPrefix(cfg.HistoryPath, "postgresql://"):
		ok("history backend: postgres")
	default:
		if parent := filepath.Dir(cfg.HistoryPath); !writable(parent) {
			warn(fmt.Sprintf("history dir %q is not writable; history will be disabled at startup.", parent))
		} else {
			ok("history path usable: " + cfg.HistoryPath)
		}
	}

	ok("preflight passed")
}

// writable reports whether dir exists (or can be created) and accepts
// a new file.
func writable(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".preflight-*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
