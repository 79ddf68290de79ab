// Package config loads runtime configuration from flags and environment
// variables, grounded in the teacher's internal/config/config.go: flags
// take precedence over AIRBRIDGE_* environment variables, which take
// precedence over built-in defaults.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// Config holds the settings needed to wire a running airbridge process:
// which interface to capture on, where to expose the control API and
// metrics, and how the session persists and reports.
type Config struct {
	Interface  string
	PcapFile   string
	Addr       string
	GRPCAddr   string
	DBPath     string
	ReportPath string
	Whitelist  []string
	Blacklist  []string
	SSIDs      []string
	Debug      bool
}

// Load parses command line flags and environment variables into a Config.
func Load() *Config {
	cfg := &Config{}

	iface := getEnv("AIRBRIDGE_INTERFACE", "mon0")
	cfg.PcapFile = getEnv("AIRBRIDGE_PCAP", "")
	cfg.Addr = getEnv("AIRBRIDGE_ADDR", ":8080")
	cfg.GRPCAddr = getEnv("AIRBRIDGE_GRPC_ADDR", "")
	cfg.DBPath = getEnv("AIRBRIDGE_DB", "airbridge.db")
	cfg.ReportPath = getEnv("AIRBRIDGE_REPORT", "")
	cfg.Debug = getEnvBool("AIRBRIDGE_DEBUG", false)
	whitelist := getEnv("AIRBRIDGE_WHITELIST", "")
	blacklist := getEnv("AIRBRIDGE_BLACKLIST", "")
	ssids := getEnv("AIRBRIDGE_SSIDS", "")

	flag.StringVar(&iface, "i", iface, "capture interface in monitor mode")
	flag.StringVar(&cfg.PcapFile, "pcap", cfg.PcapFile, "replay frames from a pcap file instead of a live interface")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "control API and metrics listen address")
	flag.StringVar(&cfg.GRPCAddr, "grpc", cfg.GRPCAddr, "gRPC bridge sink address (empty disables the bridge)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the SQLite audit database")
	flag.StringVar(&cfg.ReportPath, "report", cfg.ReportPath, "write a session summary PDF to this path on shutdown")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable verbose diagnostic logging")
	flag.StringVar(&whitelist, "whitelist", whitelist, "comma-separated MAC whitelist")
	flag.StringVar(&blacklist, "blacklist", blacklist, "comma-separated MAC blacklist")
	flag.StringVar(&ssids, "ssids", ssids, "comma-separated SSID filter")

	flag.Parse()

	cfg.Interface = iface
	cfg.Whitelist = splitList(whitelist)
	cfg.Blacklist = splitList(blacklist)
	cfg.SSIDs = splitList(ssids)

	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
