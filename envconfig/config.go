// Package envconfig reads the repo's environment knobs once at startup.
package envconfig

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/encodium/bpe/logutil"
)

// LogLevel returns the slog level selected by BPE_DEBUG.
// Set via BPE_DEBUG in the environment: "1"/"true" enables debug logging,
// "2" or "trace" enables per-call traces.
func LogLevel() slog.Level {
	s := os.Getenv("BPE_DEBUG")
	if s == "" {
		return slog.LevelInfo
	}
	if s == "trace" {
		return logutil.LevelTrace
	}
	if n, err := strconv.Atoi(s); err == nil {
		switch {
		case n >= 2:
			return logutil.LevelTrace
		case n == 1:
			return slog.LevelDebug
		}
		return slog.LevelInfo
	}
	if b, err := strconv.ParseBool(s); err == nil && b {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// CacheSize returns the merge cache bound from BPE_CACHE_SIZE. Zero keeps
// the cache unbounded.
func CacheSize() int {
	if n, err := strconv.Atoi(os.Getenv("BPE_CACHE_SIZE")); err == nil && n > 0 {
		return n
	}
	return 0
}
