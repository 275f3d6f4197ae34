package util

import (
	"os"
)

// UserHome returns the current user's home directory.
// Falls back to the $HOME environment variable if os.UserHomeDir fails.
// As a last resort it uses the current working directory rather than
// panicking, so containers without $HOME can still start.
func UserHome() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback: try $HOME directly (works on most Unix systems)
		if home := os.Getenv("HOME"); home != "" {
			log.WithError(err).Warn("os.UserHomeDir failed, falling back to $HOME")
			return home
		}
		// Last resort on Windows
		if home := os.Getenv("USERPROFILE"); home != "" {
			log.WithError(err).Warn("os.UserHomeDir failed, falling back to USERPROFILE")
			return home
		}
		// Final fallback: the working directory. It is less private than a
		// home directory. SECURITY NOTE: the config file stores rpc.password;
		// config.createDefaultConfig creates its directory with mode 0700.
		if wd, wdErr := os.Getwd(); wdErr == nil {
			log.WithError(err).Warn("os.UserHomeDir and $HOME unavailable; falling back to working directory")
			return wd
		}
		panic("go-gtime: unable to determine home directory; set $HOME environment variable")
	}

	return homeDir
}
