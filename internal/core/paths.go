package core

import (
	"os"
	"path/filepath"
)

type Paths struct {
	HomeDir           string
	DataDir           string
	LogFile           string
	ConfigFile        string
	HistoryFile       string
	LatestVersionFile string
	EvidenceDir       string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}

		defaultPaths = &Paths{
			HomeDir:           homeDir,
			DataDir:           filepath.Join(homeDir, ".aicmd"),
			LogFile:           filepath.Join(homeDir, ".aicmd", "aicmd.log"),
			ConfigFile:        filepath.Join(homeDir, ".aicmd", "config.yaml"),
			HistoryFile:       filepath.Join(homeDir, ".aicmd", "history.db"),
			LatestVersionFile: filepath.Join(homeDir, ".aicmd", "latest_version.txt"),
			EvidenceDir:       os.TempDir(),
		}

		err = os.MkdirAll(defaultPaths.DataDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

func HistoryFile() string {
	ensureDefaultPaths()
	return defaultPaths.HistoryFile
}

func LatestVersionFile() string {
	ensureDefaultPaths()
	return defaultPaths.LatestVersionFile
}

// EvidenceDir is the shared temporary directory where shell hooks drop
// evidence files describing the most recent command failure.
func EvidenceDir() string {
	ensureDefaultPaths()
	return defaultPaths.EvidenceDir
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
