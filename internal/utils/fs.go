package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DirCheckResult reports whether a directory exists and accepts new files.
type DirCheckResult struct {
	Exists   bool
	Writable bool
	Error    error
}

// FileExists reports whether path names an existing file or directory.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dirPath and its parents if missing.
func EnsureDir(dirPath string) error {
	return os.MkdirAll(dirPath, 0o755)
}

// SaveTOMLFile encodes data to filePath. The file is written next to its
// destination and renamed into place, so readers never see a partial file.
func SaveTOMLFile(data any, filePath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(filePath), "."+filepath.Base(filePath)+".*")
	if err != nil {
		log.Errorf("Failed to create file: %v", err)
		return err
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(data); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding %s: %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filePath)
}

// GetAbsolutePath resolves configPath against the working directory.
// An empty path reads "unknown".
func GetAbsolutePath(configPath string) string {
	if configPath == "" {
		return "unknown"
	}
	if abs, err := filepath.Abs(configPath); err == nil {
		return abs
	}
	return configPath
}

func testWriteAccess(dirPath string) bool {
	f, err := os.CreateTemp(dirPath, ".symserve-write-*")
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dirPath, err)
		return false
	}
	f.Close()
	os.Remove(f.Name())
	return true
}

// GetExecutableDir returns the directory holding the running binary, the
// last fallback for the config dir.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// CheckDirStatus creates dirPath when missing and tests that it is a
// writable directory.
func CheckDirStatus(dirPath string) DirCheckResult {
	info, err := os.Stat(dirPath)
	switch {
	case err == nil && !info.IsDir():
		return DirCheckResult{Exists: true, Error: fmt.Errorf("%s is not a directory", dirPath)}
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return DirCheckResult{Error: err}
	case err != nil:
		if err := EnsureDir(dirPath); err != nil {
			log.Warnf("Cannot create directory %s: %v", dirPath, err)
			return DirCheckResult{Error: err}
		}
	}
	return DirCheckResult{Exists: true, Writable: testWriteAccess(dirPath)}
}
