package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const ConfigFileName = "mp_calculator.yaml"

// FindRoot walks up from the working directory looking for ConfigFileName.
// found is false when no parent has one; root is then the working directory.
func FindRoot() (root string, found bool, err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, err
	}
	// Support running from the project root, from cmd/*, or from a data folder below it.
	dir := cwd
	for i := 0; i < 10; i++ {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return dir, true, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return cwd, false, nil
}

// resolveRoot picks the app root and config file for opts.
// configPath is empty when no config file is in play.
func resolveRoot(opts Options) (root string, configPath string, err error) {
	if opts.ConfigPath != "" {
		abs, err := filepath.Abs(opts.ConfigPath)
		if err != nil {
			return "", "", fmt.Errorf("resolve config path %q: %w", opts.ConfigPath, err)
		}
		return filepath.Dir(abs), abs, nil
	}
	root, found, err := FindRoot()
	if err != nil {
		return "", "", err
	}
	if !found {
		return root, "", nil
	}
	return root, filepath.Join(root, ConfigFileName), nil
}

func resolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}
