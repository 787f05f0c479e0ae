package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/reshape/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// configFile returns the path of the configuration file.
func configFile() string {
	return filepath.Join(pkg.ConfigDir(), baseConfig)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}

	return nil
}
