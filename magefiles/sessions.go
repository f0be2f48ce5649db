//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Sessions builds the CLI and lists saved research sessions.
func Sessions() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "sessions", "list")
}