//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Expand builds the CLI and expands a subtopic of the most recent session.
func Expand(subtopic string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "expand", subtopic)
}