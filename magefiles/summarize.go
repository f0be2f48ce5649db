//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Summarize builds the CLI and writes a prose summary of a topic.
func Summarize(topic string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "summarize", topic)
}