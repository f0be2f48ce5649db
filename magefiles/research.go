//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Research builds the CLI and runs the research pipeline for a topic.
func Research(topic string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "research", topic)
}