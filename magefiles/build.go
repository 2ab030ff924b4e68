//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Build mg.Namespace

// Runs go mod tidy and then builds the binary into bin/.
func (Build) Binary() error {
	if err := sh.Run("go", "mod", "tidy"); err != nil {
		return fmt.Errorf("failed to run go mod tidy: %w", err)
	}
	return sh.RunV("go", "build", "-o", "bin/colorpass", ".")
}

// Runs the unit tests. None of them needs a GPU or a display.
func (Build) Test() error {
	return sh.RunV("go", "test", "./...")
}
