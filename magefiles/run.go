//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

type Run mg.Namespace

// Runs the demo with the headless backend for a fixed number of frames.
func (Run) Headless() error {
	fmt.Println("Run headless demo...")
	return sh.RunV("go", "run", ".", "-config", "colorpass.toml")
}

// Runs the demo in a window with the Vulkan backend. Edits to the
// configuration file change the log level while it runs.
func (Run) Engine() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run engine...")
	return sh.RunV("bin/colorpass", "-config", "colorpass.vulkan.toml", "-watch")
}
