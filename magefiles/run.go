//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Opens the viewer on the directory in $LIGHTBOX_INPUT (default: current directory).
func (Run) Viewer() error {
	input := os.Getenv("LIGHTBOX_INPUT")
	if input == "" {
		input = "."
	}
	fmt.Println("Run viewer...")
	if _, err := executeCmd("go", withArgs("run", ".", "-input", input), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the test suite with the race detector.
func (Run) Tests() error {
	if _, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
