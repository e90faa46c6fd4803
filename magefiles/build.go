//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Regenerates the dependency injection code.
func (Build) Wire() error {
	if _, err := executeCmd("go", withArgs("generate", "./engine/injector/..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Compiles the lightbox binary into bin/.
func (Build) Binary() error {
	mg.Deps(Build.Wire)
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/lightbox", "."), withStream()); err != nil {
		return err
	}
	return nil
}
