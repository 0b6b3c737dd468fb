//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Checks the shaders and runs the app with debug logging and shader reload.
func (Run) App() error {
	if err := checkShaders(); err != nil {
		return err
	}
	fmt.Println("Run gravity...")
	args := []string{"run", "./gravity", "-debug", "-shaders", shaderDir, "-watch"}
	if _, err := executeCmd("go", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}
