//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gogpu/naga"
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const (
	shaderDir = "gravity/rt/shaders"
	binary    = "bin/gravity"
)

// Compiles every WGSL shader with naga to catch errors before running.
func (Build) Shaders() error {
	return checkShaders()
}

// Checks the shaders and builds the gravity binary into bin/.
func (Build) App() error {
	mg.Deps(Build.Shaders)
	if _, err := executeCmd("go", withArgs("build", "-o", binary, "./gravity"), withStream()); err != nil {
		return err
	}
	return nil
}

func checkShaders() error {
	files, err := filepath.Glob(filepath.Join(shaderDir, "*.wgsl"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no shaders in %s", shaderDir)
	}

	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		spirv, err := naga.Compile(string(src))
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		fmt.Printf("%s: %d bytes of SPIR-V\n", file, len(spirv))
	}
	return nil
}
