package shaders

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	Instance  = "instance.wgsl"
	BlackHole = "black_hole.wgsl"
)

//go:embed instance.wgsl
var InstanceWGSL string

//go:embed black_hole.wgsl
var BlackHoleWGSL string

//go:embed *.wgsl
var embedded embed.FS

// Library resolves shader sources. Files in Dir take precedence over the
// embedded copies.
type Library struct {
	Dir string
}

func (l Library) Load(name string) (string, error) {
	if l.Dir != "" {
		code, err := os.ReadFile(filepath.Join(l.Dir, name))
		if err == nil {
			return string(code), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("read shader %s: %w", name, err)
		}
	}

	code, err := embedded.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("unknown shader %s: %w", name, err)
	}
	return string(code), nil
}
