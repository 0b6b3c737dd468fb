package gpu

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/blackhole/gravity/rt/core"
)

const (
	VertexSlot   = 0
	InstanceSlot = 1
)

func parseFormat(name string) (wgpu.VertexFormat, error) {
	switch name {
	case "float2":
		return wgpu.VertexFormatFloat32x2, nil
	case "float3":
		return wgpu.VertexFormatFloat32x3, nil
	case "float4":
		return wgpu.VertexFormatFloat32x4, nil
	default:
		return 0, fmt.Errorf("unsupported vertex layout format %q", name)
	}
}

// VertexLayout builds a buffer layout from the `gpu:"layout"` fields of a
// struct value. Every field advances the offset, tagged or not.
func VertexLayout(vertexType any, step wgpu.VertexStepMode) (wgpu.VertexBufferLayout, error) {
	t := reflect.TypeOf(vertexType)
	if t == nil || t.Kind() != reflect.Struct {
		return wgpu.VertexBufferLayout{}, fmt.Errorf("vertex type must be a struct, got %v", t)
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Tag.Get("gpu") == "layout" {
			format, err := parseFormat(field.Tag.Get("format"))
			if err != nil {
				return wgpu.VertexBufferLayout{}, fmt.Errorf("%s.%s: %w", t.Name(), field.Name, err)
			}
			location, err := strconv.Atoi(field.Tag.Get("location"))
			if err != nil {
				return wgpu.VertexBufferLayout{}, fmt.Errorf("%s.%s: bad location: %w", t.Name(), field.Name, err)
			}
			attributes = append(attributes, wgpu.VertexAttribute{
				ShaderLocation: uint32(location),
				Offset:         offset,
				Format:         format,
			})
		}

		offset += uint64(field.Type.Size())
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: offset,
		StepMode:    step,
		Attributes:  attributes,
	}, nil
}

func mustLayout(vertexType any, step wgpu.VertexStepMode) wgpu.VertexBufferLayout {
	layout, err := VertexLayout(vertexType, step)
	if err != nil {
		panic(err)
	}
	return layout
}

// VertexBufferLayout is the per-vertex layout shared by both shapes.
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return mustLayout(core.Vertex{}, wgpu.VertexStepModeVertex)
}

// InstanceBufferLayout is the per-instance particle layout bound at InstanceSlot.
func InstanceBufferLayout() wgpu.VertexBufferLayout {
	return mustLayout(core.InstanceRaw{}, wgpu.VertexStepModeInstance)
}
