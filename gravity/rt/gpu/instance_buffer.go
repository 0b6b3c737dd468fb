package gpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/blackhole/gravity/rt/core"
)

const (
	// MinInstanceCapacity keeps the buffer non-empty; zero-sized vertex
	// buffers are rejected by WebGPU.
	MinInstanceCapacity = 64

	InstanceStride = uint64(unsafe.Sizeof(core.InstanceRaw{}))
)

var ErrInstanceOverflow = errors.New("instance count exceeds uint32")

// InstanceBuffer holds the per-particle instance data. It grows by doubling
// so a steady stream of spawns costs O(log n) reallocations.
type InstanceBuffer struct {
	dev           Device
	buf           Buffer
	capacity      int
	count         int
	reallocations int
}

func NewInstanceBuffer(dev Device, capacity int) (*InstanceBuffer, error) {
	if capacity < MinInstanceCapacity {
		capacity = MinInstanceCapacity
	}
	b := &InstanceBuffer{dev: dev}
	if err := b.allocate(capacity); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *InstanceBuffer) allocate(capacity int) error {
	buf, err := b.dev.CreateBuffer("instance buffer", uint64(capacity)*InstanceStride, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("create instance buffer (%d instances): %w", capacity, err)
	}
	if b.buf != nil {
		b.buf.Release()
	}
	b.buf = buf
	b.capacity = capacity
	return nil
}

// Upload writes the full instance projection in one bulk write, growing
// the buffer first when it is too small. It reports whether it grew.
func (b *InstanceBuffer) Upload(instances []core.InstanceRaw) (bool, error) {
	if uint64(len(instances)) > uint64(^uint32(0)) {
		return false, ErrInstanceOverflow
	}

	grew := false
	if len(instances) > b.capacity {
		capacity := b.capacity
		for capacity < len(instances) {
			capacity *= 2
		}
		if err := b.allocate(capacity); err != nil {
			return false, err
		}
		b.reallocations++
		grew = true
	}

	b.count = len(instances)
	if b.count == 0 {
		return grew, nil
	}
	if err := b.dev.WriteBuffer(b.buf, 0, wgpu.ToBytes(instances)); err != nil {
		return grew, fmt.Errorf("write instance buffer: %w", err)
	}
	return grew, nil
}

func (b *InstanceBuffer) Buffer() Buffer     { return b.buf }
func (b *InstanceBuffer) Capacity() int      { return b.capacity }
func (b *InstanceBuffer) Count() uint32      { return uint32(b.count) }
func (b *InstanceBuffer) Reallocations() int { return b.reallocations }

func (b *InstanceBuffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}
