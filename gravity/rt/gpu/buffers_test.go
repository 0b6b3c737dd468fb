package gpu_test

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/blackhole/gravity/rt/core"
	"github.com/gekko3d/blackhole/gravity/rt/gpu"
	"github.com/gekko3d/blackhole/gravity/rt/gpu/gputest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instances(n int) []core.InstanceRaw {
	out := make([]core.InstanceRaw, n)
	for i := range out {
		out[i] = core.InstanceRaw{Position: [3]float32{float32(i), 0, 0}, Color: [3]float32{1, 1, 0.5}}
	}
	return out
}

func TestInstanceBuffer_MinimumCapacity(t *testing.T) {
	dev := &gputest.Device{}
	b, err := gpu.NewInstanceBuffer(dev, 0)
	require.NoError(t, err)

	assert.Equal(t, gpu.MinInstanceCapacity, b.Capacity())
	assert.Equal(t, uint64(gpu.MinInstanceCapacity)*gpu.InstanceStride, b.Buffer().Size())
	assert.Equal(t, wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst, dev.Buffers[0].Usage)
}

func TestInstanceBuffer_DoublesLogarithmically(t *testing.T) {
	dev := &gputest.Device{}
	b, err := gpu.NewInstanceBuffer(dev, gpu.MinInstanceCapacity)
	require.NoError(t, err)

	all := instances(5000)
	grows := 0
	for n := 1; n <= len(all); n++ {
		grew, err := b.Upload(all[:n])
		require.NoError(t, err)
		if grew {
			grows++
		}
	}

	// 64 * 2^7 = 8192 is the first capacity >= 5000.
	assert.Equal(t, 7, b.Reallocations())
	assert.Equal(t, 7, grows)
	assert.Equal(t, 8192, b.Capacity())
	assert.Equal(t, uint32(5000), b.Count())
	assert.Len(t, dev.Live(), 1, "old buffers must be released")
	assert.Equal(t, 5000, dev.Writes)
}

func TestInstanceBuffer_UploadContents(t *testing.T) {
	dev := &gputest.Device{}
	b, err := gpu.NewInstanceBuffer(dev, gpu.MinInstanceCapacity)
	require.NoError(t, err)

	data := instances(100)
	grew, err := b.Upload(data)
	require.NoError(t, err)
	assert.True(t, grew)
	assert.Equal(t, 128, b.Capacity())

	raw := b.Buffer().(*gputest.Buffer).Data
	assert.Equal(t, wgpu.ToBytes(data), raw[:len(data)*int(gpu.InstanceStride)])
}

func TestInstanceBuffer_EmptyUploadSkipsWrite(t *testing.T) {
	dev := &gputest.Device{}
	b, err := gpu.NewInstanceBuffer(dev, gpu.MinInstanceCapacity)
	require.NoError(t, err)

	grew, err := b.Upload(nil)
	require.NoError(t, err)
	assert.False(t, grew)
	assert.Equal(t, uint32(0), b.Count())
	assert.Zero(t, dev.Writes)
}

func TestInstanceBuffer_GrowFailureKeepsOldBuffer(t *testing.T) {
	dev := &gputest.Device{}
	b, err := gpu.NewInstanceBuffer(dev, gpu.MinInstanceCapacity)
	require.NoError(t, err)
	old := b.Buffer()

	dev.FailBuffer = true
	_, err = b.Upload(instances(65))
	require.ErrorIs(t, err, gputest.ErrInjected)

	assert.Same(t, old, b.Buffer())
	assert.False(t, old.(*gputest.Buffer).Released)
	assert.Equal(t, gpu.MinInstanceCapacity, b.Capacity())
}

func TestStaticMesh_Upload(t *testing.T) {
	dev := &gputest.Device{}
	shape := core.ParticleShape()

	mesh, err := gpu.NewStaticMesh(dev, "particle", shape)
	require.NoError(t, err)

	assert.Equal(t, uint32(18), mesh.IndexCount)
	vb := mesh.Vertices.(*gputest.Buffer)
	ib := mesh.Indices.(*gputest.Buffer)
	assert.Equal(t, wgpu.BufferUsageVertex, vb.Usage)
	assert.Equal(t, wgpu.BufferUsageIndex, ib.Usage)
	assert.Equal(t, wgpu.ToBytes(shape.Vertices), vb.Data)
	assert.Equal(t, wgpu.ToBytes(shape.Indices), ib.Data)
}

func TestStaticMesh_PadsIndexBuffer(t *testing.T) {
	dev := &gputest.Device{}
	disk := core.GenerateDisk(5, core.ParticleShapeColor)
	require.Len(t, disk.Indices, 9)

	mesh, err := gpu.NewStaticMesh(dev, "odd", disk)
	require.NoError(t, err)

	ib := mesh.Indices.(*gputest.Buffer)
	assert.Equal(t, uint64(20), ib.Size())
	assert.Equal(t, wgpu.ToBytes(disk.Indices), ib.Data[:18])
	assert.Equal(t, []byte{0, 0}, ib.Data[18:])
}

func TestStaticMesh_Errors(t *testing.T) {
	t.Run("degenerate", func(t *testing.T) {
		_, err := gpu.NewStaticMesh(&gputest.Device{}, "tiny", core.GenerateDisk(2, core.AttractorColor))
		assert.Error(t, err)
	})

	t.Run("buffer creation", func(t *testing.T) {
		dev := &gputest.Device{FailBufferInit: true}
		_, err := gpu.NewAttractor(dev)
		assert.ErrorIs(t, err, gputest.ErrInjected)
	})
}

func TestAttractor_Buffers(t *testing.T) {
	dev := &gputest.Device{}
	a, err := gpu.NewAttractor(dev)
	require.NoError(t, err)

	vb, ib, n := a.Buffers()
	assert.Equal(t, uint32(84), n)
	assert.Equal(t, uint64(30*24), vb.Size())
	assert.Equal(t, uint64(84*2), ib.Size())

	a.Release()
	assert.Empty(t, dev.Live())
}
