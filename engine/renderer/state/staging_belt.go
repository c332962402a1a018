package state

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-pbr/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// StagingBelt is a per-frame arena of transient copy-source buffers. Stage allocates a buffer
// holding the new bytes and records a copy into the destination on the frame's encoder; Reclaim
// releases every buffer staged since the last reclaim and must run after the frame is submitted.
type StagingBelt struct {
	device  *wgpu.Device
	pending []*wgpu.Buffer
	staged  uint64
}

// NewStagingBelt creates an empty belt allocating from device.
func NewStagingBelt(device *wgpu.Device) *StagingBelt {
	return &StagingBelt{device: device}
}

// Stage copies data into dst through a transient buffer. The copy executes when the encoder's
// command buffer is submitted.
//
// Parameters:
//   - encoder: the current frame's command encoder
//   - dst: the destination buffer, created with BufferUsageCopyDst
//   - data: the bytes to upload, exactly dst's size
//
// Returns:
//   - error: wraps common.ErrSizeMismatch when data does not fill dst, or a device error
func (b *StagingBelt) Stage(encoder *wgpu.CommandEncoder, dst *wgpu.Buffer, data []byte) error {
	size := uint64(len(data))
	if size != dst.GetSize() {
		return fmt.Errorf("stage %d bytes into a %d byte buffer: %w", size, dst.GetSize(), common.ErrSizeMismatch)
	}

	src, err := b.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Staging Buffer",
		Contents: data,
		Usage:    wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	b.pending = append(b.pending, src)

	if err := encoder.CopyBufferToBuffer(src, 0, dst, 0, size); err != nil {
		return fmt.Errorf("record staging copy: %w", err)
	}
	b.staged += size
	return nil
}

// Pending returns the number of staging buffers awaiting Reclaim.
func (b *StagingBelt) Pending() int {
	return len(b.pending)
}

// StagedBytes returns the number of bytes staged since the last Reclaim.
func (b *StagingBelt) StagedBytes() uint64 {
	return b.staged
}

// Reclaim releases every staging buffer. Call it once the command buffer that references them
// has been submitted.
func (b *StagingBelt) Reclaim() {
	for _, buf := range b.pending {
		buf.Release()
	}
	b.pending = b.pending[:0]
	b.staged = 0
}
