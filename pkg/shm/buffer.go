// Package shm implements the file-backed shared memory segment the audio
// fast lane runs over. The layout is computed once per configuration and
// recorded as plain byte offsets, so no pointer fixup is needed across the
// process boundary. Access is linearised by the process channel's
// request/ack round-trip; the buffer itself carries no locks.
package shm

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/nidefawl/yabridge/pkg/wire"
)

// DefaultDir is where named segments live on Linux.
const DefaultDir = "/dev/shm"

// Buffer is one mapped audio segment. Both sides map the same named object
// read-write. The creating side unlinks the name when it closes, whether or
// not the other side still has the segment mapped; the other side only
// unmaps.
type Buffer struct {
	config wire.BufferConfig
	dir    string
	data   []byte
	size   int
	owner  bool
}

func segmentSize(c *wire.BufferConfig) int {
	end := uint32(0)
	run := c.ElementSize * c.BlockSize
	for _, bus := range c.InputOffsets {
		for _, off := range bus {
			if off+run > end {
				end = off + run
			}
		}
	}
	for _, bus := range c.OutputOffsets {
		for _, off := range bus {
			if off+run > end {
				end = off + run
			}
		}
	}
	return int(end)
}

// Create allocates and maps a new segment for the given configuration.
// Called on the side that computed the layout. dir is DefaultDir in
// production; tests point it at a scratch directory.
func Create(config wire.BufferConfig, dir string) (*Buffer, error) {
	return open(config, dir, true)
}

// Open maps an existing segment created by the other side.
func Open(config wire.BufferConfig, dir string) (*Buffer, error) {
	return open(config, dir, false)
}

func open(config wire.BufferConfig, dir string, create bool) (*Buffer, error) {
	if dir == "" {
		dir = DefaultDir
	}
	size := segmentSize(&config)
	if size == 0 {
		return nil, fmt.Errorf("shm: configuration %q has no channels", config.Name)
	}

	flags := unix.O_RDWR
	if create {
		flags |= unix.O_CREAT | unix.O_EXCL
	}
	path := filepath.Join(dir, config.Name)
	fd, err := unix.Open(path, flags, 0o600)
	if err != nil {
		return nil, fmt.Errorf("shm: opening %s: %w", path, err)
	}
	defer unix.Close(fd)

	if create {
		if err := unix.Ftruncate(fd, int64(size)); err != nil {
			os.Remove(path)
			return nil, fmt.Errorf("shm: sizing %s: %w", path, err)
		}
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		if create {
			os.Remove(path)
		}
		return nil, fmt.Errorf("shm: mapping %s: %w", path, err)
	}

	return &Buffer{config: config, dir: dir, data: data, size: size, owner: create}, nil
}

// Config returns the active buffer configuration.
func (b *Buffer) Config() wire.BufferConfig { return b.config }

// Resize remaps the buffer for a new configuration. Only permitted while
// audio is quiesced on both sides; the caller coordinates that.
func (b *Buffer) Resize(config wire.BufferConfig) error {
	if config.Name != b.config.Name {
		return fmt.Errorf("shm: cannot resize %q into %q", b.config.Name, config.Name)
	}
	newSize := segmentSize(&config)
	if newSize == 0 {
		return fmt.Errorf("shm: configuration %q has no channels", config.Name)
	}

	path := filepath.Join(b.dir, config.Name)
	fd, err := unix.Open(path, unix.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("shm: reopening %s: %w", path, err)
	}
	defer unix.Close(fd)

	if b.owner && newSize > b.size {
		if err := unix.Ftruncate(fd, int64(newSize)); err != nil {
			return fmt.Errorf("shm: resizing %s: %w", path, err)
		}
	}
	data, err := unix.Mmap(fd, 0, newSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("shm: remapping %s: %w", path, err)
	}
	unix.Munmap(b.data)
	b.config = config
	b.data = data
	b.size = newSize
	return nil
}

func (b *Buffer) run(offsets [][]uint32, bus, channel int) []byte {
	off := offsets[bus][channel]
	n := b.config.ElementSize * b.config.BlockSize
	return b.data[off : off+n]
}

// InputChannel32 returns the single-precision sample run for one input
// channel at its fixed offset.
func (b *Buffer) InputChannel32(bus, channel int) []float32 {
	return asFloat32(b.run(b.config.InputOffsets, bus, channel))
}

// OutputChannel32 returns the single-precision sample run for one output
// channel.
func (b *Buffer) OutputChannel32(bus, channel int) []float32 {
	return asFloat32(b.run(b.config.OutputOffsets, bus, channel))
}

// InputChannel64 returns the double-precision sample run for one input
// channel. Valid only when ElementSize is 8.
func (b *Buffer) InputChannel64(bus, channel int) []float64 {
	return asFloat64(b.run(b.config.InputOffsets, bus, channel))
}

// OutputChannel64 returns the double-precision sample run for one output
// channel.
func (b *Buffer) OutputChannel64(bus, channel int) []float64 {
	return asFloat64(b.run(b.config.OutputOffsets, bus, channel))
}

func asFloat32(run []byte) []float32 {
	return unsafe.Slice((*float32)(unsafe.Pointer(&run[0])), len(run)/4)
}

func asFloat64(run []byte) []float64 {
	return unsafe.Slice((*float64)(unsafe.Pointer(&run[0])), len(run)/8)
}

// Close unmaps the segment. The creating side also unlinks the name; a
// file that is already gone is not reported as an error.
func (b *Buffer) Close() error {
	if b.data == nil {
		return nil
	}
	err := unix.Munmap(b.data)
	b.data = nil
	if b.owner {
		if rmErr := os.Remove(filepath.Join(b.dir, b.config.Name)); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = rmErr
		}
	}
	return err
}
