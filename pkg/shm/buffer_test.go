package shm

import (
	"testing"
)

func TestComputeLayout(t *testing.T) {
	config := ComputeLayout("test", []int{2}, []int{2}, 4, 64)

	run := uint32(4 * 64)
	wantIn := [][]uint32{{0, run}}
	wantOut := [][]uint32{{2 * run, 3 * run}}

	for i, bus := range wantIn {
		for j, off := range bus {
			if config.InputOffsets[i][j] != off {
				t.Errorf("input[%d][%d] = %d, want %d", i, j, config.InputOffsets[i][j], off)
			}
		}
	}
	for i, bus := range wantOut {
		for j, off := range bus {
			if config.OutputOffsets[i][j] != off {
				t.Errorf("output[%d][%d] = %d, want %d", i, j, config.OutputOffsets[i][j], off)
			}
		}
	}
}

func TestBufferRoundTrip(t *testing.T) {
	config := ComputeLayout("yabridge-test-shm", []int{2}, []int{2}, 4, 64)
	dir := t.TempDir()

	foreign, err := Create(config, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer foreign.Close()

	native, err := Open(config, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer native.Close()

	// The native side writes inputs, the foreign side passes them through
	// to the outputs, the native side reads them back.
	in0 := native.InputChannel32(0, 0)
	in1 := native.InputChannel32(0, 1)
	for i := range in0 {
		in0[i] = 1.0
		in1[i] = -1.0
	}

	copy(foreign.OutputChannel32(0, 0), foreign.InputChannel32(0, 0))
	copy(foreign.OutputChannel32(0, 1), foreign.InputChannel32(0, 1))

	out0 := native.OutputChannel32(0, 0)
	out1 := native.OutputChannel32(0, 1)
	for i := range out0 {
		if out0[i] != 1.0 || out1[i] != -1.0 {
			t.Fatalf("sample %d: got (%f, %f), want (1, -1)", i, out0[i], out1[i])
		}
	}

	// Offsets are stable across blocks for one configuration.
	if &native.OutputChannel32(0, 0)[0] != &out0[0] {
		t.Error("output run moved between blocks")
	}
}

func TestBufferDoublePrecision(t *testing.T) {
	config := ComputeLayout("yabridge-test-shm64", []int{1}, []int{1}, 8, 32)
	dir := t.TempDir()

	buf, err := Create(config, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Close()

	in := buf.InputChannel64(0, 0)
	if len(in) != 32 {
		t.Fatalf("got %d samples, want 32", len(in))
	}
	in[31] = 0.5
	if buf.InputChannel64(0, 0)[31] != 0.5 {
		t.Error("write not visible through second accessor")
	}
}

func TestBufferResize(t *testing.T) {
	dir := t.TempDir()
	config := ComputeLayout("yabridge-test-resize", []int{2}, []int{2}, 4, 64)

	buf, err := Create(config, dir)
	if err != nil {
		t.Fatal(err)
	}
	defer buf.Close()

	bigger := ComputeLayout("yabridge-test-resize", []int{2}, []int{2}, 4, 256)
	if err := buf.Resize(bigger); err != nil {
		t.Fatal(err)
	}
	if got := len(buf.InputChannel32(0, 1)); got != 256 {
		t.Errorf("after resize got %d samples, want 256", got)
	}

	renamed := ComputeLayout("other-name", []int{1}, []int{1}, 4, 64)
	if err := buf.Resize(renamed); err == nil {
		t.Error("expected resize to a different name to fail")
	}
}
