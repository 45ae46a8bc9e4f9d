package renet

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/renet/enet"
)

// countingAllocator instruments the engine's general allocator so tests
// can assert on alloc/free balance and exactly-once release.
type countingAllocator struct {
	mallocs  int
	frees    int
	failNext bool
	freed    map[unsafe.Pointer]int
}

func installCountingAllocator(t *testing.T) *countingAllocator {
	t.Helper()

	a := &countingAllocator{freed: make(map[unsafe.Pointer]int)}
	enet.SetCallbacks(enet.Callbacks{
		Malloc: func(size int) []byte {
			if a.failNext {
				a.failNext = false
				return nil
			}
			a.mallocs++
			return make([]byte, size)
		},
		Free: func(buf []byte) {
			a.frees++
			if buf != nil {
				a.freed[unsafe.Pointer(unsafe.SliceData(buf))]++
			}
		},
	})
	t.Cleanup(func() { enet.SetCallbacks(enet.DefaultCallbacks()) })

	return a
}

// assertNoDoubleFree fails if any buffer was handed back to the
// allocator more than once.
func (a *countingAllocator) assertNoDoubleFree(t *testing.T) {
	t.Helper()
	for ptr, n := range a.freed {
		if n != 1 {
			t.Errorf("buffer %p freed %d times", ptr, n)
		}
	}
}

func TestPacketDataRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{"non-empty", []byte{0xDE, 0xAD, 0xBE, 0xEF}},
		{"single byte", []byte{0x01}},
		{"empty", []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := make([]byte, len(tt.payload))
			copy(want, tt.payload)

			pkt, err := NewPacket(tt.payload, UnreliableSequenced)
			require.NoError(t, err)

			got := pkt.Data()
			assert.Len(t, got, len(want))
			if len(want) > 0 {
				assert.Equal(t, want, got)
			}

			pkt.Destroy()
		})
	}
}

func TestNewPacketEmptyReliable(t *testing.T) {
	pkt, err := NewPacket([]byte{}, ReliableSequenced)
	require.NoError(t, err)

	assert.Empty(t, pkt.Data())

	mode, ok := pkt.Mode()
	require.True(t, ok)
	assert.Equal(t, ReliableSequenced, mode)
	assert.True(t, mode.IsReliable())

	pkt.Destroy()
}

func TestNewPacketFragmentedWireFlags(t *testing.T) {
	pkt, err := NewPacket([]byte{1, 2, 3}, UnreliableUnsequencedUnreliablyFragmented)
	require.NoError(t, err)

	rec := pkt.Detach()
	defer enet.DestroyPacket(rec)

	assert.NotZero(t, rec.Flags&enet.FlagUnsequenced, "UNSEQUENCED bit must be set")
	assert.NotZero(t, rec.Flags&enet.FlagUnreliableFragment, "UNRELIABLE_FRAGMENT bit must be set")
	assert.NotZero(t, rec.Flags&enet.FlagNoAllocate, "NO_ALLOCATE bit must be set")
	assert.Zero(t, rec.Flags&enet.FlagReliable, "RELIABLE bit must not be set")
}

func TestPacketModeRoundTrip(t *testing.T) {
	modes := []TransmissionMode{
		UnreliableSequenced,
		UnreliableUnsequenced,
		UnreliableUnsequencedUnreliablyFragmented,
		ReliableSequenced,
	}

	for _, m := range modes {
		pkt, err := NewPacket([]byte{0x42}, m)
		require.NoError(t, err)

		got, ok := pkt.Mode()
		assert.True(t, ok)
		assert.Equal(t, m, got)

		pkt.Destroy()
	}
}

// TestPacketLifecycleBalancesAllocator drives many construct/destroy
// cycles through an instrumented allocator and requires every
// allocation to be released exactly once.
func TestPacketLifecycleBalancesAllocator(t *testing.T) {
	a := installCountingAllocator(t)

	modes := []TransmissionMode{
		UnreliableSequenced,
		UnreliableUnsequenced,
		UnreliableUnsequencedUnreliablyFragmented,
		ReliableSequenced,
	}

	const rounds = 10000
	for i := 0; i < rounds; i++ {
		buf := enet.Malloc(32)
		require.NotNil(t, buf)
		buf[0] = byte(i)

		pkt, err := NewPacket(buf, modes[i%len(modes)])
		require.NoError(t, err)
		pkt.Destroy()
	}

	assert.Greater(t, a.mallocs, 0)
	assert.Equal(t, a.mallocs, a.frees, "allocator must end balanced")
	a.assertNoDoubleFree(t)
}

// TestNewPacketAllocFailure simulates engine allocator failure and
// verifies that the caller keeps ownership of an intact buffer with no
// release callback registered anywhere.
func TestNewPacketAllocFailure(t *testing.T) {
	a := installCountingAllocator(t)
	a.failNext = true

	buf := []byte{9, 8, 7}
	pkt, err := NewPacket(buf, ReliableSequenced)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllocationFailed)
	assert.Nil(t, pkt)

	// The buffer is untouched and still the caller's to use.
	assert.Equal(t, []byte{9, 8, 7}, buf)
	buf[0] = 1
	assert.Equal(t, []byte{1, 8, 7}, buf)

	// Nothing was allocated, so nothing may ever be freed.
	assert.Zero(t, a.mallocs)
	assert.Zero(t, a.frees)
}

// TestDetachThenManualDestroy covers the send-path handoff: after
// Detach the wrapper is dead, and the single manual destroy of the raw
// record fires the buffer release exactly once.
func TestDetachThenManualDestroy(t *testing.T) {
	a := installCountingAllocator(t)

	buf := enet.Malloc(16)
	require.NotNil(t, buf)
	copy(buf, "engine handoff")
	bufPtr := unsafe.Pointer(unsafe.SliceData(buf))

	pkt, err := NewPacket(buf, ReliableSequenced)
	require.NoError(t, err)

	rec := pkt.Detach()
	require.NotNil(t, rec)

	// The wrapper relinquished ownership; any further use is a bug.
	assert.Panics(t, func() { pkt.Data() })
	assert.Panics(t, func() { pkt.Destroy() })
	assert.Panics(t, func() { pkt.Detach() })

	enet.DestroyPacket(rec)

	assert.Equal(t, 1, a.freed[bufPtr], "caller buffer must be released exactly once")
	assert.Equal(t, a.mallocs, a.frees)

	// A second destroy is a precondition violation and must fail loudly.
	assert.Panics(t, func() { enet.DestroyPacket(rec) })
}

func TestPacketUseAfterDestroyPanics(t *testing.T) {
	pkt, err := NewPacket([]byte{1, 2, 3}, UnreliableUnsequenced)
	require.NoError(t, err)
	pkt.Destroy()

	assert.Panics(t, func() { pkt.Data() })
	assert.Panics(t, func() { pkt.Destroy() })
	assert.Panics(t, func() { pkt.Detach() })
	assert.Panics(t, func() { pkt.Mode() })
}

// TestFromRecordEngineAllocated wraps a record the engine allocated
// itself (receive path) and verifies the engine's own free path runs,
// with no caller-buffer callback involved.
func TestFromRecordEngineAllocated(t *testing.T) {
	a := installCountingAllocator(t)

	src := []byte{1, 2, 3, 4, 5}
	rec := enet.CreatePacket(unsafe.Pointer(&src[0]), uintptr(len(src)), 0)
	require.NotNil(t, rec)

	pkt := FromRecord(rec)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, pkt.Data())

	// The engine copied the payload; the source is independent.
	src[0] = 0xFF
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, pkt.Data())

	pkt.Destroy()

	assert.Equal(t, a.mallocs, a.frees)
	a.assertNoDoubleFree(t)
}

// TestDataTracksShrunkDataLength verifies that Data honors the record's
// current length while release still reconstructs the full original
// capacity.
func TestDataTracksShrunkDataLength(t *testing.T) {
	a := installCountingAllocator(t)

	buf := enet.Malloc(8)
	require.NotNil(t, buf)
	for i := range buf {
		buf[i] = byte(i)
	}
	bufPtr := unsafe.Pointer(unsafe.SliceData(buf))

	pkt, err := NewPacket(buf, UnreliableSequenced)
	require.NoError(t, err)

	// The engine may trim the payload after framing.
	rec := pkt.Detach()
	rec.DataLength = 3

	pkt = FromRecord(rec)
	assert.Equal(t, []byte{0, 1, 2}, pkt.Data())

	pkt.Destroy()
	assert.Equal(t, 1, a.freed[bufPtr], "full original buffer must be released once")
	assert.Equal(t, a.mallocs, a.frees)
}
