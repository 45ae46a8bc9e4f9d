package renet

import (
	"fmt"
	"unsafe"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/renet/enet"
)

// Packet owns one engine packet record. A live Packet is the record's
// single owner; Detach and Destroy both end the wrapper's ownership, and
// any use of the wrapper afterwards panics.
type Packet struct {
	rec *enet.PacketRecord
}

// NewPacket builds a packet around data without copying it.
//
// On success, ownership of data's storage transfers to the packet
// record: the caller must not read, write, reuse or retain data
// afterwards. The storage is handed back to the engine's general
// allocator exactly once, by the record's free callback, when whichever
// side holds the record last destroys it.
//
// On failure, the returned error wraps ErrAllocationFailed, no callback
// is registered anywhere, and data is still fully the caller's.
func NewPacket(data []byte, mode TransmissionMode) (*Packet, error) {
	logrus.WithFields(logrus.Fields{
		"function":    "NewPacket",
		"data_length": len(data),
		"mode":        mode.String(),
	}).Debug("Creating packet")

	rec := enet.CreatePacket(
		unsafe.Pointer(unsafe.SliceData(data)),
		uintptr(len(data)),
		mode.WireFlags()|enet.FlagNoAllocate,
	)
	if rec == nil {
		logrus.WithFields(logrus.Fields{
			"function":    "NewPacket",
			"data_length": len(data),
			"mode":        mode.String(),
		}).Error("Packet record allocation failed")
		return nil, fmt.Errorf("create packet: %w", ErrAllocationFailed)
	}

	// The record tracks the buffer's original capacity so the free
	// callback can reconstruct the full allocation, not just the
	// possibly-shrunk payload.
	rec.UserData = uintptr(cap(data))
	rec.FreeCallback = freeOwnedBuffer

	return &Packet{rec: rec}, nil
}

// freeOwnedBuffer is the release path for caller-supplied storage. It
// rebuilds the original buffer from the record's pointer, current length
// and stashed capacity, and returns it to the general allocator. It runs
// exactly once per record, during DestroyPacket.
func freeOwnedBuffer(rec *enet.PacketRecord) {
	capacity := rec.UserData
	if rec.DataLength > capacity {
		panic(fmt.Sprintf("renet: corrupt packet record: length %d exceeds capacity %d",
			rec.DataLength, capacity))
	}
	var buf []byte
	if capacity > 0 {
		buf = unsafe.Slice((*byte)(rec.Data), capacity)[:rec.DataLength:capacity]
	}
	enet.Free(buf)
}

// FromRecord wraps a record produced by the engine, typically from a
// receive event. No allocation or copy happens; the wrapper simply takes
// over responsibility for destroying the record.
func FromRecord(rec *enet.PacketRecord) *Packet {
	return &Packet{rec: rec}
}

// Detach ends this wrapper's ownership and returns the raw record, for
// handing to the engine's send path. The wrapper's destroy path will
// never run for the record; whoever receives it must destroy it exactly
// once. Detach panics if the wrapper is already dead.
func (p *Packet) Detach() *enet.PacketRecord {
	rec := p.rec
	if rec == nil {
		panic("renet: Detach on detached or destroyed packet")
	}
	p.rec = nil
	return rec
}

// Data returns a read-only view of the packet's current payload. The
// slice aliases the record's storage: it is valid only while this Packet
// is live and must not be retained past Destroy or Detach. Data panics
// if the wrapper is already dead.
func (p *Packet) Data() []byte {
	if p.rec == nil {
		panic("renet: Data on detached or destroyed packet")
	}
	return p.rec.Bytes()
}

// Mode classifies the packet's flag bits back into a TransmissionMode.
// The second result is false if the record carries a bit combination
// that encodes no mode.
func (p *Packet) Mode() (TransmissionMode, bool) {
	if p.rec == nil {
		panic("renet: Mode on detached or destroyed packet")
	}
	return ModeFromWireFlags(p.rec.Flags)
}

// Destroy releases the packet record, which in turn releases its backing
// storage through the appropriate path: the free callback for
// caller-supplied storage, the engine's own free for engine-allocated
// storage. Destroy panics if the wrapper is already dead.
func (p *Packet) Destroy() {
	rec := p.rec
	if rec == nil {
		panic("renet: Destroy on detached or destroyed packet")
	}
	p.rec = nil

	logrus.WithFields(logrus.Fields{
		"function":    "Packet.Destroy",
		"data_length": rec.DataLength,
	}).Debug("Destroying packet")

	enet.DestroyPacket(rec)
}
