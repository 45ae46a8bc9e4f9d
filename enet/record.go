package enet

import (
	"unsafe"

	"github.com/sirupsen/logrus"
)

// PacketRecord is the engine's view of a single packet. Its exported
// fields mirror the engine ABI and are mutable by the engine: in
// particular DataLength may shrink after framing or fragmentation, so it
// is the authoritative length, not the length the record was created
// with.
//
// UserData is a bookkeeping tag for whichever layer owns the record's
// storage; the renet packet layer stashes the original buffer capacity
// there. It is not a general-purpose extension point for applications.
type PacketRecord struct {
	// Data points at the first payload byte, or is nil for an empty
	// packet. The pointer keeps its referent reachable, so
	// caller-supplied storage cannot be collected out from under a live
	// record.
	Data unsafe.Pointer

	// DataLength is the current payload length in bytes.
	DataLength uintptr

	// Flags is the packet flag word the record was created with.
	Flags uint32

	// UserData is an opaque tag owned by the record's creator.
	UserData uintptr

	// FreeCallback, when non-nil, runs during DestroyPacket before any
	// engine-side storage is freed. It is the release path for
	// caller-supplied (FlagNoAllocate) storage.
	FreeCallback func(*PacketRecord)

	// storage backs the payload when the engine allocated it itself
	// (record created without FlagNoAllocate).
	storage []byte

	// header models the record structure's own allocation; freed last.
	header []byte

	destroyed bool
}

// recordOverhead is charged to the general allocator for the record
// structure itself, so alloc/free accounting matches a native engine.
var recordOverhead = int(unsafe.Sizeof(PacketRecord{}))

// CreatePacket allocates a packet record for dataLength bytes at data.
// It returns nil if the general allocator fails.
//
// With FlagNoAllocate the record references the caller's storage without
// copying; the caller keeps responsibility for that storage and normally
// installs a FreeCallback to release it. Without FlagNoAllocate the
// engine copies the payload into storage of its own (a nil data pointer
// yields a zeroed payload).
func CreatePacket(data unsafe.Pointer, dataLength uintptr, flags uint32) *PacketRecord {
	header := callbacks.Malloc(recordOverhead)
	if header == nil {
		logrus.WithFields(logrus.Fields{
			"function":    "CreatePacket",
			"data_length": dataLength,
			"flags":       flags,
		}).Error("General allocator failed to allocate packet record")
		return nil
	}

	rec := &PacketRecord{
		DataLength: dataLength,
		Flags:      flags,
		header:     header,
	}

	switch {
	case flags&FlagNoAllocate != 0:
		rec.Data = data
	case dataLength > 0:
		storage := callbacks.Malloc(int(dataLength))
		if storage == nil {
			logrus.WithFields(logrus.Fields{
				"function":    "CreatePacket",
				"data_length": dataLength,
			}).Error("General allocator failed to allocate packet storage")
			callbacks.Free(header)
			return nil
		}
		if data != nil {
			copy(storage, unsafe.Slice((*byte)(data), dataLength))
		}
		rec.storage = storage
		rec.Data = unsafe.Pointer(&storage[0])
	}

	logrus.WithFields(logrus.Fields{
		"function":    "CreatePacket",
		"data_length": dataLength,
		"flags":       flags,
		"no_allocate": flags&FlagNoAllocate != 0,
	}).Debug("Packet record created")

	return rec
}

// DestroyPacket releases a packet record. The record's FreeCallback, if
// installed, runs first; engine-owned storage is freed afterwards, then
// the record allocation itself. Destroying a record twice indicates a
// corrupted ownership chain and panics.
func DestroyPacket(rec *PacketRecord) {
	if rec == nil {
		return
	}
	if rec.destroyed {
		panic("enet: packet record destroyed twice")
	}

	// The release sequence sees the record intact; the record is only
	// poisoned once every release path has run.
	if rec.FreeCallback != nil {
		rec.FreeCallback(rec)
	}
	if rec.Flags&FlagNoAllocate == 0 && rec.storage != nil {
		callbacks.Free(rec.storage)
	}
	callbacks.Free(rec.header)

	logrus.WithFields(logrus.Fields{
		"function":    "DestroyPacket",
		"data_length": rec.DataLength,
		"flags":       rec.Flags,
	}).Debug("Packet record destroyed")

	rec.destroyed = true
	rec.Data = nil
	rec.DataLength = 0
	rec.FreeCallback = nil
	rec.storage = nil
	rec.header = nil
}

// Bytes returns the record's current payload: DataLength bytes starting
// at Data. The slice aliases the record's storage and is only valid
// while the record is live.
func (rec *PacketRecord) Bytes() []byte {
	if rec.destroyed {
		panic("enet: Bytes on destroyed packet record")
	}
	if rec.Data == nil || rec.DataLength == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(rec.Data), rec.DataLength)
}
