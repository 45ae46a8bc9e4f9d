// Package enet implements the packet-record boundary of an ENet-style
// reliable UDP transport engine.
//
// The engine side of the boundary works in terms of packet records:
// C-shaped structures carrying a raw data pointer, a current data length,
// a flag word, a bookkeeping tag and an optional free callback. Records
// are produced by [CreatePacket] and consumed by [DestroyPacket]; all
// memory they touch flows through a single pluggable general allocator
// ([Callbacks]), so tests can count allocations, inject failures, or back
// records with pooled storage.
//
// Two allocation disciplines exist:
//
//   - Records created with [FlagNoAllocate] reference caller-supplied
//     storage without copying. The engine never frees that storage
//     itself; release happens through the record's FreeCallback, which
//     the caller installs. This is the send path used by the renet
//     package.
//   - Records created without [FlagNoAllocate] copy the input into
//     engine-owned storage obtained from the general allocator. The
//     engine frees that storage when the record is destroyed. This is
//     how the engine materializes received packets.
//
// Either way, a record's backing storage is released exactly once, on the
// single [DestroyPacket] call for that record. Destroying a record twice
// is a programming error and panics.
//
// Records are not safe for concurrent use. Each record has exactly one
// logical owner at a time; handing a record to another component
// transfers that ownership wholesale.
package enet
