// Package renet provides the packet-ownership core for an ENet-style
// reliable UDP transport engine.
//
// The engine itself (connection setup, peer management, event polling,
// retransmission) lives behind the [github.com/opd-ai/renet/enet]
// boundary and works in terms of raw packet records. This package wraps
// those records in a [Packet] type that makes the ownership rules
// explicit: a buffer handed to a packet is owned by exactly one side at
// a time and is released exactly once, whether the caller or the engine
// is the last to touch it.
//
// # Sending
//
// Construct a packet from a buffer you own and a [TransmissionMode],
// then hand the record to the engine with [Packet.Detach]:
//
//	payload := []byte("position update")
//	pkt, err := renet.NewPacket(payload, renet.ReliableSequenced)
//	if err != nil {
//	    return err
//	}
//	// payload now belongs to the packet; do not reuse it.
//	engineSend(pkt.Detach())
//
// After a successful NewPacket the buffer's storage belongs to the
// packet record: it is released through the record's free callback when
// the engine destroys the record. Detach hands the record — and with it
// the release responsibility — to the engine; the wrapper is dead
// afterwards and any further use panics.
//
// # Receiving
//
// Records produced by the engine (received packets) are wrapped with
// [FromRecord]. Read the payload with [Packet.Data] and release it with
// [Packet.Destroy] when done:
//
//	pkt := renet.FromRecord(rec)
//	handle(pkt.Data())
//	pkt.Destroy()
//
// The slice returned by Data aliases the record's storage and must not
// be retained past Destroy or Detach.
//
// # Ownership discipline
//
// Packet values are move-only in spirit: exactly one logical owner at a
// time, no sharing between goroutines, no use after Detach or Destroy.
// The type enforces what it can at runtime by panicking on use of a dead
// wrapper; everything beyond that (double-destroying a detached record,
// racing on one handle) is a contract violation the caller must prevent
// by construction.
package renet
