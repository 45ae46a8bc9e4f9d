package renet

import (
	"fmt"

	"github.com/opd-ai/renet/enet"
)

// TransmissionMode selects the delivery policy for a packet.
//
// The mode space is closed: the engine does not support reliable
// unsequenced delivery, so no such mode exists and none can be built
// from the exported constants. Passing a value outside the four
// constants to WireFlags panics.
type TransmissionMode uint8

const (
	// UnreliableSequenced delivers the packet unreliably but sequenced
	// relative to other packets on the channel. This is the engine
	// default and the zero value.
	UnreliableSequenced TransmissionMode = iota

	// UnreliableUnsequenced delivers the packet unreliably and without
	// sequencing.
	UnreliableUnsequenced

	// UnreliableUnsequencedUnreliablyFragmented is UnreliableUnsequenced
	// with MTU-exceeding packets fragmented using unreliable sends.
	UnreliableUnsequencedUnreliablyFragmented

	// ReliableSequenced delivers the packet reliably, sequenced with
	// other reliable packets.
	ReliableSequenced
)

// IsReliable reports whether the mode requests reliable delivery.
func (m TransmissionMode) IsReliable() bool {
	switch m {
	case UnreliableSequenced:
		return false
	case UnreliableUnsequenced:
		return false
	case UnreliableUnsequencedUnreliablyFragmented:
		return false
	case ReliableSequenced:
		return true
	}
	panic(fmt.Sprintf("renet: invalid transmission mode %d", m))
}

// IsSequenced reports whether the mode requests sequenced delivery.
func (m TransmissionMode) IsSequenced() bool {
	switch m {
	case UnreliableSequenced:
		return true
	case UnreliableUnsequenced:
		return false
	case UnreliableUnsequencedUnreliablyFragmented:
		return false
	case ReliableSequenced:
		return true
	}
	panic(fmt.Sprintf("renet: invalid transmission mode %d", m))
}

// WireFlags returns the engine flag bits encoding the mode.
// UnreliableSequenced encodes as zero bits, the engine's implicit
// default.
func (m TransmissionMode) WireFlags() uint32 {
	switch m {
	case UnreliableSequenced:
		return 0
	case UnreliableUnsequenced:
		return enet.FlagUnsequenced
	case UnreliableUnsequencedUnreliablyFragmented:
		return enet.FlagUnsequenced | enet.FlagUnreliableFragment
	case ReliableSequenced:
		return enet.FlagReliable
	}
	panic(fmt.Sprintf("renet: invalid transmission mode %d", m))
}

// String returns the mode's name for logging and diagnostics.
func (m TransmissionMode) String() string {
	switch m {
	case UnreliableSequenced:
		return "unreliable-sequenced"
	case UnreliableUnsequenced:
		return "unreliable-unsequenced"
	case UnreliableUnsequencedUnreliablyFragmented:
		return "unreliable-unsequenced-fragmented"
	case ReliableSequenced:
		return "reliable-sequenced"
	}
	return fmt.Sprintf("TransmissionMode(%d)", uint8(m))
}

// modeFlagMask covers the flag bits that encode a transmission mode.
const modeFlagMask = enet.FlagReliable | enet.FlagUnsequenced | enet.FlagUnreliableFragment

// ModeFromWireFlags classifies a record's flag word back into a
// TransmissionMode, ignoring non-mode bits such as FlagNoAllocate. It
// returns false for bit combinations that encode no mode, such as
// reliable together with unsequenced.
func ModeFromWireFlags(flags uint32) (TransmissionMode, bool) {
	switch flags & modeFlagMask {
	case 0:
		return UnreliableSequenced, true
	case enet.FlagUnsequenced:
		return UnreliableUnsequenced, true
	case enet.FlagUnsequenced | enet.FlagUnreliableFragment:
		return UnreliableUnsequencedUnreliablyFragmented, true
	case enet.FlagReliable:
		return ReliableSequenced, true
	}
	return 0, false
}
