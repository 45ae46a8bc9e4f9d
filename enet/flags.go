package enet

// Packet flag bits. These are part of the engine ABI: the bit positions
// are consumed as-is by the transport engine and must not be renumbered.
const (
	// FlagReliable requests delivery with acknowledgement and
	// retransmission. Reliable packets are always sequenced.
	FlagReliable uint32 = 1 << 0

	// FlagUnsequenced disables sequencing for the packet; it will not be
	// ordered relative to other packets on the channel.
	FlagUnsequenced uint32 = 1 << 1

	// FlagNoAllocate tells CreatePacket to reference the supplied storage
	// instead of copying it. The record's FreeCallback becomes
	// responsible for releasing that storage.
	FlagNoAllocate uint32 = 1 << 2

	// FlagUnreliableFragment allows a packet larger than the MTU to be
	// fragmented using unreliable sends instead of reliable ones.
	FlagUnreliableFragment uint32 = 1 << 3
)
