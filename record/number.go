// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package record

const MaxSeq = 0xFFFFFFFFFFFF

// 16-bit epoch packed with 48-bit sequence number for cheap comparison.
// Sequence numbers must never reach MaxSeq, enforced by senders.

type Number struct {
	epochSeqNum uint64
}

func NumberWith(epoch uint16, seqNum uint64) Number {
	if seqNum > MaxSeq {
		panic("seqNum must not be over 2^48")
	}
	return Number{epochSeqNum: uint64(epoch)<<48 + seqNum}
}

func (r Number) Less(other Number) bool {
	return r.epochSeqNum < other.epochSeqNum // nicely ordered
}

// Next is the smallest number greater than r. The increment carries
// from the sequence into the epoch, so the last sequence of an epoch
// has a well-defined successor.
func (r Number) Next() Number {
	return Number{epochSeqNum: r.epochSeqNum + 1}
}

func (r Number) Epoch() uint16 {
	return uint16(r.epochSeqNum >> 48)
}

func (r Number) SeqNum() uint64 {
	return r.epochSeqNum & MaxSeq
}
