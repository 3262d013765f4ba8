// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"encoding/binary"
	"errors"

	"github.com/hrissan/dtls12/format"
)

const HeaderSize = 12

var ErrHandshakeHeaderTooShort = errors.New("handshake message header too short")
var ErrHandshakeFragmented = errors.New("fragmented handshake messages not supported")

// Header is the 12-byte DTLS handshake header. We do not support
// fragmentation, so FragmentOffset must be 0 and FragmentLength must
// equal Length on both send and receive.
type Header struct {
	MsgType    byte
	Length     uint32 // stored as 24-bit
	MessageSeq uint16
}

func (hdr *Header) Parse(rec []byte) (n int, body []byte, err error) {
	if len(rec) < HeaderSize {
		return 0, nil, ErrHandshakeHeaderTooShort
	}
	hdr.MsgType = rec[0]
	hdr.Length = binary.BigEndian.Uint32(rec[0:4]) & 0xFFFFFF
	hdr.MessageSeq = binary.BigEndian.Uint16(rec[4:6])
	fragmentOffset := binary.BigEndian.Uint32(rec[5:9]) & 0xFFFFFF
	fragmentLength := binary.BigEndian.Uint32(rec[8:12]) & 0xFFFFFF
	if fragmentOffset != 0 || fragmentLength != hdr.Length {
		return 0, nil, ErrHandshakeFragmented
	}
	endOffset := HeaderSize + int(hdr.Length)
	if len(rec) < endOffset {
		return 0, nil, ErrHandshakeHeaderTooShort
	}
	return endOffset, rec[HeaderSize:endOffset], nil
}

func (hdr *Header) Write(datagram []byte) []byte {
	datagram = append(datagram, hdr.MsgType)
	datagram = format.AppendUint24(datagram, hdr.Length)
	datagram = binary.BigEndian.AppendUint16(datagram, hdr.MessageSeq)
	datagram = format.AppendUint24(datagram, 0) // fragment_offset
	datagram = format.AppendUint24(datagram, hdr.Length)
	return datagram
}
