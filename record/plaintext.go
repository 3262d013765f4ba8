// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package record

import (
	"encoding/binary"
	"errors"

	"github.com/hrissan/dtls12/format"
	"github.com/hrissan/dtls12/safecast"
)

const HeaderSize = 13
const MaxPlaintextRecordLength = 16384 // [rfc5246:6.2.1]

// DTLS 1.2 on the wire [rfc6347:4.1]
const Version = 0xFEFD

const (
	TypeChangeCipherSpec = 20
	TypeAlert            = 21
	TypeHandshake        = 22
	TypeApplicationData  = 23
)

func TypeToName(t byte) string {
	switch t {
	case TypeChangeCipherSpec:
		return "change_cipher_spec"
	case TypeAlert:
		return "alert"
	case TypeHandshake:
		return "handshake"
	case TypeApplicationData:
		return "application_data"
	default:
		return "unknown"
	}
}

var ErrRecordHeaderTooShort = errors.New("record header too short")
var ErrRecordBodyTooShort = errors.New("record body overflows datagram")
var ErrRecordBodyTooLong = errors.New("record body exceeds 2^14")
var ErrRecordWrongVersion = errors.New("record version is not DTLS 1.2")

type Record struct {
	ContentType    byte
	Epoch          uint16
	SequenceNumber uint64 // stored as 48-bit
	// Length is checked, not stored
	// Body aliases the datagram buffer, parse or copy, never retain
	Body []byte
}

// Parse reads one record from the front of datagram and returns how many
// bytes it consumed, so several records packed into one datagram are
// processed strictly in order.
func (hdr *Record) Parse(datagram []byte) (n int, err error) {
	if len(datagram) < HeaderSize {
		return 0, ErrRecordHeaderTooShort
	}
	hdr.ContentType = datagram[0] // classified by the caller
	if binary.BigEndian.Uint16(datagram[1:3]) != Version {
		return 0, ErrRecordWrongVersion
	}
	hdr.Epoch = binary.BigEndian.Uint16(datagram[3:5])
	_, hdr.SequenceNumber, _ = format.ParserReadUint48(datagram, 5)
	length := int(binary.BigEndian.Uint16(datagram[11:13]))
	if length > MaxPlaintextRecordLength {
		return 0, ErrRecordBodyTooLong
	}
	endOffset := HeaderSize + length
	if len(datagram) < endOffset {
		return 0, ErrRecordBodyTooShort
	}
	hdr.Body = datagram[HeaderSize:endOffset]
	return endOffset, nil
}

func (hdr *Record) Write(datagram []byte, body []byte) []byte {
	if len(body) > MaxPlaintextRecordLength {
		panic("record body exceeds 2^14")
	}
	datagram = append(datagram, hdr.ContentType)
	datagram = binary.BigEndian.AppendUint16(datagram, Version)
	datagram = binary.BigEndian.AppendUint16(datagram, hdr.Epoch)
	datagram = format.AppendUint48(datagram, hdr.SequenceNumber)
	datagram = binary.BigEndian.AppendUint16(datagram, safecast.Cast[uint16](len(body)))
	return append(datagram, body...)
}
