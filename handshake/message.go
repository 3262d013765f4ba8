// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

// Message is a complete handshake message, header plus body, as it
// appears on the wire. The state machine keeps these bytes for the
// Finished transcript, so Write must be byte-exact with what was sent.
type Message struct {
	MsgType byte
	Body    []byte
}

// Write serializes header and body with the given message sequence.
func (msg Message) Write(datagram []byte, messageSeq uint16) []byte {
	hdr := Header{
		MsgType:    msg.MsgType,
		Length:     uint32(len(msg.Body)),
		MessageSeq: messageSeq,
	}
	datagram = hdr.Write(datagram)
	return append(datagram, msg.Body...)
}
