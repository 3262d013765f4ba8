// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"encoding/binary"
	"errors"

	"github.com/hrissan/dtls12/format"
	"github.com/hrissan/dtls12/record"
)

var ErrClientHelloVersion = errors.New("client hello wrong protocol version")
var ErrClientHelloCompression = errors.New("client hello must offer null compression only")
var ErrCookieTooLong = errors.New("cookie exceeds 255 bytes")

const MaxCookieLength = 255

type MsgClientHello struct {
	Random [32]byte
	// session_id is always empty, checked but not stored
	Cookie       []byte // empty until a HelloVerifyRequest challenge
	CipherSuites []uint16
	// compression_methods is null only, checked but not stored
}

func (msg *MsgClientHello) Parse(body []byte) (err error) {
	offset := 0
	if offset, err = format.ParserReadUint16Const(body, offset, record.Version, ErrClientHelloVersion); err != nil {
		return err
	}
	if offset, err = format.ParserReadFixedBytes(body, offset, msg.Random[:]); err != nil {
		return err
	}
	var sessionID []byte
	if offset, sessionID, err = format.ParserReadByteLength(body, offset); err != nil {
		return err
	}
	_ = sessionID // we never resume, any length is tolerated on parse
	if offset, msg.Cookie, err = format.ParserReadByteLength(body, offset); err != nil {
		return err
	}
	var suitesBody []byte
	if offset, suitesBody, err = format.ParserReadUint16Length(body, offset); err != nil {
		return err
	}
	if len(suitesBody)%2 != 0 {
		return format.ErrMessageBodyTooShort
	}
	msg.CipherSuites = msg.CipherSuites[:0]
	for i := 0; i < len(suitesBody); i += 2 {
		msg.CipherSuites = append(msg.CipherSuites, binary.BigEndian.Uint16(suitesBody[i:]))
	}
	var compressions []byte
	if offset, compressions, err = format.ParserReadByteLength(body, offset); err != nil {
		return err
	}
	if len(compressions) != 1 || compressions[0] != 0 {
		return ErrClientHelloCompression
	}
	// extensions are permitted after compression_methods, we send none
	// and ignore any trailing bytes on parse
	return nil
}

func (msg *MsgClientHello) Write(body []byte) []byte {
	if len(msg.Cookie) > MaxCookieLength {
		panic(ErrCookieTooLong)
	}
	body = binary.BigEndian.AppendUint16(body, record.Version)
	body = append(body, msg.Random[:]...)
	body = append(body, 0) // empty session_id

	body, cookieMark := format.MarkByteOffset(body)
	body = append(body, msg.Cookie...)
	format.FillByteOffset(body, cookieMark)

	body, mark := format.MarkUint16Offset(body)
	for _, suite := range msg.CipherSuites {
		body = binary.BigEndian.AppendUint16(body, suite)
	}
	format.FillUint16Offset(body, mark)

	body = append(body, 1, 0) // compression_methods: null only
	return body
}
