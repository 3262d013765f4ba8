// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"errors"

	"github.com/hrissan/dtls12/format"
)

var ErrHelloVerifyVersion = errors.New("hello verify request wrong protocol version")

// HelloVerifyRequest is the stateless-retry challenge: the server refuses
// to allocate state until the client echoes the cookie [rfc6347:4.2.1].
// Servers may answer with either DTLS 1.0 or 1.2 in server_version here,
// so the version is read but not enforced against 0xfefd.
type MsgHelloVerifyRequest struct {
	Cookie []byte
}

func (msg *MsgHelloVerifyRequest) Parse(body []byte) (err error) {
	offset := 0
	if offset, _, err = format.ParserReadUint16(body, offset); err != nil {
		return ErrHelloVerifyVersion
	}
	if offset, msg.Cookie, err = format.ParserReadByteLength(body, offset); err != nil {
		return err
	}
	return format.ParserReadFinish(body, offset)
}

func (msg *MsgHelloVerifyRequest) Write(body []byte) []byte {
	if len(msg.Cookie) > MaxCookieLength {
		panic(ErrCookieTooLong)
	}
	body = append(body, 0xFE, 0xFD)
	body = append(body, byte(len(msg.Cookie)))
	return append(body, msg.Cookie...)
}
