// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"encoding/binary"
	"errors"

	"github.com/hrissan/dtls12/format"
	"github.com/hrissan/dtls12/record"
)

var ErrServerHelloVersion = errors.New("server hello wrong protocol version")
var ErrServerHelloCompression = errors.New("server hello selected non-null compression")

type MsgServerHello struct {
	Random      [32]byte
	SessionID   []byte
	CipherSuite uint16
}

func (msg *MsgServerHello) Parse(body []byte) (err error) {
	offset := 0
	if offset, err = format.ParserReadUint16Const(body, offset, record.Version, ErrServerHelloVersion); err != nil {
		return err
	}
	if offset, err = format.ParserReadFixedBytes(body, offset, msg.Random[:]); err != nil {
		return err
	}
	if offset, msg.SessionID, err = format.ParserReadByteLength(body, offset); err != nil {
		return err
	}
	if offset, msg.CipherSuite, err = format.ParserReadUint16(body, offset); err != nil {
		return err
	}
	if offset, err = format.ParserReadByteConst(body, offset, 0, ErrServerHelloCompression); err != nil {
		return err
	}
	// extensions, if any, follow; the PSK handshake needs none of them
	return nil
}

func (msg *MsgServerHello) Write(body []byte) []byte {
	body = binary.BigEndian.AppendUint16(body, record.Version)
	body = append(body, msg.Random[:]...)
	body = append(body, byte(len(msg.SessionID)))
	body = append(body, msg.SessionID...)
	body = binary.BigEndian.AppendUint16(body, msg.CipherSuite)
	return append(body, 0) // null compression
}
