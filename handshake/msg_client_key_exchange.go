// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"github.com/hrissan/dtls12/format"
)

// ClientKeyExchange for the plain-PSK exchange is just the identity
// string, telling the server which pre-shared key to look up [rfc4279:2].
type MsgClientKeyExchange struct {
	PSKIdentity []byte
}

func (msg *MsgClientKeyExchange) Parse(body []byte) (err error) {
	offset := 0
	if offset, msg.PSKIdentity, err = format.ParserReadUint16Length(body, offset); err != nil {
		return err
	}
	return format.ParserReadFinish(body, offset)
}

func (msg *MsgClientKeyExchange) Write(body []byte) []byte {
	body, mark := format.MarkUint16Offset(body)
	body = append(body, msg.PSKIdentity...)
	format.FillUint16Offset(body, mark)
	return body
}
