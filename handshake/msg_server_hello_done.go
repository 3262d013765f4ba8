// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import "github.com/hrissan/dtls12/format"

// ServerHelloDone carries no body.
type MsgServerHelloDone struct{}

func (msg *MsgServerHelloDone) Parse(body []byte) error {
	return format.ParserReadFinish(body, 0)
}

func (msg *MsgServerHelloDone) Write(body []byte) []byte {
	return body
}
