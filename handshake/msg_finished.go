// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"errors"

	"github.com/hrissan/dtls12/format"
)

const VerifyDataLength = 12

var ErrFinishedLength = errors.New("finished verify_data must be 12 bytes")

type MsgFinished struct {
	VerifyData [VerifyDataLength]byte
}

func (msg *MsgFinished) Parse(body []byte) error {
	if len(body) != VerifyDataLength {
		return ErrFinishedLength
	}
	offset, err := format.ParserReadFixedBytes(body, 0, msg.VerifyData[:])
	if err != nil {
		return err
	}
	return format.ParserReadFinish(body, offset)
}

func (msg *MsgFinished) Write(body []byte) []byte {
	return append(body, msg.VerifyData[:]...)
}
