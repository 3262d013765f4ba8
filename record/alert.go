// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package record

import (
	"errors"
	"fmt"

	"github.com/hrissan/dtls12/format"
)

var ErrAlertLevelParsing = errors.New("alert level failed to parse")

const AlertSize = 2

const (
	// we use 0 as "no alert" indicator
	AlertLevelWarning = 1
	AlertLevelFatal   = 2

	AlertCloseNotify = 0
)

type Alert struct {
	Level       byte
	Description byte
}

func (msg Alert) IsFatal() bool {
	return msg.Level == AlertLevelFatal
}

func (msg Alert) Error() string {
	return fmt.Sprintf("dtls12: alert level %d description %d", msg.Level, msg.Description)
}

// close_notify travels at warning level [rfc5246:7.2.1]
func AlertCloseNormal() Alert { return Alert{Level: AlertLevelWarning, Description: AlertCloseNotify} }

func (msg *Alert) Parse(body []byte) (err error) {
	offset := 0
	var level byte
	if offset, level, err = format.ParserReadByte(body, offset); err != nil {
		return err
	}
	switch level {
	case AlertLevelWarning, AlertLevelFatal:
		msg.Level = level
	default:
		return ErrAlertLevelParsing
	}
	if offset, msg.Description, err = format.ParserReadByte(body, offset); err != nil {
		return err
	}
	return format.ParserReadFinish(body, offset)
}

func (msg Alert) Write(body []byte) []byte {
	switch msg.Level {
	case AlertLevelWarning, AlertLevelFatal:
		return append(body, msg.Level, msg.Description)
	default:
		panic("should not write alert with level not in standard")
	}
}
