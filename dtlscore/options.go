// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package dtlscore

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hrissan/dtls12/dtlsrand"
	"github.com/hrissan/dtls12/stats"
)

type Options struct {
	Rnd   dtlsrand.Rand
	Stats stats.Stats

	// identity string sent in ClientKeyExchange
	PSKIdentity string
	// pre-shared key as hex pairs, decoded once at Validate/Start
	PSK string

	// ClientHello is resent at this interval while no server reply arrives
	RetransmitDelay time.Duration
	// after this many retransmits (not counting the first send) the
	// handshake is closed with ErrHandshakeTimeout
	MaxRetransmits int

	// largest application record we agree to send in one datagram
	MaxAppDataLength int

	// pause before retrying after a socket error, so a broken socket
	// does not spin the loop
	SocketReadErrorDelay  time.Duration
	SocketWriteErrorDelay time.Duration
}

func DefaultOptions(rnd dtlsrand.Rand, st stats.Stats) *Options {
	return &Options{
		Rnd:              rnd,
		Stats:            st,
		RetransmitDelay:  200 * time.Millisecond,
		MaxRetransmits:   3,
		MaxAppDataLength: 1024,

		SocketReadErrorDelay:  50 * time.Millisecond,
		SocketWriteErrorDelay: 5 * time.Millisecond,
	}
}

func (opts *Options) Validate() error {
	if opts.Rnd == nil {
		return fmt.Errorf("options must set a random source")
	}
	if opts.Stats == nil {
		return fmt.Errorf("options must set a stats sink")
	}
	if opts.PSKIdentity == "" {
		return fmt.Errorf("PSK identity must not be empty")
	}
	if _, err := opts.PSKBytes(); err != nil {
		return err
	}
	if opts.RetransmitDelay <= 0 {
		return fmt.Errorf("RetransmitDelay (%v) must be positive", opts.RetransmitDelay)
	}
	if opts.MaxRetransmits < 0 {
		return fmt.Errorf("MaxRetransmits (%d) must not be negative", opts.MaxRetransmits)
	}
	if opts.MaxAppDataLength <= 0 {
		return fmt.Errorf("MaxAppDataLength (%d) must be positive", opts.MaxAppDataLength)
	}
	return nil
}

func (opts *Options) PSKBytes() ([]byte, error) {
	psk, err := hex.DecodeString(opts.PSK)
	if err != nil {
		return nil, fmt.Errorf("PSK must be hex pairs: %w", err)
	}
	if len(psk) == 0 {
		return nil, fmt.Errorf("PSK must not be empty")
	}
	return psk, nil
}
