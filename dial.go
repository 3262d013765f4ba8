// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package dtls12

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/hrissan/dtls12/dtlscore"
	"github.com/hrissan/dtls12/dtlsudp"
)

// Dial opens a UDP socket, runs the handshake with the server at
// address and blocks until it completes or fails.
func Dial(opts *dtlscore.Options, network, address string) (*Conn, error) {
	return DialTimeout(opts, network, address, 0)
}

func DialTimeout(opts *dtlscore.Options, network, address string, timeout time.Duration) (*Conn, error) {
	netipAddr, err := netip.ParseAddrPort(address)
	if err != nil {
		return nil, err
	}
	netAddr, err := net.ResolveUDPAddr(network, address)
	if err != nil {
		return nil, err
	}
	socket, err := net.ListenUDP(network, nil)
	if err != nil {
		return nil, err
	}
	snd := dtlsudp.NewSender(opts, netipAddr)
	t := dtlscore.NewTransport(opts, snd)
	conn := newConn(t, socket.LocalAddr(), netAddr)
	go t.GoRunClock()
	go dtlsudp.GoRunUDP(t, &conn.tc, snd, socket)
	if err := t.StartConnection(&conn.tc, conn); err != nil {
		t.Shutdown()
		return nil, err
	}
	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	select {
	case <-conn.condDial:
	case <-ctx.Done():
		_ = conn.Close()
		return nil, ctx.Err()
	}
	conn.tc.Lock()
	closed, closeErr := conn.closed, conn.closeErr
	conn.tc.Unlock()
	if closed {
		t.Shutdown()
		if closeErr == nil {
			closeErr = net.ErrClosed
		}
		return nil, closeErr
	}
	return conn, nil
}
