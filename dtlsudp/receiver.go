// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package dtlsudp

import (
	"errors"
	"net"
	"net/netip"
	"time"

	"github.com/hrissan/dtls12/dtlscore"
)

// Blocks until socket is closed (externally) or fails persistently.
// A long run of read errors closes the session, so a dead socket does
// not keep a dialer waiting forever.
func GoRunReceiverUDP(opts *dtlscore.Options, conn *dtlscore.Connection, peer netip.AddrPort, socket *net.UDPConn) {
	datagram := make([]byte, 65536)
	var errorRun socketErrorRun
	for {
		n, addr, err := socket.ReadFromUDPAddrPort(datagram)
		if n != 0 { // do not check for an error here
			opts.Stats.SocketReadDatagram(datagram[:n], addr)
			// a client socket talks to a single server, a datagram from
			// anyone else is unrelated traffic and is dropped
			if addr == peer {
				_ = conn.OnDatagram(datagram[:n])
			}
		}
		if err == nil {
			errorRun.success()
			continue
		}
		if errors.Is(err, net.ErrClosed) {
			return
		}
		opts.Stats.SocketReadError(n, addr, err)
		if errorRun.fail() {
			conn.Shutdown(err)
			return
		}
		time.Sleep(opts.SocketReadErrorDelay)
	}
}
