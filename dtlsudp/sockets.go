// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package dtlsudp

import (
	"fmt"
	"log"
	"net"

	"github.com/hrissan/dtls12/dtlscore"
)

// [rfc6347:4.1.1.1] minus UDP header, minus IPv4 header
const MinimumPMTUv4 = 576 - 8 - 20

const maxConsecutiveSocketErrors = 16

// socketErrorRun counts consecutive failed socket operations. One
// success resets it. A socket failing every operation is dead, the
// loops close the session instead of logging and retrying forever.
type socketErrorRun struct {
	consecutive int
}

// returns true when the run is long enough to give up on the socket
func (r *socketErrorRun) fail() bool {
	r.consecutive++
	return r.consecutive >= maxConsecutiveSocketErrors
}

func (r *socketErrorRun) success() {
	r.consecutive = 0
}

// for tests and tools
func OpenSocketMust(addressPort string) *net.UDPConn {
	udpAddr, err := net.ResolveUDPAddr("udp", addressPort)
	if err != nil {
		log.Fatalf("dtls12: cannot resolve local udp address %s: %v", addressPort, err)
	}
	socket, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		log.Fatalf("dtls12: cannot listen to udp address %s: %v", addressPort, err)
	}
	fmt.Printf("dtls12: opened socket for address %s localAddr %s\n", addressPort, socket.LocalAddr().String())
	return socket
}

// Blocks until t.Shutdown().
// Closes socket as part of ordered shutdown, so receiver blocked in Read can stop.
func GoRunUDP(t *dtlscore.Transport, conn *dtlscore.Connection, snd *Sender, socket *net.UDPConn) {
	ch := make(chan struct{}, 1)
	go func() {
		snd.GoRunUDP(socket)
		// on shutdown, sender first sends all alerts, then exits goroutine
		_ = socket.Close() // so receiver also exits
		ch <- struct{}{}
	}()
	GoRunReceiverUDP(t.Options(), conn, snd.Peer(), socket)
	<-ch
}
