// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package dtlsudp

import (
	"errors"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/hrissan/dtls12/dtlscore"
)

// Sender implements dtlscore.Sender over a UDP socket. Connections
// signal writeable, the sender pulls their current datagrams one at a
// time, so a retransmission never races a stale buffered flight.
type Sender struct {
	opts *dtlscore.Options
	peer netip.AddrPort

	mu       sync.Mutex
	cond     *sync.Cond
	shutdown bool

	wantToWriteQueue []*dtlscore.Connection

	errorRun socketErrorRun // touched only by the GoRunUDP goroutine
}

func NewSender(opts *dtlscore.Options, peer netip.AddrPort) *Sender {
	snd := &Sender{
		opts: opts,
		peer: peer,
	}
	snd.cond = sync.NewCond(&snd.mu)
	return snd
}

func (snd *Sender) Peer() netip.AddrPort { return snd.peer }

func (snd *Sender) RegisterConnectionForSend(conn *dtlscore.Connection) {
	snd.mu.Lock()
	defer snd.mu.Unlock()
	if conn.InSenderQueue {
		return
	}
	conn.InSenderQueue = true
	snd.wantToWriteQueue = append(snd.wantToWriteQueue, conn)
	snd.cond.Signal()
}

// socket must be closed by socket owner (externally)
func (snd *Sender) Shutdown() {
	snd.mu.Lock()
	defer snd.mu.Unlock()
	snd.shutdown = true
	snd.cond.Broadcast()
}

// blocks until Shutdown
func (snd *Sender) GoRunUDP(socket *net.UDPConn) {
	datagram := make([]byte, 65536)
	snd.mu.Lock()
	for {
		if !(snd.shutdown || len(snd.wantToWriteQueue) != 0) {
			snd.cond.Wait()
		}
		var conn *dtlscore.Connection
		if len(snd.wantToWriteQueue) != 0 {
			conn = snd.wantToWriteQueue[0]
			snd.wantToWriteQueue[0] = nil // do not leave alias
			snd.wantToWriteQueue = snd.wantToWriteQueue[1:]
			conn.InSenderQueue = false
		}
		sendShutdown := snd.shutdown
		snd.mu.Unlock()
		if sendShutdown && conn == nil {
			return // drained, alerts included
		}
		addToSendQueue := false
		if conn != nil {
			n, more, err := conn.OnWriteDatagram(datagram[:MinimumPMTUv4])
			if err == nil && n != 0 {
				open, werr := snd.sendDatagram(socket, datagram[:n], snd.peer)
				if !open {
					return // socket closed under us
				}
				if werr == nil {
					snd.errorRun.success()
				} else if snd.errorRun.fail() {
					// socket failed too many times in a row, stop
					// pretending the session has a transport
					conn.Shutdown(werr)
				}
			}
			addToSendQueue = more
		}
		snd.mu.Lock()
		if addToSendQueue && !conn.InSenderQueue {
			conn.InSenderQueue = true
			snd.wantToWriteQueue = append(snd.wantToWriteQueue, conn)
		}
	}
}

// open is false if the socket was closed under us. err is any other
// write error, already logged and rate limited here.
func (snd *Sender) sendDatagram(socket *net.UDPConn, data []byte, addr netip.AddrPort) (open bool, err error) {
	snd.opts.Stats.SocketWriteDatagram(data, addr)
	n, err := socket.WriteToUDPAddrPort(data, addr)
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return false, nil
		}
		snd.opts.Stats.SocketWriteError(n, addr, err)
		time.Sleep(snd.opts.SocketWriteErrorDelay)
		return true, err
	}
	return true, nil
}
