// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package dtlscore

// Event-based interfaces, so the session core owns no goroutines and no
// sockets. Socket loops live in dtlsudp, tests drive the core directly.

// Handler receives session lifecycle and data callbacks.
// All OnXXX methods are called under the connection lock.
// If you need to mutate your own state machine from another goroutine,
// take Connection.Lock() / defer Connection.Unlock() yourself.
type Handler interface {
	// fires exactly once, when the server Finished has been received
	// and its record deprotected successfully
	OnConnectLocked()

	// fires on explicit close, fatal alert, handshake timeout or
	// transport error. err is nil for a locally requested close.
	OnDisconnectLocked(err error)

	// record aliases a receive buffer, parse or copy, never retain.
	// returning an error closes the connection.
	OnReadApplicationDataLocked(record []byte) error
}

// Sender pulls outgoing datagrams from the connection: the connection
// signals writeable, the sender calls OnWriteDatagram until
// drained. A retransmission therefore never races a stale buffered
// datagram, the connection always hands out its current flight.
type Sender interface {
	// adds connection to the send queue (with no duplicates)
	RegisterConnectionForSend(conn *Connection)
	// stops adding connections to the send queue
	Shutdown()
}

// Transport ties options, sender and clock together for connections.
type Transport struct {
	opts  *Options
	snd   Sender
	clock *Clock
}

func NewTransport(opts *Options, snd Sender) *Transport {
	return &Transport{
		opts:  opts,
		snd:   snd,
		clock: NewClock(),
	}
}

func (t *Transport) Options() *Options {
	return t.opts
}

// blocks until Shutdown
func (t *Transport) GoRunClock() {
	t.clock.GoRun()
}

func (t *Transport) Shutdown() {
	t.clock.Close()
	t.snd.Shutdown()
}

func (t *Transport) StartConnection(conn *Connection, handler Handler) error {
	return conn.start(t, handler)
}
