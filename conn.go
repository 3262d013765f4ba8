package dtls12

import (
	"io"
	"net"
	"time"

	"github.com/hrissan/dtls12/dtlscore"
)

// blocking net.Conn adapter - not optimized at all, unlike core
// we store no empty records, because they violate io.Reader contract

const maxRecordsBuffer = 10

type Conn struct {
	tc dtlscore.Connection
	t  *dtlscore.Transport

	localAddr  net.Addr
	remoteAddr net.Addr
	maxChunk   int

	// protected by tc's lock, shared with handler callbacks
	closed   bool
	closeErr error
	condRead chan struct{}
	condDial chan struct{}
	reading  [][]byte
}

func newConn(t *dtlscore.Transport, localAddr net.Addr, remoteAddr net.Addr) *Conn {
	return &Conn{
		t:          t,
		localAddr:  localAddr,
		remoteAddr: remoteAddr,
		maxChunk:   t.Options().MaxAppDataLength,
		condRead:   make(chan struct{}, 1),
		condDial:   make(chan struct{}, 1),
	}
}

var _ net.Conn = &Conn{}
var _ io.ReadWriter = &Conn{}

func signalCond(cond chan struct{}) {
	select {
	case cond <- struct{}{}:
	default:
	}
}

func (c *Conn) LocalAddr() net.Addr                { return c.localAddr }
func (c *Conn) RemoteAddr() net.Addr               { return c.remoteAddr }
func (c *Conn) SetDeadline(t time.Time) error      { return nil } // TODO
func (c *Conn) SetReadDeadline(t time.Time) error  { return nil } // TODO
func (c *Conn) SetWriteDeadline(t time.Time) error { return nil } // TODO

func (c *Conn) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	c.tc.Lock()
	defer c.tc.Unlock()
	for {
		if c.closed {
			return 0, net.ErrClosed
		}
		if len(c.reading) == 0 {
			c.tc.Unlock()
			<-c.condRead
			c.tc.Lock()
			continue
		}
		if len(c.reading[0]) == 0 {
			panic("empty record")
		}
		copied := copy(b, c.reading[0])
		c.reading[0] = c.reading[0][copied:]
		if len(c.reading[0]) == 0 {
			c.reading = c.reading[1:]
		}
		return copied, nil
	}
}

// Write seals b into as many application records as needed. Each record
// carries at most MaxAppDataLength bytes of plaintext.
func (c *Conn) Write(b []byte) (int, error) {
	written := 0
	for written < len(b) {
		chunk := b[written:]
		if len(chunk) > c.maxChunk {
			chunk = chunk[:c.maxChunk]
		}
		if !c.tc.SendEncrypted(chunk) {
			return written, net.ErrClosed
		}
		written += len(chunk)
	}
	return written, nil
}

func (c *Conn) Close() error {
	c.tc.Shutdown(nil) // queues close_notify, fires OnDisconnectLocked
	c.t.Shutdown()     // sender drains the alert, then sockets close
	return nil
}

func (c *Conn) OnConnectLocked() {
	signalCond(c.condDial)
}

func (c *Conn) OnDisconnectLocked(err error) {
	if c.closed {
		return
	}
	c.closed = true
	c.closeErr = err
	close(c.condRead)
	signalCond(c.condDial) // a dialer may still be waiting
}

func (c *Conn) OnReadApplicationDataLocked(record []byte) error {
	if c.closed {
		return io.EOF
	}
	if len(record) == 0 {
		return nil // we do not store empty records, they violate io.Reader contract
	}
	if len(c.reading) >= maxRecordsBuffer {
		return nil // we are losing records, because no one is reading on our side
	}
	c.reading = append(c.reading, append([]byte{}, record...))
	signalCond(c.condRead)
	return nil
}
