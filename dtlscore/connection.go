// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package dtlscore

import (
	"sync"
	"time"

	"github.com/hrissan/dtls12/dtlserrors"
	"github.com/hrissan/dtls12/dtlsrand"
	"github.com/hrissan/dtls12/keys"
	"github.com/hrissan/dtls12/record"
)

// transcript keeps the exact wire bytes of each handshake message,
// keyed by message type in send/receive order. The cookie resend
// replaces the ClientHello entry in place, HelloVerifyRequest is never
// stored [rfc6347:4.2.1].
type transcriptEntry struct {
	msgType byte
	wire    []byte
}

// Connection owns all per-session state. It is mutated only under mu,
// from sender pulls, receiver pushes and clock fires.
type Connection struct {
	mu      sync.Mutex
	tr      *Transport
	handler Handler

	stateID stateID

	// handshake material, set once each, immutable after
	clientRandom [keys.RandomLength]byte
	serverRandom [keys.RandomLength]byte
	cookie       []byte
	psk          []byte
	transcript   []transcriptEntry
	keys         keys.Keys
	keysSet      bool

	// record bookkeeping. sendEpoch flips 0 -> 1 exactly once, when
	// ChangeCipherSpec is emitted. One 48-bit sequence per epoch,
	// strictly increasing, assigned at datagram build time.
	sendEpoch uint16
	sendSeq   [2]uint64
	// lowest inbound record number still acceptable, packed epoch|seq,
	// so an epoch 0 record arriving after the epoch flip is stale too
	recvFloor          record.Number
	nextMessageSeqSend uint16
	clientHelloMsgSeq  uint16

	// ClientHello retransmission
	timer       Timer
	retransmits int

	// serialized datagrams popped by the sender
	outQueue [][]byte

	closeErr error

	// owned by the sender, protected by its mutex, not conn.mu
	InSenderQueue bool
}

func (conn *Connection) Lock()   { conn.mu.Lock() }
func (conn *Connection) Unlock() { conn.mu.Unlock() }

func (conn *Connection) start(tr *Transport, handler Handler) error {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.stateID != smIDClosed || conn.tr != nil {
		return dtlserrors.ErrConnectionInProgress
	}
	if err := tr.opts.Validate(); err != nil {
		return err
	}
	psk, err := tr.opts.PSKBytes()
	if err != nil {
		return err
	}
	conn.tr = tr
	conn.handler = handler
	conn.psk = psk
	conn.timer.fireFunc = conn.onTimerFire

	fillRandom(conn.clientRandom[:], tr.opts.Rnd)
	conn.clientHelloMsgSeq = conn.nextMessageSeqSend
	conn.nextMessageSeqSend++
	conn.stateID = smIDAwaitVerify
	conn.queueClientHelloLocked()
	conn.armRetransmitLocked()
	conn.SignalWriteable()
	return nil
}

// 4-byte unix time, then 28 random bytes [rfc5246:7.4.1.2]
func fillRandom(dst []byte, rnd dtlsrand.Rand) {
	now := uint32(time.Now().Unix())
	dst[0] = byte(now >> 24)
	dst[1] = byte(now >> 16)
	dst[2] = byte(now >> 8)
	dst[3] = byte(now)
	rnd.ReadMust(dst[4:])
}

func (conn *Connection) state() stateHandler { return stateMachineStates[conn.stateID] }

func (conn *Connection) SignalWriteable() {
	conn.tr.snd.RegisterConnectionForSend(conn)
}

// OnWriteDatagram is called by the sender. It pops the oldest queued
// datagram, so records leave in exactly the order they were issued.
func (conn *Connection) OnWriteDatagram(datagramStorage []byte) (n int, more bool, err error) {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if len(conn.outQueue) == 0 {
		if conn.stateID == smIDClosed {
			return 0, false, dtlserrors.ErrConnectionClosed
		}
		return 0, false, nil
	}
	datagram := conn.outQueue[0]
	if len(datagram) > len(datagramStorage) {
		panic("outgoing datagram exceeds storage, flight builder broken")
	}
	conn.outQueue = conn.outQueue[1:]
	return copy(datagramStorage, datagram), len(conn.outQueue) > 0, nil
}

// SendEncrypted seals plaintext under the client write key and queues
// one application-data record. Returns false with no side effects
// before the handshake completes or after close.
func (conn *Connection) SendEncrypted(data []byte) bool {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.stateID != smIDConnected {
		return false
	}
	if len(data) > conn.tr.opts.MaxAppDataLength {
		return false
	}
	datagram, err := conn.appendProtectedRecordLocked(nil, record.TypeApplicationData, data)
	if err != nil {
		conn.shutdownLocked(err)
		return false
	}
	conn.outQueue = append(conn.outQueue, datagram)
	conn.SignalWriteable()
	return true
}

// StreamSeq returns the number of application records sent so far.
func (conn *Connection) StreamSeq() uint64 {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.sendSeq[1] == 0 {
		return 0
	}
	return conn.sendSeq[1] - 1 // epoch 1 sequence 0 was the Finished record
}

func (conn *Connection) ConnectedLocked() bool {
	return conn.stateID == smIDConnected
}

func (conn *Connection) Close() error {
	conn.Shutdown(nil)
	return nil
}

func (conn *Connection) Shutdown(err error) {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	conn.shutdownLocked(err)
}

func (conn *Connection) shutdownLocked(err error) {
	if conn.stateID == smIDClosed && conn.tr != nil {
		return
	}
	if conn.tr == nil {
		return // never started
	}
	conn.stateID = smIDClosed
	conn.closeErr = err
	conn.tr.clock.StopTimer(&conn.timer)
	conn.queueAlertLocked(record.AlertCloseNormal())
	conn.handler.OnDisconnectLocked(err)
	conn.SignalWriteable()
}

func (conn *Connection) onTimerFire(timer *Timer) {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if err := conn.state().OnTimer(conn); err != nil {
		conn.shutdownLocked(err)
	}
}

func (conn *Connection) armRetransmitLocked() {
	conn.tr.clock.SetTimer(&conn.timer, time.Now().Add(conn.tr.opts.RetransmitDelay))
}

func (conn *Connection) transcriptSet(msgType byte, wire []byte) {
	wire = append([]byte(nil), wire...) // wire may alias the datagram buffer
	for i := range conn.transcript {
		if conn.transcript[i].msgType == msgType {
			conn.transcript[i].wire = wire
			return
		}
	}
	conn.transcript = append(conn.transcript, transcriptEntry{msgType: msgType, wire: wire})
}

func (conn *Connection) transcriptBytes() []byte {
	var total int
	for i := range conn.transcript {
		total += len(conn.transcript[i].wire)
	}
	all := make([]byte, 0, total)
	for i := range conn.transcript {
		all = append(all, conn.transcript[i].wire...)
	}
	return all
}

// deriveKeysLocked runs the whole TLS 1.2 key schedule, exactly once,
// when the client builds its key-exchange flight.
func (conn *Connection) deriveKeysLocked() error {
	if conn.keysSet {
		panic("keys must be derived exactly once per session")
	}
	premaster := keys.PremasterFromPSK(conn.psk)
	k, err := keys.ComputeKeys(premaster, conn.clientRandom, conn.serverRandom)
	if err != nil {
		return err
	}
	conn.keys = k
	conn.keysSet = true
	return nil
}

func (conn *Connection) clientVerifyDataLocked() [keys.VerifyDataLength]byte {
	return keys.ComputeVerifyData(conn.keys.MasterSecret[:], keys.ClientFinishedLabel, conn.transcriptBytes())
}

func (conn *Connection) serverVerifyDataLocked() [keys.VerifyDataLength]byte {
	return keys.ComputeVerifyData(conn.keys.MasterSecret[:], keys.ServerFinishedLabel, conn.transcriptBytes())
}
