// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package dtlscore

import (
	"crypto/subtle"

	"github.com/hrissan/dtls12/ciphersuite"
	"github.com/hrissan/dtls12/dtlserrors"
	"github.com/hrissan/dtls12/handshake"
)

// smAwaitVerify: ClientHello sent, the server answers either with a
// HelloVerifyRequest cookie challenge or, if it does not do cookie
// exchange, with ServerHello directly [rfc6347:4.2.1].
type smAwaitVerify struct{ smBase }

func (*smAwaitVerify) OnHelloVerifyRequest(conn *Connection, msg handshake.MsgHelloVerifyRequest) error {
	conn.tr.opts.Stats.CookieReceived(len(msg.Cookie))
	conn.cookie = append([]byte(nil), msg.Cookie...)
	conn.clientHelloMsgSeq = conn.nextMessageSeqSend
	conn.nextMessageSeqSend++
	conn.outQueue = conn.outQueue[:0] // the first hello may still be queued
	conn.stateID = smIDAwaitServerHello
	conn.queueClientHelloLocked()
	conn.armRetransmitLocked()
	conn.SignalWriteable()
	return nil
}

func (*smAwaitVerify) OnServerHello(conn *Connection, msg handshake.MsgServerHello, wire []byte) error {
	return handleServerHello(conn, msg, wire)
}

func (*smAwaitVerify) OnTimer(conn *Connection) error {
	return retransmitClientHello(conn)
}

// smAwaitServerHello: cookie resend done, one HelloVerifyRequest round
// is the maximum, so only ServerHello is accepted now.
type smAwaitServerHello struct{ smBase }

func (*smAwaitServerHello) OnServerHello(conn *Connection, msg handshake.MsgServerHello, wire []byte) error {
	return handleServerHello(conn, msg, wire)
}

func (*smAwaitServerHello) OnTimer(conn *Connection) error {
	return retransmitClientHello(conn)
}

func handleServerHello(conn *Connection, msg handshake.MsgServerHello, wire []byte) error {
	if msg.CipherSuite != ciphersuite.TLS_PSK_WITH_AES_128_GCM_SHA256 {
		return dtlserrors.ErrCipherSuiteMismatch
	}
	conn.serverRandom = msg.Random
	conn.transcriptSet(handshake.MsgTypeServerHello, wire)
	conn.tr.clock.StopTimer(&conn.timer) // server reached, hello flight delivered
	conn.stateID = smIDAwaitHelloDone
	return nil
}

func retransmitClientHello(conn *Connection) error {
	if conn.retransmits >= conn.tr.opts.MaxRetransmits {
		return dtlserrors.ErrHandshakeTimeout
	}
	conn.retransmits++
	conn.tr.opts.Stats.Retransmit(conn.retransmits)
	conn.outQueue = conn.outQueue[:0] // replace a stale flight, never send both
	conn.queueClientHelloLocked()
	conn.armRetransmitLocked()
	conn.SignalWriteable()
	return nil
}

type smAwaitHelloDone struct{ smBase }

func (*smAwaitHelloDone) OnServerHelloDone(conn *Connection, msg handshake.MsgServerHelloDone, wire []byte) error {
	conn.transcriptSet(handshake.MsgTypeServerHelloDone, wire)
	conn.stateID = smIDAwaitFinished
	return conn.queueKeyExchangeFlightLocked()
}

type smAwaitFinished struct{ smBase }

func (*smAwaitFinished) OnFinished(conn *Connection, msg handshake.MsgFinished, wire []byte) error {
	expected := conn.serverVerifyDataLocked()
	if subtle.ConstantTimeCompare(expected[:], msg.VerifyData[:]) != 1 {
		return dtlserrors.ErrFinishedVerificationFailed
	}
	conn.stateID = smIDConnected
	conn.tr.opts.Stats.HandshakeComplete()
	conn.handler.OnConnectLocked()
	return nil
}

type smConnected struct{ smBase }

func (*smConnected) OnApplicationData(conn *Connection, plaintext []byte) error {
	return conn.handler.OnReadApplicationDataLocked(plaintext)
}

// the server retransmits its Finished flight if our last datagram was
// lost, a duplicate here is not an error
func (*smConnected) OnFinished(conn *Connection, msg handshake.MsgFinished, wire []byte) error {
	return nil
}
