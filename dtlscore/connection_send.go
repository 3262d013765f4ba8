// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package dtlscore

import (
	"github.com/hrissan/dtls12/ciphersuite"
	"github.com/hrissan/dtls12/dtlserrors"
	"github.com/hrissan/dtls12/handshake"
	"github.com/hrissan/dtls12/record"
)

// appendRecordLocked writes one plaintext record to datagram, consuming
// the next sequence number of the given epoch. Flights are serialized at
// build time, so a retransmitted flight always carries fresh sequence
// numbers while reusing message sequence numbers [rfc6347:4.2.2].
func (conn *Connection) appendRecordLocked(datagram []byte, contentType byte, epoch uint16, body []byte) ([]byte, error) {
	seq := conn.sendSeq[epoch]
	if seq >= record.MaxSeq {
		return datagram, dtlserrors.ErrSendSeqOverflow
	}
	conn.sendSeq[epoch] = seq + 1
	hdr := record.Record{ContentType: contentType, Epoch: epoch, SequenceNumber: seq}
	return hdr.Write(datagram, body), nil
}

func (conn *Connection) appendProtectedRecordLocked(datagram []byte, contentType byte, plaintext []byte) ([]byte, error) {
	seq := conn.sendSeq[1]
	if seq >= record.MaxSeq {
		return datagram, dtlserrors.ErrSendSeqOverflow
	}
	conn.sendSeq[1] = seq + 1
	body := conn.keys.Client.Protect(contentType, 1, seq, plaintext)
	hdr := record.Record{ContentType: contentType, Epoch: 1, SequenceNumber: seq}
	return hdr.Write(datagram, body), nil
}

// queueClientHelloLocked builds and queues the ClientHello flight.
// Called for the initial hello, the cookie resend and every
// retransmission. The transcript entry is replaced, not appended, so
// Finished hashes only the latest ClientHello [rfc6347:4.2.1].
func (conn *Connection) queueClientHelloLocked() {
	msg := handshake.MsgClientHello{
		Random:       conn.clientRandom,
		Cookie:       conn.cookie,
		CipherSuites: []uint16{ciphersuite.TLS_PSK_WITH_AES_128_GCM_SHA256},
	}
	wire := handshake.Message{
		MsgType: handshake.MsgTypeClientHello,
		Body:    msg.Write(nil),
	}.Write(nil, conn.clientHelloMsgSeq)
	conn.transcriptSet(handshake.MsgTypeClientHello, wire)

	datagram, err := conn.appendRecordLocked(nil, record.TypeHandshake, 0, wire)
	if err != nil {
		conn.shutdownLocked(err)
		return
	}
	conn.outQueue = append(conn.outQueue, datagram)
}

// queueKeyExchangeFlightLocked queues the whole second client flight as
// one datagram: ClientKeyExchange, ChangeCipherSpec, then Finished
// already sealed under the new keys. The send epoch flips to 1 here and
// never returns to 0.
func (conn *Connection) queueKeyExchangeFlightLocked() error {
	if err := conn.deriveKeysLocked(); err != nil {
		return err
	}

	cke := handshake.MsgClientKeyExchange{PSKIdentity: []byte(conn.tr.opts.PSKIdentity)}
	ckeWire := handshake.Message{
		MsgType: handshake.MsgTypeClientKeyExchange,
		Body:    cke.Write(nil),
	}.Write(nil, conn.nextMessageSeqSend)
	conn.nextMessageSeqSend++
	conn.transcriptSet(handshake.MsgTypeClientKeyExchange, ckeWire)

	datagram, err := conn.appendRecordLocked(nil, record.TypeHandshake, 0, ckeWire)
	if err != nil {
		return err
	}
	datagram, err = conn.appendRecordLocked(datagram, record.TypeChangeCipherSpec, 0, []byte{1})
	if err != nil {
		return err
	}
	conn.sendEpoch = 1

	// verify_data covers the transcript up to and including our
	// ClientKeyExchange; our Finished joins the transcript afterwards
	// so the server's Finished can be checked against it
	fin := handshake.MsgFinished{VerifyData: conn.clientVerifyDataLocked()}
	finWire := handshake.Message{
		MsgType: handshake.MsgTypeFinished,
		Body:    fin.Write(nil),
	}.Write(nil, conn.nextMessageSeqSend)
	conn.nextMessageSeqSend++
	conn.transcriptSet(handshake.MsgTypeFinished, finWire)

	datagram, err = conn.appendProtectedRecordLocked(datagram, record.TypeHandshake, finWire)
	if err != nil {
		return err
	}
	conn.outQueue = append(conn.outQueue, datagram)
	conn.SignalWriteable()
	return nil
}

func (conn *Connection) queueAlertLocked(alert record.Alert) {
	body := alert.Write(nil)
	var datagram []byte
	var err error
	if conn.keysSet && conn.sendEpoch == 1 {
		datagram, err = conn.appendProtectedRecordLocked(nil, record.TypeAlert, body)
	} else {
		datagram, err = conn.appendRecordLocked(nil, record.TypeAlert, 0, body)
	}
	if err != nil {
		return // out of sequence numbers, nothing more we can say
	}
	conn.outQueue = append(conn.outQueue, datagram)
}
