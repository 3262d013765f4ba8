// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package dtlscore

import (
	"github.com/hrissan/dtls12/dtlserrors"
	"github.com/hrissan/dtls12/handshake"
	"github.com/hrissan/dtls12/record"
)

// OnDatagram processes one inbound datagram, record by record, strictly
// in order. A record whose length field reads past the datagram end is
// unrecoverable and closes the session; everything else at worst drops
// the offending record and keeps the session alive.
func (conn *Connection) OnDatagram(datagram []byte) error {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	if conn.stateID == smIDClosed {
		return nil
	}
	st := conn.tr.opts.Stats
	offset := 0
	for offset < len(datagram) {
		var hdr record.Record
		n, err := hdr.Parse(datagram[offset:])
		if err == record.ErrRecordWrongVersion {
			// cannot trust length fields of a non-DTLS 1.2 record,
			// drop the rest of the datagram
			st.BadRecord("version", offset, len(datagram), err)
			return nil
		}
		if err != nil {
			st.BadRecord("length", offset, len(datagram), err)
			conn.shutdownLocked(dtlserrors.ErrRecordOverflowsDatagram)
			return dtlserrors.ErrRecordOverflowsDatagram
		}
		recordOffset := offset
		offset += n
		if err := conn.processRecordLocked(hdr, recordOffset); err != nil {
			if dtlserrors.IsFatal(err) {
				conn.shutdownLocked(err)
				return err
			}
			st.Warning(err)
		}
		if conn.stateID == smIDClosed {
			return nil
		}
	}
	return nil
}

func (conn *Connection) processRecordLocked(hdr record.Record, recordOffset int) error {
	num := record.NumberWith(hdr.Epoch, hdr.SequenceNumber)
	switch hdr.Epoch {
	case 0:
		if num.Less(conn.recvFloor) {
			return dtlserrors.WarnStaleSequenceNumber
		}
		conn.recvFloor = num.Next()
		return conn.processPlaintextLocked(hdr.ContentType, hdr.Body, recordOffset)
	case 1:
		if !conn.keysSet {
			return dtlserrors.WarnUnexpectedEpoch
		}
		epoch, seq, plaintext, err := conn.keys.Server.Deprotect(hdr.ContentType, hdr.Body)
		if err != nil {
			conn.tr.opts.Stats.DeprotectFailed(hdr.Epoch, hdr.SequenceNumber, err)
			return dtlserrors.WarnFailedToDeprotectRecord
		}
		if epoch != hdr.Epoch || seq != hdr.SequenceNumber {
			// explicit nonce must mirror the record header
			return dtlserrors.WarnFailedToDeprotectRecord
		}
		if num.Less(conn.recvFloor) {
			return dtlserrors.WarnStaleSequenceNumber
		}
		conn.recvFloor = num.Next()
		return conn.processPlaintextLocked(hdr.ContentType, plaintext, recordOffset)
	default:
		return dtlserrors.WarnUnexpectedEpoch
	}
}

func (conn *Connection) processPlaintextLocked(contentType byte, body []byte, recordOffset int) error {
	st := conn.tr.opts.Stats
	switch contentType {
	case record.TypeAlert:
		var alert record.Alert
		if err := alert.Parse(body); err != nil {
			st.BadMessage(record.TypeToName(record.TypeAlert), "", err)
			return dtlserrors.WarnRecordParsing
		}
		st.AlertReceived(alert.Level, alert.Description)
		if alert.Description == record.AlertCloseNotify {
			conn.shutdownLocked(nil)
		} else {
			conn.shutdownLocked(alert)
		}
		return nil
	case record.TypeChangeCipherSpec:
		if len(body) != 1 || body[0] != 1 {
			return dtlserrors.WarnChangeCipherSpecParsing
		}
		// receive epoch switches with the record header, nothing to do
		return nil
	case record.TypeHandshake:
		return conn.processHandshakeRecordLocked(body)
	case record.TypeApplicationData:
		return conn.state().OnApplicationData(conn, body)
	default:
		st.UnknownContentType(contentType, recordOffset)
		return dtlserrors.WarnUnknownContentType
	}
}

// a handshake record may pack several messages back to back
func (conn *Connection) processHandshakeRecordLocked(body []byte) error {
	offset := 0
	for offset < len(body) {
		var hdr handshake.Header
		n, msgBody, err := hdr.Parse(body[offset:])
		if err == handshake.ErrHandshakeFragmented {
			return dtlserrors.WarnHandshakeMessageFragmented
		}
		if err != nil {
			return dtlserrors.WarnHandshakeHeaderParsing
		}
		wire := body[offset : offset+n]
		offset += n
		if err := conn.processHandshakeMessageLocked(hdr, msgBody, wire); err != nil {
			if dtlserrors.IsFatal(err) {
				return err
			}
			conn.tr.opts.Stats.Warning(err)
		}
		if conn.stateID == smIDClosed {
			return nil
		}
	}
	return nil
}

func (conn *Connection) processHandshakeMessageLocked(hdr handshake.Header, msgBody []byte, wire []byte) error {
	st := conn.tr.opts.Stats
	switch hdr.MsgType {
	case handshake.MsgTypeHelloVerifyRequest:
		var msg handshake.MsgHelloVerifyRequest
		if err := msg.Parse(msgBody); err != nil {
			st.BadMessage(record.TypeToName(record.TypeHandshake), handshake.MsgTypeToName(hdr.MsgType), err)
			return dtlserrors.WarnHelloVerifyRequestParsing
		}
		return conn.state().OnHelloVerifyRequest(conn, msg)
	case handshake.MsgTypeServerHello:
		var msg handshake.MsgServerHello
		if err := msg.Parse(msgBody); err != nil {
			st.BadMessage(record.TypeToName(record.TypeHandshake), handshake.MsgTypeToName(hdr.MsgType), err)
			return dtlserrors.WarnServerHelloParsing
		}
		return conn.state().OnServerHello(conn, msg, wire)
	case handshake.MsgTypeServerHelloDone:
		var msg handshake.MsgServerHelloDone
		if err := msg.Parse(msgBody); err != nil {
			st.BadMessage(record.TypeToName(record.TypeHandshake), handshake.MsgTypeToName(hdr.MsgType), err)
			return dtlserrors.WarnServerHelloDoneParsing
		}
		return conn.state().OnServerHelloDone(conn, msg, wire)
	case handshake.MsgTypeFinished:
		var msg handshake.MsgFinished
		if err := msg.Parse(msgBody); err != nil {
			st.BadMessage(record.TypeToName(record.TypeHandshake), handshake.MsgTypeToName(hdr.MsgType), err)
			return dtlserrors.WarnFinishedParsing
		}
		return conn.state().OnFinished(conn, msg, wire)
	default:
		// ClientHello, ClientKeyExchange and anything undefined must
		// never arrive from a server
		return dtlserrors.WarnUnexpectedMessage
	}
}
