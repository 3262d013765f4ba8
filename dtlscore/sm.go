// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package dtlscore

import (
	"github.com/hrissan/dtls12/dtlserrors"
	"github.com/hrissan/dtls12/handshake"
)

type stateID int

const (
	smIDClosed stateID = iota
	smIDAwaitVerify
	smIDAwaitServerHello
	smIDAwaitHelloDone
	smIDAwaitFinished
	smIDConnected
)

// stateHandler methods are called with the connection locked. Warnings
// drop the message, fatal errors close the session.
type stateHandler interface {
	OnHelloVerifyRequest(conn *Connection, msg handshake.MsgHelloVerifyRequest) error
	OnServerHello(conn *Connection, msg handshake.MsgServerHello, wire []byte) error
	OnServerHelloDone(conn *Connection, msg handshake.MsgServerHelloDone, wire []byte) error
	OnFinished(conn *Connection, msg handshake.MsgFinished, wire []byte) error
	OnApplicationData(conn *Connection, plaintext []byte) error
	OnTimer(conn *Connection) error
}

// states are stateless singletons, all session state lives in Connection
var stateMachineStates = []stateHandler{
	smIDClosed:           &smClosed{},
	smIDAwaitVerify:      &smAwaitVerify{},
	smIDAwaitServerHello: &smAwaitServerHello{},
	smIDAwaitHelloDone:   &smAwaitHelloDone{},
	smIDAwaitFinished:    &smAwaitFinished{},
	smIDConnected:        &smConnected{},
}

// smBase rejects everything, states override only what they expect
type smBase struct{}

func (*smBase) OnHelloVerifyRequest(conn *Connection, msg handshake.MsgHelloVerifyRequest) error {
	return dtlserrors.WarnUnexpectedMessage
}

func (*smBase) OnServerHello(conn *Connection, msg handshake.MsgServerHello, wire []byte) error {
	return dtlserrors.WarnUnexpectedMessage
}

func (*smBase) OnServerHelloDone(conn *Connection, msg handshake.MsgServerHelloDone, wire []byte) error {
	return dtlserrors.WarnUnexpectedMessage
}

func (*smBase) OnFinished(conn *Connection, msg handshake.MsgFinished, wire []byte) error {
	return dtlserrors.WarnUnexpectedMessage
}

func (*smBase) OnApplicationData(conn *Connection, plaintext []byte) error {
	return dtlserrors.WarnUnexpectedMessage
}

func (*smBase) OnTimer(conn *Connection) error { return nil }

type smClosed struct{ smBase }
