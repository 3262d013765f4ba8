// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

// DTLS 1.2 handshake message types used by the PSK client [rfc6347:4.3.2]
const (
	MsgTypeClientHello        = 1
	MsgTypeServerHello        = 2
	MsgTypeHelloVerifyRequest = 3
	MsgTypeServerHelloDone    = 14
	MsgTypeClientKeyExchange  = 16
	MsgTypeFinished           = 20
)

func MsgTypeToName(t byte) string {
	switch t {
	case MsgTypeClientHello:
		return "client_hello"
	case MsgTypeServerHello:
		return "server_hello"
	case MsgTypeHelloVerifyRequest:
		return "hello_verify_request"
	case MsgTypeServerHelloDone:
		return "server_hello_done"
	case MsgTypeClientKeyExchange:
		return "client_key_exchange"
	case MsgTypeFinished:
		return "finished"
	default:
		return "unknown"
	}
}
