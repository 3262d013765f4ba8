// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package handshake

import (
	"bytes"
	"testing"

	"github.com/hrissan/dtls12/format"
)

func TestHeaderRoundtrip(t *testing.T) {
	body := []byte("message body")
	wire := Message{MsgType: MsgTypeClientHello, Body: body}.Write(nil, 3)
	var hdr Header
	n, parsedBody, err := hdr.Parse(wire)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(wire) || !bytes.Equal(parsedBody, body) {
		t.Errorf("consumed %d body %q", n, parsedBody)
	}
	if hdr.MsgType != MsgTypeClientHello || hdr.Length != uint32(len(body)) || hdr.MessageSeq != 3 {
		t.Errorf("parsed %+v", hdr)
	}
}

func TestHeaderRejectsFragments(t *testing.T) {
	wire := Message{MsgType: MsgTypeFinished, Body: make([]byte, 12)}.Write(nil, 0)
	var hdr Header

	mangled := append([]byte(nil), wire...)
	mangled[8] = 1 // nonzero fragment_offset
	if _, _, err := hdr.Parse(mangled); err != ErrHandshakeFragmented {
		t.Errorf("nonzero fragment_offset: got %v", err)
	}
	mangled = append([]byte(nil), wire...)
	mangled[11]-- // fragment_length < length
	if _, _, err := hdr.Parse(mangled); err != ErrHandshakeFragmented {
		t.Errorf("short fragment_length: got %v", err)
	}
	// declared length reads past the record
	if _, _, err := hdr.Parse(wire[:len(wire)-1]); err != ErrHandshakeHeaderTooShort {
		t.Errorf("truncated body: got %v", err)
	}
}

func TestClientHelloRoundtrip(t *testing.T) {
	msg := MsgClientHello{
		Cookie:       []byte("server cookie"),
		CipherSuites: []uint16{0x00A8, 0x1301},
	}
	for i := range msg.Random {
		msg.Random[i] = byte(i)
	}
	var parsed MsgClientHello
	if err := parsed.Parse(msg.Write(nil)); err != nil {
		t.Fatal(err)
	}
	if parsed.Random != msg.Random || !bytes.Equal(parsed.Cookie, msg.Cookie) {
		t.Errorf("parsed %+v", parsed)
	}
	if len(parsed.CipherSuites) != 2 || parsed.CipherSuites[0] != 0x00A8 {
		t.Errorf("cipher suites %v", parsed.CipherSuites)
	}

	// first flight has no cookie yet, writes a zero-length vector
	empty := MsgClientHello{CipherSuites: []uint16{0x00A8}}
	if err := parsed.Parse(empty.Write(nil)); err != nil {
		t.Fatal(err)
	}
	if len(parsed.Cookie) != 0 {
		t.Errorf("cookie %x", parsed.Cookie)
	}
}

func TestClientHelloParseRejects(t *testing.T) {
	good := (&MsgClientHello{CipherSuites: []uint16{0x00A8}}).Write(nil)
	var msg MsgClientHello

	mangled := append([]byte(nil), good...)
	mangled[0] = 0xFE
	mangled[1] = 0xFF
	if err := msg.Parse(mangled); err != ErrClientHelloVersion {
		t.Errorf("wrong version: got %v", err)
	}
	mangled = append([]byte(nil), good...)
	mangled[len(mangled)-1] = 1 // deflate
	if err := msg.Parse(mangled); err != ErrClientHelloCompression {
		t.Errorf("compression: got %v", err)
	}
	if err := msg.Parse(good[:10]); err == nil {
		t.Error("truncated body not rejected")
	}
}

func TestHelloVerifyRequestRoundtrip(t *testing.T) {
	msg := MsgHelloVerifyRequest{Cookie: bytes.Repeat([]byte{0xC0}, 32)}
	var parsed MsgHelloVerifyRequest
	if err := parsed.Parse(msg.Write(nil)); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(parsed.Cookie, msg.Cookie) {
		t.Errorf("cookie %x", parsed.Cookie)
	}
	// old servers put DTLS 1.0 here, it must parse anyway [rfc6347:4.2.1]
	body := append([]byte{0xFE, 0xFF, 4}, []byte("abcd")...)
	if err := parsed.Parse(body); err != nil {
		t.Errorf("DTLS 1.0 version field: %v", err)
	}
	if err := parsed.Parse(append(msg.Write(nil), 0)); err != format.ErrMessageBodyExcessBytes {
		t.Errorf("excess bytes: got %v", err)
	}
}

func TestServerHelloParse(t *testing.T) {
	msg := MsgServerHello{SessionID: []byte{1, 2, 3}, CipherSuite: 0x00A8}
	for i := range msg.Random {
		msg.Random[i] = byte(0x40 + i)
	}
	var parsed MsgServerHello
	if err := parsed.Parse(msg.Write(nil)); err != nil {
		t.Fatal(err)
	}
	if parsed.Random != msg.Random || parsed.CipherSuite != 0x00A8 {
		t.Errorf("parsed %+v", parsed)
	}
	// trailing extensions are tolerated
	withExtensions := append(msg.Write(nil), 0, 4, 0, 23, 0, 0)
	if err := parsed.Parse(withExtensions); err != nil {
		t.Errorf("extensions: %v", err)
	}
	mangled := msg.Write(nil)
	mangled[len(mangled)-1] = 1 // deflate
	if err := parsed.Parse(mangled); err != ErrServerHelloCompression {
		t.Errorf("compression: got %v", err)
	}
}

func TestClientKeyExchangeRoundtrip(t *testing.T) {
	msg := MsgClientKeyExchange{PSKIdentity: []byte("Client_identity")}
	var parsed MsgClientKeyExchange
	if err := parsed.Parse(msg.Write(nil)); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(parsed.PSKIdentity, msg.PSKIdentity) {
		t.Errorf("identity %q", parsed.PSKIdentity)
	}
}

func TestFinishedParseStrictLength(t *testing.T) {
	var msg MsgFinished
	for i := range msg.VerifyData {
		msg.VerifyData[i] = byte(i)
	}
	var parsed MsgFinished
	if err := parsed.Parse(msg.Write(nil)); err != nil {
		t.Fatal(err)
	}
	if parsed.VerifyData != msg.VerifyData {
		t.Errorf("verify data %x", parsed.VerifyData)
	}
	if err := parsed.Parse(make([]byte, 11)); err != ErrFinishedLength {
		t.Errorf("short: got %v", err)
	}
	if err := parsed.Parse(make([]byte, 13)); err != ErrFinishedLength {
		t.Errorf("long: got %v", err)
	}
}

func TestServerHelloDoneEmptyBody(t *testing.T) {
	var msg MsgServerHelloDone
	if err := msg.Parse(nil); err != nil {
		t.Error(err)
	}
	if err := msg.Parse([]byte{0}); err != format.ErrMessageBodyExcessBytes {
		t.Errorf("excess bytes: got %v", err)
	}
}
