// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package ciphersuite

import (
	"encoding/binary"
	"errors"

	"github.com/hrissan/dtls12/format"
	"github.com/hrissan/dtls12/record"
	"github.com/hrissan/dtls12/safecast"
)

// TLS_PSK_WITH_AES_128_GCM_SHA256 [rfc5487]
const TLS_PSK_WITH_AES_128_GCM_SHA256 = 0x00A8

const WriteKeyLength = 16
const WriteIVLength = 4

// explicit epoch(2)+seq(6) nonce prefix carried before the ciphertext [rfc5288:3]
const ExplicitNonceLength = 8
const ProtectedOverhead = ExplicitNonceLength + TagSize

var ErrCiphertextTooShort = errors.New("protected record body shorter than nonce plus tag")

// DirectionKeys protect one direction of the connection:
// the client write key/IV for sending, the server's for receiving.
type DirectionKeys struct {
	Block   *BlockCipher
	WriteIV [WriteIVLength]byte
}

func NewDirectionKeys(writeKey []byte, writeIV []byte) (DirectionKeys, error) {
	if len(writeKey) != WriteKeyLength || len(writeIV) != WriteIVLength {
		return DirectionKeys{}, ErrInvalidKeyLength
	}
	block, err := ExpandKey(writeKey)
	if err != nil {
		return DirectionKeys{}, err
	}
	var keys DirectionKeys
	keys.Block = block
	copy(keys.WriteIV[:], writeIV)
	return keys, nil
}

func (keys *DirectionKeys) nonceFor(epoch uint16, seq uint64) [NonceSize]byte {
	var nonce [NonceSize]byte
	copy(nonce[:4], keys.WriteIV[:])
	binary.BigEndian.PutUint16(nonce[4:6], epoch)
	format.AppendUint48(nonce[:6], seq) // appends in place, cap is the array
	return nonce
}

// AAD is epoch ‖ seq ‖ content type ‖ version ‖ plaintext length [rfc5246:6.2.3.3]
func additionalData(epoch uint16, seq uint64, contentType byte, plaintextLength int) [13]byte {
	var aad [13]byte
	binary.BigEndian.PutUint16(aad[0:2], epoch)
	format.AppendUint48(aad[:2], seq)
	aad[8] = contentType
	binary.BigEndian.PutUint16(aad[9:11], record.Version)
	binary.BigEndian.PutUint16(aad[11:13], safecast.Cast[uint16](plaintextLength))
	return aad
}

// Protect seals plaintext into a record body:
// explicit epoch‖seq prefix, ciphertext of plaintext length, 16-byte tag.
func (keys *DirectionKeys) Protect(contentType byte, epoch uint16, seq uint64, plaintext []byte) []byte {
	nonce := keys.nonceFor(epoch, seq)
	aad := additionalData(epoch, seq, contentType, len(plaintext))

	body := make([]byte, 0, ExplicitNonceLength+len(plaintext)+TagSize)
	body = binary.BigEndian.AppendUint16(body, epoch)
	body = format.AppendUint48(body, seq)
	ciphertext, tag := Seal(keys.Block, &nonce, plaintext, aad[:])
	body = append(body, ciphertext...)
	return append(body, tag[:]...)
}

// Deprotect opens a protected record body. The epoch and sequence come from
// the explicit prefix, which the tag also authenticates via the AAD.
func (keys *DirectionKeys) Deprotect(contentType byte, body []byte) (epoch uint16, seq uint64, plaintext []byte, err error) {
	if len(body) < ProtectedOverhead {
		return 0, 0, nil, ErrCiphertextTooShort
	}
	epoch = binary.BigEndian.Uint16(body[0:2])
	_, seq, _ = format.ParserReadUint48(body, 2)
	ciphertext := body[ExplicitNonceLength : len(body)-TagSize]
	var tag [TagSize]byte
	copy(tag[:], body[len(body)-TagSize:])

	nonce := keys.nonceFor(epoch, seq)
	aad := additionalData(epoch, seq, contentType, len(ciphertext))
	plaintext, err = Open(keys.Block, &nonce, ciphertext, tag, aad[:])
	if err != nil {
		return epoch, seq, nil, err
	}
	return epoch, seq, plaintext, nil
}
