// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package ciphersuite

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
)

// GCM over our BlockCipher, from the NIST SP 800-38D description.
// Only 12-byte nonces and full 16-byte tags, which is all DTLS needs.

const NonceSize = 12
const TagSize = 16

var ErrAuthenticationFailure = errors.New("gcm authentication tag mismatch")

// elements of GF(2^128) as two big-endian uint64 halves
type gcmField struct {
	h0, h1 uint64
}

func newGCMField(block *BlockCipher) gcmField {
	var h [16]byte
	block.Encrypt(h[:], h[:]) // E_K(0^128)
	return gcmField{
		h0: binary.BigEndian.Uint64(h[0:8]),
		h1: binary.BigEndian.Uint64(h[8:16]),
	}
}

// mul computes x*H, bit by bit with conditional reduction by
// x^128 + x^7 + x^2 + x + 1 [sp800-38d:6.3]
func (f gcmField) mul(x0, x1 uint64) (z0, z1 uint64) {
	v0, v1 := f.h0, f.h1
	for i := 0; i < 64; i++ {
		if x0&(1<<(63-i)) != 0 {
			z0 ^= v0
			z1 ^= v1
		}
		v0, v1 = shiftRight(v0, v1)
	}
	for i := 0; i < 64; i++ {
		if x1&(1<<(63-i)) != 0 {
			z0 ^= v0
			z1 ^= v1
		}
		v0, v1 = shiftRight(v0, v1)
	}
	return z0, z1
}

func shiftRight(v0, v1 uint64) (uint64, uint64) {
	lsb := v1 & 1
	v1 = v1>>1 | v0<<63
	v0 >>= 1
	if lsb != 0 {
		v0 ^= 0xe100000000000000
	}
	return v0, v1
}

type ghash struct {
	field  gcmField
	y0, y1 uint64
}

func (g *ghash) updateBlock(block []byte) {
	g.y0 ^= binary.BigEndian.Uint64(block[0:8])
	g.y1 ^= binary.BigEndian.Uint64(block[8:16])
	g.y0, g.y1 = g.field.mul(g.y0, g.y1)
}

// update absorbs data zero-padded to a 16-byte boundary
func (g *ghash) update(data []byte) {
	for len(data) >= 16 {
		g.updateBlock(data[:16])
		data = data[16:]
	}
	if len(data) > 0 {
		var padded [16]byte
		copy(padded[:], data)
		g.updateBlock(padded[:])
	}
}

func (g *ghash) updateLengths(aadLen, textLen int) {
	var block [16]byte
	binary.BigEndian.PutUint64(block[0:8], uint64(aadLen)*8)
	binary.BigEndian.PutUint64(block[8:16], uint64(textLen)*8)
	g.updateBlock(block[:])
}

func (g *ghash) sum(tagMask *[16]byte) [16]byte {
	var tag [16]byte
	binary.BigEndian.PutUint64(tag[0:8], g.y0)
	binary.BigEndian.PutUint64(tag[8:16], g.y1)
	for i := range tag {
		tag[i] ^= tagMask[i]
	}
	return tag
}

// counter 1 is reserved for the tag mask, data starts at counter 2
func counterBlock(nonce *[NonceSize]byte) [16]byte {
	var ctr [16]byte
	copy(ctr[:], nonce[:])
	ctr[15] = 1
	return ctr
}

func incCounter(ctr *[16]byte) {
	n := binary.BigEndian.Uint32(ctr[12:16])
	binary.BigEndian.PutUint32(ctr[12:16], n+1)
}

func ctrCrypt(block *BlockCipher, ctr *[16]byte, dst, src []byte) {
	var keystream [16]byte
	for len(src) > 0 {
		incCounter(ctr)
		block.Encrypt(keystream[:], ctr[:])
		n := len(src)
		if n > 16 {
			n = 16
		}
		for i := 0; i < n; i++ {
			dst[i] = src[i] ^ keystream[i]
		}
		dst = dst[n:]
		src = src[n:]
	}
}

// Seal encrypts plaintext and authenticates aad and the ciphertext.
// Ciphertext has exactly the plaintext length, the tag is returned separately.
func Seal(block *BlockCipher, nonce *[NonceSize]byte, plaintext, aad []byte) (ciphertext []byte, tag [16]byte) {
	j0 := counterBlock(nonce)
	var tagMask [16]byte
	block.Encrypt(tagMask[:], j0[:])

	ciphertext = make([]byte, len(plaintext))
	ctr := j0
	ctrCrypt(block, &ctr, ciphertext, plaintext)

	g := ghash{field: newGCMField(block)}
	g.update(aad)
	g.update(ciphertext)
	g.updateLengths(len(aad), len(ciphertext))
	return ciphertext, g.sum(&tagMask)
}

// Open verifies the tag over aad and ciphertext before any plaintext is
// produced. On mismatch it returns ErrAuthenticationFailure and no bytes.
func Open(block *BlockCipher, nonce *[NonceSize]byte, ciphertext []byte, tag [16]byte, aad []byte) ([]byte, error) {
	j0 := counterBlock(nonce)
	var tagMask [16]byte
	block.Encrypt(tagMask[:], j0[:])

	g := ghash{field: newGCMField(block)}
	g.update(aad)
	g.update(ciphertext)
	g.updateLengths(len(aad), len(ciphertext))
	expected := g.sum(&tagMask)
	if subtle.ConstantTimeCompare(expected[:], tag[:]) != 1 {
		return nil, ErrAuthenticationFailure
	}

	plaintext := make([]byte, len(ciphertext))
	ctr := j0
	ctrCrypt(block, &ctr, plaintext, ciphertext)
	return plaintext, nil
}
