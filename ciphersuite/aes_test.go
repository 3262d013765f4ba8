// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package ciphersuite

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	data, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex in test: %v", err)
	}
	return data
}

// FIPS-197 appendix C known-answer vectors, one per key size
func TestBlockCipherKnownAnswers(t *testing.T) {
	plaintext := "00112233445566778899aabbccddeeff"
	for _, v := range []struct {
		key        string
		ciphertext string
	}{
		{"000102030405060708090a0b0c0d0e0f", "69c4e0d86a7b0430d8cdb78070b4c55a"},
		{"000102030405060708090a0b0c0d0e0f1011121314151617", "dda97ca4864cdfe06eaf70a0ec0d7191"},
		{"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", "8ea2b7ca516745bfeafc49904b496089"},
	} {
		block, err := ExpandKey(mustHex(t, v.key))
		if err != nil {
			t.Fatalf("key %s: %v", v.key, err)
		}
		var dst [BlockSize]byte
		block.Encrypt(dst[:], mustHex(t, plaintext))
		if hex.EncodeToString(dst[:]) != v.ciphertext {
			t.Errorf("key %s: encrypt got %x want %s", v.key, dst, v.ciphertext)
		}
		var back [BlockSize]byte
		block.Decrypt(back[:], dst[:])
		if hex.EncodeToString(back[:]) != plaintext {
			t.Errorf("key %s: decrypt got %x want %s", v.key, back, plaintext)
		}
	}
}

// FIPS-197 appendix B walks this exact pair through every round
func TestBlockCipherAppendixB(t *testing.T) {
	block, err := ExpandKey(mustHex(t, "2b7e151628aed2a6abf7158809cf4f3c"))
	if err != nil {
		t.Fatal(err)
	}
	var dst [BlockSize]byte
	block.Encrypt(dst[:], mustHex(t, "3243f6a8885a308d313198a2e0370734"))
	if hex.EncodeToString(dst[:]) != "3925841d02dc09fbdc118597196a0b32" {
		t.Errorf("encrypt got %x", dst)
	}
}

func TestBlockCipherRoundtrip(t *testing.T) {
	for _, keyLen := range []int{16, 24, 32} {
		key := make([]byte, keyLen)
		for i := range key {
			key[i] = byte(i * 7)
		}
		block, err := ExpandKey(key)
		if err != nil {
			t.Fatal(err)
		}
		src := make([]byte, BlockSize)
		for i := range src {
			src[i] = byte(255 - i)
		}
		var ct, pt [BlockSize]byte
		block.Encrypt(ct[:], src)
		if bytes.Equal(ct[:], src) {
			t.Errorf("keyLen %d: ciphertext equals plaintext", keyLen)
		}
		block.Decrypt(pt[:], ct[:])
		if !bytes.Equal(pt[:], src) {
			t.Errorf("keyLen %d: roundtrip got %x want %x", keyLen, pt, src)
		}
	}
}

func TestExpandKeyRejectsBadLengths(t *testing.T) {
	for _, keyLen := range []int{0, 1, 15, 17, 23, 25, 31, 33, 64} {
		if _, err := ExpandKey(make([]byte, keyLen)); err != ErrInvalidKeyLength {
			t.Errorf("keyLen %d: got %v want ErrInvalidKeyLength", keyLen, err)
		}
	}
}
