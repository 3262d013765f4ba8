// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package ciphersuite

import (
	"bytes"
	"crypto/cipher"
	"encoding/hex"
	"testing"
)

// Test cases 1-4 from the McGrew/Viega GCM paper (AES-128)
func TestSealKnownAnswers(t *testing.T) {
	for i, v := range []struct {
		key, nonce, plaintext, aad, ciphertext, tag string
	}{
		{
			key:   "00000000000000000000000000000000",
			nonce: "000000000000000000000000",
			tag:   "58e2fccefa7e3061367f1d57a4e7455a",
		},
		{
			key:        "00000000000000000000000000000000",
			nonce:      "000000000000000000000000",
			plaintext:  "00000000000000000000000000000000",
			ciphertext: "0388dace60b6a392f328c2b971b2fe78",
			tag:        "ab6e47d42cec13bdf53a67b21257bddf",
		},
		{
			key:   "feffe9928665731c6d6a8f9467308308",
			nonce: "cafebabefacedbaddecaf888",
			plaintext: "d9313225f88406e5a55909c5aff5269a86a7a9531534f7da2e4c303d8a318a72" +
				"1c3c0c95956809532fcf0e2449a6b525b16aedf5aa0de657ba637b391aafd255",
			ciphertext: "42831ec2217774244b7221b784d0d49ce3aa212f2c02a4e035c17e2329aca12e" +
				"21d514b25466931c7d8f6a5aac84aa051ba30b396a0aac973d58e091473f5985",
			tag: "4d5c2af327cd64a62cf35abd2ba6fab4",
		},
		{
			key:   "feffe9928665731c6d6a8f9467308308",
			nonce: "cafebabefacedbaddecaf888",
			plaintext: "d9313225f88406e5a55909c5aff5269a86a7a9531534f7da2e4c303d8a318a72" +
				"1c3c0c95956809532fcf0e2449a6b525b16aedf5aa0de657ba637b39",
			aad: "feedfacedeadbeeffeedfacedeadbeefabaddad2",
			ciphertext: "42831ec2217774244b7221b784d0d49ce3aa212f2c02a4e035c17e2329aca12e" +
				"21d514b25466931c7d8f6a5aac84aa051ba30b396a0aac973d58e091",
			tag: "5bc94fbc3221a5db94fae95ae7121a47",
		},
	} {
		block, err := ExpandKey(mustHex(t, v.key))
		if err != nil {
			t.Fatal(err)
		}
		var nonce [NonceSize]byte
		copy(nonce[:], mustHex(t, v.nonce))
		ciphertext, tag := Seal(block, &nonce, mustHex(t, v.plaintext), mustHex(t, v.aad))
		if hex.EncodeToString(ciphertext) != v.ciphertext {
			t.Errorf("case %d: ciphertext got %x want %s", i, ciphertext, v.ciphertext)
		}
		if hex.EncodeToString(tag[:]) != v.tag {
			t.Errorf("case %d: tag got %x want %s", i, tag, v.tag)
		}
		plaintext, err := Open(block, &nonce, ciphertext, tag, mustHex(t, v.aad))
		if err != nil {
			t.Errorf("case %d: open failed: %v", i, err)
		}
		if hex.EncodeToString(plaintext) != v.plaintext {
			t.Errorf("case %d: open got %x want %s", i, plaintext, v.plaintext)
		}
	}
}

func TestOpenFailsClosed(t *testing.T) {
	block, err := ExpandKey(mustHex(t, "feffe9928665731c6d6a8f9467308308"))
	if err != nil {
		t.Fatal(err)
	}
	var nonce [NonceSize]byte
	copy(nonce[:], mustHex(t, "cafebabefacedbaddecaf888"))
	plaintext := []byte("attack at dawn, bring snacks")
	aad := []byte("header")
	ciphertext, tag := Seal(block, &nonce, plaintext, aad)

	// flip one bit anywhere: ciphertext, tag or aad
	for i := range ciphertext {
		mangled := append([]byte(nil), ciphertext...)
		mangled[i] ^= 0x40
		if out, err := Open(block, &nonce, mangled, tag, aad); err != ErrAuthenticationFailure || out != nil {
			t.Fatalf("ciphertext bit flip at %d not detected, out=%x err=%v", i, out, err)
		}
	}
	for i := range tag {
		mangledTag := tag
		mangledTag[i] ^= 0x01
		if out, err := Open(block, &nonce, ciphertext, mangledTag, aad); err != ErrAuthenticationFailure || out != nil {
			t.Fatalf("tag bit flip at %d not detected, out=%x err=%v", i, out, err)
		}
	}
	if out, err := Open(block, &nonce, ciphertext, tag, []byte("headex")); err != ErrAuthenticationFailure || out != nil {
		t.Fatalf("aad change not detected, out=%x err=%v", out, err)
	}
}

// BlockCipher satisfies cipher.Block, so the standard GCM over our block
// must agree with our GCM bit for bit
func TestSealMatchesStandardGCM(t *testing.T) {
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	block, err := ExpandKey(key)
	if err != nil {
		t.Fatal(err)
	}
	std, err := cipher.NewGCM(block)
	if err != nil {
		t.Fatal(err)
	}
	var nonce [NonceSize]byte
	for length := 0; length < 80; length += 13 {
		plaintext := make([]byte, length)
		aad := make([]byte, length/2)
		for i := range plaintext {
			plaintext[i] = byte(i * 3)
		}
		for i := range aad {
			aad[i] = byte(i * 5)
		}
		nonce[11] = byte(length) // fresh nonce per message
		ciphertext, tag := Seal(block, &nonce, plaintext, aad)
		want := std.Seal(nil, nonce[:], plaintext, aad)
		if !bytes.Equal(append(ciphertext, tag[:]...), want) {
			t.Fatalf("length %d: got %x%x want %x", length, ciphertext, tag, want)
		}
	}
}
