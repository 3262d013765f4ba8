// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package keys

import (
	"crypto/hmac"
	"crypto/sha256"
)

// TLS 1.2 PRF with HMAC-SHA256 [rfc5246:5]

// PHash fills dst with the iterative A-chain construction:
// A(0) = seed, A(i) = HMAC(secret, A(i-1)),
// output = HMAC(secret, A(1)‖seed) ‖ HMAC(secret, A(2)‖seed) ‖ ...
func PHash(dst, secret, seed []byte) {
	h := hmac.New(sha256.New, secret)
	h.Write(seed)
	a := h.Sum(nil)
	for filled := 0; filled < len(dst); {
		h.Reset()
		h.Write(a)
		h.Write(seed)
		filled += copy(dst[filled:], h.Sum(nil))

		h.Reset()
		h.Write(a)
		a = h.Sum(nil)
	}
}

func PRF(dst, secret []byte, label string, seed []byte) {
	labelAndSeed := make([]byte, 0, len(label)+len(seed))
	labelAndSeed = append(labelAndSeed, label...)
	labelAndSeed = append(labelAndSeed, seed...)
	PHash(dst, secret, labelAndSeed)
}
