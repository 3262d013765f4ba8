// Copyright (c) 2025, Grigory Buteyko aka Hrissan
// Licensed under the MIT License. See LICENSE for details.

package keys

import (
	"crypto/sha256"

	"github.com/hrissan/dtls12/ciphersuite"
	"github.com/hrissan/dtls12/format"
)

const MasterSecretLength = 48
const RandomLength = 32
const VerifyDataLength = 12

const masterSecretLabel = "master secret"
const keyExpansionLabel = "key expansion"

const ClientFinishedLabel = "client finished"
const ServerFinishedLabel = "server finished"

// Keys is everything derived for one session. Derived exactly once,
// when the client builds its key-exchange flight, immutable after.
type Keys struct {
	MasterSecret [MasterSecretLength]byte
	Client       ciphersuite.DirectionKeys // protects what we send
	Server       ciphersuite.DirectionKeys // deprotects what we receive
}

// PremasterFromPSK builds the RFC 4279 plain-PSK premaster secret:
// a zero block as long as the PSK, then the PSK itself, both length-prefixed.
func PremasterFromPSK(psk []byte) []byte {
	premaster := make([]byte, 0, 4+2*len(psk))
	premaster, mark := format.MarkUint16Offset(premaster)
	premaster = append(premaster, make([]byte, len(psk))...)
	format.FillUint16Offset(premaster, mark)
	premaster, mark = format.MarkUint16Offset(premaster)
	premaster = append(premaster, psk...)
	format.FillUint16Offset(premaster, mark)
	return premaster
}

func ComputeMasterSecret(premaster []byte, clientRandom, serverRandom [RandomLength]byte) (master [MasterSecretLength]byte) {
	var seed [2 * RandomLength]byte
	copy(seed[:RandomLength], clientRandom[:])
	copy(seed[RandomLength:], serverRandom[:])
	PRF(master[:], premaster, masterSecretLabel, seed[:])
	return master
}

// ComputeKeys slices the key block in fixed order:
// client write key, server write key, client IV, server IV [rfc5246:6.3]
func ComputeKeys(premaster []byte, clientRandom, serverRandom [RandomLength]byte) (Keys, error) {
	var k Keys
	k.MasterSecret = ComputeMasterSecret(premaster, clientRandom, serverRandom)

	var seed [2 * RandomLength]byte
	copy(seed[:RandomLength], serverRandom[:])
	copy(seed[RandomLength:], clientRandom[:])

	const keyBlockLength = 2*ciphersuite.WriteKeyLength + 2*ciphersuite.WriteIVLength
	var keyBlock [keyBlockLength]byte
	PRF(keyBlock[:], k.MasterSecret[:], keyExpansionLabel, seed[:])

	var err error
	k.Client, err = ciphersuite.NewDirectionKeys(keyBlock[0:16], keyBlock[32:36])
	if err != nil {
		return Keys{}, err
	}
	k.Server, err = ciphersuite.NewDirectionKeys(keyBlock[16:32], keyBlock[36:40])
	if err != nil {
		return Keys{}, err
	}
	return k, nil
}

// ComputeVerifyData is the 12-byte Finished payload:
// PRF(master, label, SHA256(transcript)) [rfc5246:7.4.9]
func ComputeVerifyData(master []byte, label string, transcript []byte) [VerifyDataLength]byte {
	transcriptHash := sha256.Sum256(transcript)
	var verifyData [VerifyDataLength]byte
	PRF(verifyData[:], master, label, transcriptHash[:])
	return verifyData
}
