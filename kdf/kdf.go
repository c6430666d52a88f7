// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Package kdf implements C3: ephemeral X25519 key agreement with
// HKDF-SHA256 expansion for point-to-point messages, and the pure-hash
// group key derivation used by group sessions.
package kdf

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	wserrors "github.com/sage-x-project/waterscape/errors"
)

// info is the exact HKDF context string for point-to-point key agreement.
// No null terminator, no version suffix beyond what's written here.
const info = "waterscape-v1-encrypt"

const keyLen = 32

// Ephemeral is a single-use X25519 keypair generated for one outbound
// message; its public half travels on the wire as the envelope's
// ephemeral_key field.
type Ephemeral struct {
	pub  *ecdh.PublicKey
	priv *ecdh.PrivateKey
}

// NewEphemeral draws a fresh ephemeral X25519 keypair from rnd. Pass
// crypto/rand.Reader in production.
func NewEphemeral(rnd io.Reader) (*Ephemeral, error) {
	if rnd == nil {
		rnd = rand.Reader
	}
	priv, err := ecdh.X25519().GenerateKey(rnd)
	if err != nil {
		return nil, fmt.Errorf("kdf: generate ephemeral key: %w", wserrors.ErrRngFailure)
	}
	return &Ephemeral{pub: priv.PublicKey(), priv: priv}, nil
}

// PublicBytes returns the raw 32-byte ephemeral public key.
func (e *Ephemeral) PublicBytes() []byte { return e.pub.Bytes() }

// SharedSecret computes SS = X25519(ephemeralPriv, receiverExchangePub).
//
// Policy: rejects a non-contributory result, the same documented choice
// as identity.Identity.DH — see that method's doc comment.
func (e *Ephemeral) SharedSecret(receiverExchangePub []byte) ([]byte, error) {
	receiverPub, err := ecdh.X25519().NewPublicKey(receiverExchangePub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wserrors.ErrBadExchange, err)
	}
	ss, err := e.priv.ECDH(receiverPub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wserrors.ErrBadExchange, err)
	}
	return ss, nil
}

// ExpandKey derives the 32-byte AEAD key from a raw ECDH shared secret:
// HKDF-SHA256(salt=nil, IKM=sharedSecret, info="waterscape-v1-encrypt",
// L=32). Both the sender (via Ephemeral.SharedSecret) and the receiver
// (via identity.Identity.DH) feed their matching shared secret through
// this same function.
func ExpandKey(sharedSecret []byte) ([]byte, error) {
	r := hkdf.New(sha256.New, sharedSecret, nil, []byte(info))
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("kdf: hkdf expand: %w", err)
	}
	return key, nil
}

// DeriveGroupKey computes the symmetric group key: SHA-256(creatorSigningPub
// || groupName), used directly as the AEAD key with no HKDF step and no
// per-message ephemeral key. creatorSigningPub must be the raw 32-byte
// Ed25519 public key of the group's creator; groupName is hashed as its
// exact UTF-8 bytes, unnormalized.
func DeriveGroupKey(creatorSigningPub []byte, groupName string) []byte {
	h := sha256.New()
	h.Write(creatorSigningPub)
	h.Write([]byte(groupName))
	return h.Sum(nil)
}
