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

package envelope

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	wserrors "github.com/sage-x-project/waterscape/errors"
	"github.com/sage-x-project/waterscape/identity"
)

// Encrypt produces an Envelope from payload, signed and encrypted with
// the given sender identity and AEAD key. ephemeralPub is the wire
// ephemeral key: a fresh X25519 public key for point-to-point messages,
// or 32 zero bytes for group messages.
//
// Steps, in spec order: serialize the payload, draw a fresh nonce,
// ChaCha20-Poly1305 seal with empty associated data, sign the ciphertext
// (not the plaintext) with the sender's Ed25519 key, and assemble the
// Envelope.
func Encrypt(key []byte, payload Payload, sender *identity.Identity, ephemeralPub []byte) (*Envelope, error) {
	plaintext, err := MarshalPayload(payload)
	if err != nil {
		return nil, fmt.Errorf("envelope: marshal payload: %w", err)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("envelope: init aead: %w", err)
	}

	var env Envelope
	if _, err := io.ReadFull(rand.Reader, env.Nonce[:]); err != nil {
		return nil, fmt.Errorf("envelope: draw nonce: %w", wserrors.ErrRngFailure)
	}

	env.Version = CurrentVersion
	env.Ciphertext = aead.Seal(nil, env.Nonce[:], plaintext, nil)
	copy(env.SenderKey[:], sender.SigningPublicKey())
	if len(ephemeralPub) != exchangeKeyLen {
		return nil, fmt.Errorf("envelope: ephemeral key must be %d bytes", exchangeKeyLen)
	}
	copy(env.EphemeralKey[:], ephemeralPub)

	sig := sender.Sign(env.Ciphertext)
	copy(env.Signature[:], sig)

	return &env, nil
}

// VerifyEnvelope checks env's version, optional declared sender, and
// detached signature — everything Decrypt needs to check before a
// caller may derive the AEAD key. expectedSender, if non-nil, must
// match env.SenderKey exactly.
//
// Splitting this out of Decrypt lets a caller whose key derivation is
// itself costly or attacker-influenced (e.g. point-to-point ECDH keyed
// off an attacker-supplied ephemeral public key) run these checks
// first and bail out of a tampered or unauthenticated envelope without
// ever deriving a key or touching the AEAD.
func VerifyEnvelope(env *Envelope, expectedSender []byte) error {
	if env.Version != CurrentVersion {
		return wserrors.ErrUnsupportedVersion
	}
	if expectedSender != nil && !bytes.Equal(expectedSender, env.SenderKey[:]) {
		return wserrors.ErrSenderMismatch
	}
	if err := identity.Verify(env.SenderKey[:], env.Ciphertext, env.Signature[:]); err != nil {
		return wserrors.ErrBadSignature
	}
	return nil
}

// Open attempts AEAD decryption of an already-verified env under key and
// parses the plaintext back into a Payload. Callers MUST have already
// called VerifyEnvelope successfully; Open performs no version, sender,
// or signature checks of its own.
func Open(env *Envelope, key []byte) (*Payload, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("envelope: init aead: %w", err)
	}
	plaintext, err := aead.Open(nil, env.Nonce[:], env.Ciphertext, nil)
	if err != nil {
		return nil, wserrors.ErrDecryptFailed
	}

	payload, err := UnmarshalPayload(plaintext)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", wserrors.ErrMalformedPayload)
	}
	return payload, nil
}

// Decrypt verifies and decrypts env. expectedSender, if non-nil, must
// match env.SenderKey exactly. key is the AEAD key the caller has
// already derived (ECDH+HKDF for point-to-point, the group key for
// group mode).
//
// Steps, in spec order: reject unsupported versions, reject a sender
// mismatch, verify the detached signature over the ciphertext (all via
// VerifyEnvelope), attempt AEAD decryption, then parse the plaintext
// back into a Payload (via Open). Replay/freshness checking against
// Payload.Timestamp is the caller's responsibility; this function only
// surfaces the timestamp.
//
// Callers whose key derivation is itself expensive or depends on
// attacker-controlled envelope fields (point-to-point ECDH off the
// envelope's ephemeral key) should call VerifyEnvelope directly before
// deriving that key, then call Open — see waterscape.Decode.
func Decrypt(env *Envelope, expectedSender []byte, key []byte) (*Payload, error) {
	if err := VerifyEnvelope(env, expectedSender); err != nil {
		return nil, err
	}
	return Open(env, key)
}
