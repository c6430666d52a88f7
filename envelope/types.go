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

// Package envelope implements C4 (the AEAD envelope: encrypt-then-sign on
// send, verify-then-decrypt on receipt) and C5 (its canonical textual
// wire form).
package envelope

// CurrentVersion is the only protocol version this implementation
// produces or accepts.
const CurrentVersion uint8 = 1

const (
	nonceSize     = 12
	signingKeyLen = 32
	exchangeKeyLen = 32
	signatureLen  = 64
)

// Envelope is the immutable record carried on the wire, in declaration
// order: protocol version, AEAD nonce, sender's Ed25519 signing public
// key, the ephemeral X25519 public key (all-zero in group mode), the
// AEAD ciphertext, and a detached Ed25519 signature over that ciphertext.
type Envelope struct {
	Version      uint8
	Nonce        [nonceSize]byte
	SenderKey    [signingKeyLen]byte
	EphemeralKey [exchangeKeyLen]byte
	Ciphertext   []byte
	Signature    [signatureLen]byte
}

// Payload is the plaintext before encryption.
type Payload struct {
	// Content is the secret text.
	Content string
	// Timestamp is the sender's wall-clock Unix time, in seconds, at
	// encryption time.
	Timestamp uint64
	// Metadata is optional; GroupSession sets it to the group name.
	Metadata *string
}

// IsGroupEphemeral reports whether e's ephemeral key is the all-zero
// sentinel used for group-mode messages.
func (e *Envelope) IsGroupEphemeral() bool {
	var zero [exchangeKeyLen]byte
	return e.EphemeralKey == zero
}
