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

// Package waterscape implements C6, the pipeline façade: it orchestrates
// the key agreement (kdf), AEAD envelope (envelope), and steganographic
// codec (zerowidth) packages for point-to-point messages, and C7, the
// group-session variant, in group.go.
package waterscape

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/sage-x-project/waterscape/envelope"
	"github.com/sage-x-project/waterscape/identity"
	"github.com/sage-x-project/waterscape/kdf"
	"github.com/sage-x-project/waterscape/zerowidth"
)

// Encode hides secret inside cover so only recipientPub's owner can
// recover it: it builds a Payload, derives a point-to-point AEAD key via
// ephemeral X25519 + HKDF-SHA256, produces a signed Envelope, serializes
// it, and embeds the result into cover.
func Encode(sender *identity.Identity, recipientPub identity.PublicIdentity, cover, secret string) (string, error) {
	eph, err := kdf.NewEphemeral(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("waterscape: encode: %w", err)
	}
	ss, err := eph.SharedSecret(recipientPub.ExchangeKey[:])
	if err != nil {
		return "", fmt.Errorf("waterscape: encode: %w", err)
	}
	key, err := kdf.ExpandKey(ss)
	if err != nil {
		return "", fmt.Errorf("waterscape: encode: %w", err)
	}

	payload := envelope.Payload{Content: secret, Timestamp: uint64(time.Now().Unix())}
	env, err := envelope.Encrypt(key, payload, sender, eph.PublicBytes())
	if err != nil {
		return "", fmt.Errorf("waterscape: encode: %w", err)
	}

	wire, err := env.MarshalText()
	if err != nil {
		return "", fmt.Errorf("waterscape: encode: %w", err)
	}

	return zerowidth.Embed(cover, wire)
}

// Decode recovers the plaintext content hidden in stego for receiver. If
// senderPub is non-nil, the envelope's sender key must match it exactly.
//
// Version, sender, and signature are checked (envelope.VerifyEnvelope)
// before the point-to-point key is derived, so a tampered or
// unauthenticated envelope is rejected without ever running the ECDH
// step — the envelope's ephemeral key is attacker-controlled, and ECDH
// is the expensive, attacker-influenced part of this pipeline.
func Decode(receiver *identity.Identity, senderPub *identity.PublicIdentity, stego string) (string, error) {
	data, err := zerowidth.Extract(stego)
	if err != nil {
		return "", err
	}

	env, err := envelope.UnmarshalEnvelope(data)
	if err != nil {
		return "", err
	}

	var expectedSender []byte
	if senderPub != nil {
		expectedSender = senderPub.SigningKey[:]
	}
	if err := envelope.VerifyEnvelope(env, expectedSender); err != nil {
		return "", err
	}

	ss, err := receiver.DH(env.EphemeralKey[:])
	if err != nil {
		return "", err
	}
	key, err := kdf.ExpandKey(ss)
	if err != nil {
		return "", fmt.Errorf("waterscape: decode: %w", err)
	}

	payload, err := envelope.Open(env, key)
	if err != nil {
		return "", err
	}
	return payload.Content, nil
}

// HasHiddenMessage reports whether text carries a hidden stream, without
// attempting to decode it.
func HasHiddenMessage(text string) bool {
	return zerowidth.HasHidden(text)
}

// VisibleText returns text with any hidden stream's zero-width code
// points stripped out.
func VisibleText(text string) string {
	return zerowidth.VisibleText(text)
}
