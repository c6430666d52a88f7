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

// Package identity implements C1: long-term signing and key-agreement
// keypairs, fingerprint derivation, and the signature/DH primitives the
// rest of the waterscape pipeline builds on.
package identity

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"filippo.io/edwards25519"

	wserrors "github.com/sage-x-project/waterscape/errors"
)

// Identity owns a long-term Ed25519 signing keypair and a long-term X25519
// exchange keypair. Both private keys are independently random and never
// leave the owning process; share only the result of Public().
type Identity struct {
	name string

	signPub  ed25519.PublicKey
	signPriv ed25519.PrivateKey

	exchPub  *ecdh.PublicKey
	exchPriv *ecdh.PrivateKey
}

// PublicIdentity carries only a name and the two public keys. It is a
// value object: freely copyable, freely shareable.
type PublicIdentity struct {
	Name        string
	SigningKey  [32]byte
	ExchangeKey [32]byte
}

// Option configures New.
type Option func(*newConfig)

type newConfig struct {
	rand io.Reader
}

// WithRandSource injects a deterministic randomness source for tests. The
// default is crypto/rand.Reader and MUST be used in production.
func WithRandSource(r io.Reader) Option {
	return func(c *newConfig) { c.rand = r }
}

// New draws two independent keypairs — Ed25519 for signing, X25519 for key
// agreement — from a cryptographically secure randomness source and binds
// them to name. It fails only when the randomness source fails.
func New(name string, opts ...Option) (*Identity, error) {
	cfg := newConfig{rand: rand.Reader}
	for _, opt := range opts {
		opt(&cfg)
	}

	signPub, signPriv, err := ed25519.GenerateKey(cfg.rand)
	if err != nil {
		return nil, fmt.Errorf("identity: generate signing key: %w", wrapRng(err))
	}

	exchPriv, err := ecdh.X25519().GenerateKey(cfg.rand)
	if err != nil {
		return nil, fmt.Errorf("identity: generate exchange key: %w", wrapRng(err))
	}

	return &Identity{
		name:     name,
		signPub:  signPub,
		signPriv: signPriv,
		exchPub:  exchPriv.PublicKey(),
		exchPriv: exchPriv,
	}, nil
}

func wrapRng(err error) error {
	return fmt.Errorf("%w: %v", wserrors.ErrRngFailure, err)
}

// Name returns the identity's human-readable name.
func (id *Identity) Name() string { return id.name }

// Public projects the identity's name and public keys.
func (id *Identity) Public() PublicIdentity {
	var pi PublicIdentity
	pi.Name = id.name
	copy(pi.SigningKey[:], id.signPub)
	copy(pi.ExchangeKey[:], id.exchPub.Bytes())
	return pi
}

// Fingerprint returns the 16-char lowercase hex encoding of the first 8
// bytes of the Ed25519 signing public key.
func (id *Identity) Fingerprint() string {
	return fingerprintOf(id.signPub)
}

// Fingerprint returns the fingerprint of a PublicIdentity's signing key,
// consistent with Identity.Fingerprint for the same key.
func (pi PublicIdentity) Fingerprint() string {
	return fingerprintOf(pi.SigningKey[:])
}

func fingerprintOf(signingPub []byte) string {
	return hex.EncodeToString(signingPub[:8])
}

// SigningPublicKey returns the raw 32-byte Ed25519 public key.
func (id *Identity) SigningPublicKey() ed25519.PublicKey { return id.signPub }

// ExchangePublicKey returns the raw 32-byte X25519 public key.
func (id *Identity) ExchangePublicKey() []byte { return id.exchPub.Bytes() }

// Sign signs msg with the Ed25519 signing private key per RFC 8032.
func (id *Identity) Sign(msg []byte) []byte {
	return ed25519.Sign(id.signPriv, msg)
}

// Verify checks sig over msg against a raw 32-byte Ed25519 public key.
func Verify(signingPub []byte, msg, sig []byte) error {
	if len(signingPub) != ed25519.PublicKeySize {
		return fmt.Errorf("identity: verify: %w", wserrors.ErrInvalidIdentity)
	}
	if !ed25519.Verify(ed25519.PublicKey(signingPub), msg, sig) {
		return wserrors.ErrBadSignature
	}
	return nil
}

// DH computes the X25519 shared secret between id's exchange private key
// and a peer's raw 32-byte exchange public key, per RFC 7748.
//
// Policy (documented per spec's open question on zero-output handling):
// this implementation REJECTS a non-contributory exchange. Go's
// crypto/ecdh X25519 implementation refuses to construct a peer public
// key, or complete the ECDH step, that would yield a low-order or
// identity result; that refusal is surfaced here as ErrBadExchange.
func (id *Identity) DH(peerExchangePub []byte) ([]byte, error) {
	peerPub, err := ecdh.X25519().NewPublicKey(peerExchangePub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wserrors.ErrBadExchange, err)
	}
	shared, err := id.exchPriv.ECDH(peerPub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", wserrors.ErrBadExchange, err)
	}
	return shared, nil
}

// Zeroize overwrites the Ed25519 signing private key in place and drops
// the reference to the X25519 exchange private key. Call it when the
// Identity is no longer needed and treat it as a destructor: afterward,
// Sign no longer produces signatures that verify under the public key,
// and DH panics on the nil exchange key.
func (id *Identity) Zeroize() {
	for i := range id.signPriv {
		id.signPriv[i] = 0
	}
	// *ecdh.PrivateKey holds its scalar unexported; overwrite the bytes we
	// can reach via its serialized form isn't possible without re-keying,
	// so we drop the reference instead and let the GC reclaim it.
	id.exchPriv = nil
}

// ParsePublicIdentity validates and decodes a PublicIdentity's raw key
// material. name is stored as given; no textual form is parsed here.
// signingKey and exchangeKey must each be exactly 32 bytes. The signing
// key is additionally checked to decode to a point on the Ed25519/Edwards
// curve that is not of low order (the all-zero encoding is such a point),
// rejecting both before they ever reach ed25519.Verify. Non-canonical
// encodings of valid points are accepted.
func ParsePublicIdentity(name string, signingKey, exchangeKey []byte) (PublicIdentity, error) {
	var pi PublicIdentity
	if len(signingKey) != 32 || len(exchangeKey) != 32 {
		return pi, fmt.Errorf("identity: parse: %w", wserrors.ErrInvalidIdentity)
	}
	point, err := new(edwards25519.Point).SetBytes(signingKey)
	if err != nil {
		return pi, fmt.Errorf("identity: parse: signing key is not a curve point: %w", wserrors.ErrInvalidIdentity)
	}
	if new(edwards25519.Point).MultByCofactor(point).Equal(edwards25519.NewIdentityPoint()) == 1 {
		return pi, fmt.Errorf("identity: parse: low-order signing key: %w", wserrors.ErrInvalidIdentity)
	}
	pi.Name = name
	copy(pi.SigningKey[:], signingKey)
	copy(pi.ExchangeKey[:], exchangeKey)
	return pi, nil
}
