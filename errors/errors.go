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

// Package errors defines the sentinel error kinds shared across the
// waterscape pipeline. Every layer wraps one of these with additional
// context via fmt.Errorf's %w verb; callers compare with errors.Is.
package errors

import "errors"

// Common errors returned by the waterscape pipeline.
var (
	// ErrInvalidIdentity covers a malformed PublicIdentity text form or
	// public keys of the wrong length.
	ErrInvalidIdentity = errors.New("waterscape: invalid identity")

	// ErrCoverTooShort means the cover text has no visible code points to
	// host the hidden stream.
	ErrCoverTooShort = errors.New("waterscape: cover text too short")

	// ErrNoHiddenMessage means extraction found no START/END marker pair.
	ErrNoHiddenMessage = errors.New("waterscape: no hidden message")

	// ErrMalformedStream means the zero-width token stream between its
	// markers is structurally invalid (a bit run that is not eight tokens
	// long, or a stray START/END marker). Missing markers are reported as
	// ErrNoHiddenMessage instead.
	ErrMalformedStream = errors.New("waterscape: malformed zero-width stream")

	// ErrMalformedEnvelope means the envelope's textual form failed to
	// parse.
	ErrMalformedEnvelope = errors.New("waterscape: malformed envelope")

	// ErrMalformedPayload means the decrypted plaintext failed to parse
	// back into a Payload.
	ErrMalformedPayload = errors.New("waterscape: malformed payload")

	// ErrUnsupportedVersion means envelope.version is not 1.
	ErrUnsupportedVersion = errors.New("waterscape: unsupported envelope version")

	// ErrSenderMismatch means the caller-declared sender differs from the
	// envelope's sender key.
	ErrSenderMismatch = errors.New("waterscape: sender mismatch")

	// ErrBadSignature means Ed25519 verification of the ciphertext failed.
	ErrBadSignature = errors.New("waterscape: bad signature")

	// ErrDecryptFailed means the AEAD tag did not verify, or key
	// derivation failed in a way indistinguishable from a bad key.
	ErrDecryptFailed = errors.New("waterscape: decrypt failed")

	// ErrNotAGroupMessage means an envelope's metadata/ephemeral-key
	// invariants were violated during group decode.
	ErrNotAGroupMessage = errors.New("waterscape: not a group message")

	// ErrRngFailure means the underlying randomness source failed.
	ErrRngFailure = errors.New("waterscape: randomness source failure")

	// ErrBadExchange means an X25519 exchange produced a non-contributory
	// (low-order) result and was rejected. See identity.Identity.DH.
	ErrBadExchange = errors.New("waterscape: bad key exchange")
)
