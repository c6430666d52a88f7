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
	"encoding/json"
	"fmt"

	wserrors "github.com/sage-x-project/waterscape/errors"
)

// byteArray marshals as a JSON array of numbers, matching spec's literal
// "arrays of unsigned bytes 0..255" rather than the base64 string
// encoding/json would otherwise give a []byte.
type byteArray []byte

func (b byteArray) MarshalJSON() ([]byte, error) {
	ints := make([]int, len(b))
	for i, v := range b {
		ints[i] = int(v)
	}
	return json.Marshal(ints)
}

func (b *byteArray) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return fmt.Errorf("byte value %d out of range", v)
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}

type jsonEnvelope struct {
	Version      uint8     `json:"version"`
	Nonce        byteArray `json:"nonce"`
	SenderKey    byteArray `json:"sender_key"`
	EphemeralKey byteArray `json:"ephemeral_key"`
	Ciphertext   byteArray `json:"ciphertext"`
	Signature    byteArray `json:"signature"`
}

// MarshalText renders env in its canonical self-describing textual form.
func (env *Envelope) MarshalText() ([]byte, error) {
	je := jsonEnvelope{
		Version:      env.Version,
		Nonce:        env.Nonce[:],
		SenderKey:    env.SenderKey[:],
		EphemeralKey: env.EphemeralKey[:],
		Ciphertext:   env.Ciphertext,
		Signature:    env.Signature[:],
	}
	return json.Marshal(je)
}

// UnmarshalEnvelope parses an Envelope's textual form, rejecting unknown
// fields and wrong-length byte arrays.
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var je jsonEnvelope
	if err := dec.Decode(&je); err != nil {
		return nil, fmt.Errorf("envelope: decode: %w", wserrors.ErrMalformedEnvelope)
	}

	var env Envelope
	env.Version = je.Version
	if len(je.Nonce) != nonceSize || len(je.SenderKey) != signingKeyLen ||
		len(je.EphemeralKey) != exchangeKeyLen || len(je.Signature) != signatureLen {
		return nil, fmt.Errorf("envelope: field length: %w", wserrors.ErrMalformedEnvelope)
	}
	copy(env.Nonce[:], je.Nonce)
	copy(env.SenderKey[:], je.SenderKey)
	copy(env.EphemeralKey[:], je.EphemeralKey)
	env.Ciphertext = je.Ciphertext
	copy(env.Signature[:], je.Signature)

	return &env, nil
}

type jsonPayload struct {
	Content   string  `json:"content"`
	Timestamp uint64  `json:"timestamp"`
	Metadata  *string `json:"metadata,omitempty"`
}

// MarshalPayload renders payload in its canonical textual form.
func MarshalPayload(payload Payload) ([]byte, error) {
	jp := jsonPayload{
		Content:   payload.Content,
		Timestamp: payload.Timestamp,
		Metadata:  payload.Metadata,
	}
	return json.Marshal(jp)
}

// UnmarshalPayload parses a Payload's textual form, rejecting unknown
// fields.
func UnmarshalPayload(data []byte) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var jp jsonPayload
	if err := dec.Decode(&jp); err != nil {
		return nil, fmt.Errorf("envelope: decode payload: %w", wserrors.ErrMalformedPayload)
	}
	return &Payload{
		Content:   jp.Content,
		Timestamp: jp.Timestamp,
		Metadata:  jp.Metadata,
	}, nil
}
