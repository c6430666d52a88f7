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

package waterscape

import (
	"fmt"
	"time"

	wserrors "github.com/sage-x-project/waterscape/errors"
	"github.com/sage-x-project/waterscape/envelope"
	"github.com/sage-x-project/waterscape/identity"
	"github.com/sage-x-project/waterscape/kdf"
	"github.com/sage-x-project/waterscape/zerowidth"
)

// GroupSession is the shared-key variant of the pipeline (C7): the group
// key is a pure function of the creator's signing public key and the
// group name, so holding that pair is the only membership gate — the
// roster below is advisory metadata, not a cryptographic check.
//
// This weakness is inherited from the spec, not fixed here: the group
// key is not forward-secret, and a compromised creator signing key
// compromises every group derived from it.
type GroupSession struct {
	name    string
	key     []byte
	creator identity.PublicIdentity
	members []identity.PublicIdentity
}

// NewGroupSession derives a group session's key from creator's signing
// public key and name. Any party holding (creator.SigningKey, name) can
// call this and derive the identical key — including non-creators
// joining a session someone else created. members is advisory roster
// metadata only.
func NewGroupSession(name string, creator identity.PublicIdentity, members []identity.PublicIdentity) *GroupSession {
	return &GroupSession{
		name:    name,
		key:     kdf.DeriveGroupKey(creator.SigningKey[:], name),
		creator: creator,
		members: members,
	}
}

// Name returns the group's name.
func (g *GroupSession) Name() string { return g.name }

// Encode hides secret inside cover for the group: identical to the
// point-to-point Encode except the AEAD key is the group key, metadata
// is set to the group name, and the ephemeral key field is zeroed. The
// sender identity still contributes its own Ed25519 signature.
func (g *GroupSession) Encode(sender *identity.Identity, cover, secret string) (string, error) {
	name := g.name
	payload := envelope.Payload{
		Content:   secret,
		Timestamp: uint64(time.Now().Unix()),
		Metadata:  &name,
	}

	var zeroEphemeral [32]byte
	env, err := envelope.Encrypt(g.key, payload, sender, zeroEphemeral[:])
	if err != nil {
		return "", fmt.Errorf("waterscape: group encode: %w", err)
	}

	wire, err := env.MarshalText()
	if err != nil {
		return "", fmt.Errorf("waterscape: group encode: %w", err)
	}

	return zerowidth.Embed(cover, wire)
}

// Decode recovers a group message's plaintext content. The sender is not
// pre-declared by the caller: the envelope's own sender key is what gets
// signature-verified. Decode rejects stego that isn't a group message —
// wrong ephemeral-key shape or a metadata field that doesn't name this
// group — with ErrNotAGroupMessage, and rejects anything that fails to
// decrypt under this session's key (including messages from a creator
// bound to a different group name) with ErrDecryptFailed.
func (g *GroupSession) Decode(stego string) (string, error) {
	data, err := zerowidth.Extract(stego)
	if err != nil {
		return "", err
	}

	env, err := envelope.UnmarshalEnvelope(data)
	if err != nil {
		return "", err
	}
	if !env.IsGroupEphemeral() {
		return "", wserrors.ErrNotAGroupMessage
	}

	payload, err := envelope.Decrypt(env, nil, g.key)
	if err != nil {
		return "", err
	}
	if payload.Metadata == nil || *payload.Metadata != g.name {
		return "", wserrors.ErrNotAGroupMessage
	}

	return payload.Content, nil
}
