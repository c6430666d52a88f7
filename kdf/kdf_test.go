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

package kdf

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/waterscape/identity"
)

func TestPointToPointKeyAgreement(t *testing.T) {
	sender, err := identity.New("alice")
	require.NoError(t, err)
	receiver, err := identity.New("bob")
	require.NoError(t, err)

	eph, err := NewEphemeral(rand.Reader)
	require.NoError(t, err)

	ss, err := eph.SharedSecret(receiver.ExchangePublicKey())
	require.NoError(t, err)
	senderKey, err := ExpandKey(ss)
	require.NoError(t, err)

	ss2, err := receiver.DH(eph.PublicBytes())
	require.NoError(t, err)
	receiverKey, err := ExpandKey(ss2)
	require.NoError(t, err)

	assert.Equal(t, senderKey, receiverKey)
	assert.Len(t, senderKey, 32)
	_ = sender
}

func TestExpandKeyIsDeterministic(t *testing.T) {
	ss := []byte("0123456789abcdef0123456789abcdef")
	k1, err := ExpandKey(ss)
	require.NoError(t, err)
	k2, err := ExpandKey(ss)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestDeriveGroupKeyIsPureFunction(t *testing.T) {
	creator, err := identity.New("alice")
	require.NoError(t, err)

	k1 := DeriveGroupKey(creator.SigningPublicKey(), "council")
	k2 := DeriveGroupKey(creator.SigningPublicKey(), "council")
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 32)

	k3 := DeriveGroupKey(creator.SigningPublicKey(), "other-group")
	assert.NotEqual(t, k1, k3)
}
