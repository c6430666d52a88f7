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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wserrors "github.com/sage-x-project/waterscape/errors"
	"github.com/sage-x-project/waterscape/identity"
	"github.com/sage-x-project/waterscape/kdf"
)

func pointToPointKey(t *testing.T, sender, receiver *identity.Identity) ([]byte, []byte) {
	t.Helper()
	eph, err := kdf.NewEphemeral(nil)
	require.NoError(t, err)
	ss, err := eph.SharedSecret(receiver.ExchangePublicKey())
	require.NoError(t, err)
	key, err := kdf.ExpandKey(ss)
	require.NoError(t, err)
	return key, eph.PublicBytes()
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	alice, err := identity.New("alice")
	require.NoError(t, err)
	bob, err := identity.New("bob")
	require.NoError(t, err)

	key, ephPub := pointToPointKey(t, alice, bob)

	payload := Payload{Content: "meet at midnight", Timestamp: uint64(time.Now().Unix())}
	env, err := Encrypt(key, payload, alice, ephPub)
	require.NoError(t, err)

	got, err := Decrypt(env, alice.SigningPublicKey(), key)
	require.NoError(t, err)
	assert.Equal(t, payload.Content, got.Content)
}

func TestDecryptRejectsWrongRecipient(t *testing.T) {
	alice, err := identity.New("alice")
	require.NoError(t, err)
	bob, err := identity.New("bob")
	require.NoError(t, err)
	eve, err := identity.New("eve")
	require.NoError(t, err)

	key, ephPub := pointToPointKey(t, alice, bob)
	env, err := Encrypt(key, Payload{Content: "x"}, alice, ephPub)
	require.NoError(t, err)

	ss, err := eve.DH(env.EphemeralKey[:])
	require.NoError(t, err)
	wrongKey, err := kdf.ExpandKey(ss)
	require.NoError(t, err)

	_, err = Decrypt(env, alice.SigningPublicKey(), wrongKey)
	assert.ErrorIs(t, err, wserrors.ErrDecryptFailed)
}

func TestDecryptRejectsSenderMismatch(t *testing.T) {
	alice, err := identity.New("alice")
	require.NoError(t, err)
	bob, err := identity.New("bob")
	require.NoError(t, err)
	mallory, err := identity.New("mallory")
	require.NoError(t, err)

	key, ephPub := pointToPointKey(t, alice, bob)
	env, err := Encrypt(key, Payload{Content: "x"}, alice, ephPub)
	require.NoError(t, err)

	_, err = Decrypt(env, mallory.SigningPublicKey(), key)
	assert.ErrorIs(t, err, wserrors.ErrSenderMismatch)
}

func TestDecryptRejectsUnsupportedVersion(t *testing.T) {
	alice, err := identity.New("alice")
	require.NoError(t, err)
	bob, err := identity.New("bob")
	require.NoError(t, err)

	key, ephPub := pointToPointKey(t, alice, bob)
	env, err := Encrypt(key, Payload{Content: "x"}, alice, ephPub)
	require.NoError(t, err)

	env.Version = 2
	_, err = Decrypt(env, nil, key)
	assert.ErrorIs(t, err, wserrors.ErrUnsupportedVersion)
}

func TestTamperRejection(t *testing.T) {
	alice, err := identity.New("alice")
	require.NoError(t, err)
	bob, err := identity.New("bob")
	require.NoError(t, err)

	key, ephPub := pointToPointKey(t, alice, bob)

	t.Run("flip ciphertext bit", func(t *testing.T) {
		env, err := Encrypt(key, Payload{Content: "x"}, alice, ephPub)
		require.NoError(t, err)
		env.Ciphertext[0] ^= 0x01
		_, err = Decrypt(env, nil, key)
		assert.Error(t, err)
	})

	t.Run("flip signature bit", func(t *testing.T) {
		env, err := Encrypt(key, Payload{Content: "x"}, alice, ephPub)
		require.NoError(t, err)
		env.Signature[0] ^= 0x01
		_, err = Decrypt(env, nil, key)
		assert.ErrorIs(t, err, wserrors.ErrBadSignature)
	})
}
