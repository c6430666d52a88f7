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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	wserrors "github.com/sage-x-project/waterscape/errors"
	"github.com/sage-x-project/waterscape/identity"
)

const cover = "The quiet garden holds many secrets beneath its old stone wall."

func TestEncodeDecodeRoundTrip(t *testing.T) {
	alice, err := identity.New("alice")
	require.NoError(t, err)
	bob, err := identity.New("bob")
	require.NoError(t, err)

	bobPub := bob.Public()
	stego, err := Encode(alice, bobPub, cover, "meet at the old bridge")
	require.NoError(t, err)

	alicePub := alice.Public()
	got, err := Decode(bob, &alicePub, stego)
	require.NoError(t, err)
	assert.Equal(t, "meet at the old bridge", got)
}

func TestEncodePreservesVisibleCover(t *testing.T) {
	alice, err := identity.New("alice")
	require.NoError(t, err)
	bob, err := identity.New("bob")
	require.NoError(t, err)

	stego, err := Encode(alice, bob.Public(), cover, "hidden")
	require.NoError(t, err)
	assert.Equal(t, cover, VisibleText(stego))
}

func TestDecodeWithoutExpectedSenderAccepted(t *testing.T) {
	alice, err := identity.New("alice")
	require.NoError(t, err)
	bob, err := identity.New("bob")
	require.NoError(t, err)

	stego, err := Encode(alice, bob.Public(), cover, "no sender check")
	require.NoError(t, err)

	got, err := Decode(bob, nil, stego)
	require.NoError(t, err)
	assert.Equal(t, "no sender check", got)
}

func TestDecodeRejectsWrongRecipient(t *testing.T) {
	alice, err := identity.New("alice")
	require.NoError(t, err)
	bob, err := identity.New("bob")
	require.NoError(t, err)
	eve, err := identity.New("eve")
	require.NoError(t, err)

	stego, err := Encode(alice, bob.Public(), cover, "for bob only")
	require.NoError(t, err)

	_, err = Decode(eve, nil, stego)
	assert.Error(t, err)
}

func TestDecodeRejectsDeclaredSenderMismatch(t *testing.T) {
	alice, err := identity.New("alice")
	require.NoError(t, err)
	bob, err := identity.New("bob")
	require.NoError(t, err)
	mallory, err := identity.New("mallory")
	require.NoError(t, err)

	stego, err := Encode(alice, bob.Public(), cover, "x")
	require.NoError(t, err)

	malloryPub := mallory.Public()
	_, err = Decode(bob, &malloryPub, stego)
	assert.ErrorIs(t, err, wserrors.ErrSenderMismatch)
}

func TestHasHiddenMessageAndVisibleText(t *testing.T) {
	alice, err := identity.New("alice")
	require.NoError(t, err)
	bob, err := identity.New("bob")
	require.NoError(t, err)

	assert.False(t, HasHiddenMessage(cover))

	stego, err := Encode(alice, bob.Public(), cover, "psst")
	require.NoError(t, err)
	assert.True(t, HasHiddenMessage(stego))
	assert.Equal(t, cover, VisibleText(stego))
}

func TestDecodeRejectsPlainCoverWithNoHiddenMessage(t *testing.T) {
	bob, err := identity.New("bob")
	require.NoError(t, err)

	_, err = Decode(bob, nil, cover)
	assert.ErrorIs(t, err, wserrors.ErrNoHiddenMessage)
}

// TestConcurrentEncodeDecode exercises a single shared *identity.Identity
// across many goroutines, both encoding and decoding concurrently, to
// check the point-to-point pipeline holds up under concurrent use: each
// Identity method call only reads its own already-initialized key
// material, so no additional locking is needed.
func TestConcurrentEncodeDecode(t *testing.T) {
	alice, err := identity.New("alice")
	require.NoError(t, err)
	bob, err := identity.New("bob")
	require.NoError(t, err)

	alicePub := alice.Public()
	bobPub := bob.Public()

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		i := i
		g.Go(func() error {
			msg := "message number"
			stego, err := Encode(alice, bobPub, cover, msg)
			if err != nil {
				return err
			}
			got, err := Decode(bob, &alicePub, stego)
			if err != nil {
				return err
			}
			if got != msg {
				t.Errorf("goroutine %d: got %q, want %q", i, got, msg)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
