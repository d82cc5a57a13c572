package ot

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/oblivious-transfer/pkg/aead"
	"github.com/taurusgroup/oblivious-transfer/pkg/math/curve"
)

var groups = []curve.Curve{curve.Ristretto255{}, curve.Secp256k1{}}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy source unavailable")
}

func makeMessages(n int) [][]byte {
	messages := make([][]byte, n)
	for i := range messages {
		messages[i] = []byte(fmt.Sprintf("message %d", i))
	}
	return messages
}

// runKeys runs the protocol up to key derivation.
func runKeys(t *testing.T, config Config, index uint32) (*Sender, *Receiver, curve.Point, curve.Point, []Key) {
	sender, err := NewSender(config)
	require.NoError(t, err)
	receiver, err := NewReceiver(config)
	require.NoError(t, err)

	S, err := sender.Setup()
	require.NoError(t, err)
	R, err := receiver.Choose(index, S)
	require.NoError(t, err)
	keys, err := sender.DeriveKeys(S, R)
	require.NoError(t, err)
	require.Len(t, keys, int(config.N))
	return sender, receiver, S, R, keys
}

func TestKeyAgreement(t *testing.T) {
	for _, group := range groups {
		for n := uint32(1); n <= 5; n++ {
			for c := uint32(0); c < n; c++ {
				t.Run(fmt.Sprintf("%s/n=%d/c=%d", group.Name(), n, c), func(t *testing.T) {
					config := Config{N: n, Group: group}
					_, receiver, _, _, keys := runKeys(t, config, c)
					for i, key := range keys {
						if uint32(i) == c {
							assert.Equal(t, receiver.Key(), key, "chosen key should match")
						} else {
							assert.NotEqual(t, receiver.Key(), key, "key %d should not match", i)
						}
					}
				})
			}
		}
	}
}

func testDecoyKeys(n uint8, c uint8) bool {
	count := uint32(n%16) + 1
	index := uint32(c) % count
	sender, err := NewSender(Config{N: count})
	if err != nil {
		return false
	}
	receiver, err := NewReceiver(Config{N: count})
	if err != nil {
		return false
	}
	S, err := sender.Setup()
	if err != nil {
		return false
	}
	R, err := receiver.Choose(index, S)
	if err != nil {
		return false
	}
	keys, err := sender.DeriveKeys(S, R)
	if err != nil {
		return false
	}
	for i, key := range keys {
		if (key == receiver.Key()) != (uint32(i) == index) {
			return false
		}
	}
	return true
}

func TestDecoyKeys(t *testing.T) {
	err := quick.Check(testDecoyKeys, &quick.Config{MaxCount: 50})
	if err != nil {
		t.Error(err)
	}
}

func TestRoundTrip(t *testing.T) {
	binary := make([]byte, 300)
	_, err := rand.Read(binary)
	require.NoError(t, err)
	messages := [][]byte{[]byte("one"), {}, binary, {0x00}, []byte("a much longer message than the others")}

	for _, group := range groups {
		for _, suite := range []aead.Suite{aead.ChaCha20Poly1305, aead.AES256GCM} {
			for c := range messages {
				t.Run(fmt.Sprintf("%s/%s/c=%d", group.Name(), suite, c), func(t *testing.T) {
					config := Config{Group: group, Suite: suite, SessionID: []byte("round trip")}
					transcript, err := Run(config, messages, uint32(c))
					require.NoError(t, err)
					assert.Equal(t, messages[c], transcript.Message)

					require.Len(t, transcript.Results, len(messages))
					for i, result := range transcript.Results {
						if i == c {
							assert.True(t, result.OK)
							assert.Equal(t, messages[c], result.Plaintext)
						} else {
							assert.False(t, result.OK, "index %d should not decrypt", i)
							assert.Nil(t, result.Plaintext)
						}
					}
					for i, ciphertext := range transcript.Ciphertexts {
						assert.Len(t, ciphertext, len(messages[i])+aead.TagSize)
					}
				})
			}
		}
	}
}

func TestTwoMessages(t *testing.T) {
	messages := [][]byte{[]byte("one"), []byte("two")}
	config := Config{N: 2}
	sender, receiver, S, R, keys := runKeys(t, config, 1)

	ciphertexts, err := sender.Encrypt(keys, messages)
	require.NoError(t, err)
	results, err := receiver.Decrypt(ciphertexts)
	require.NoError(t, err)

	assert.False(t, results[0].OK)
	assert.True(t, results[1].OK)
	assert.Equal(t, []byte("two"), results[1].Plaintext)

	encodedS, err := S.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, encodedS, 32)
	encodedR, err := R.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, encodedR, 32)
}

func TestSingleMessage(t *testing.T) {
	transcript, err := Run(Config{}, [][]byte{[]byte("only")}, 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("only"), transcript.Message)
	assert.Len(t, transcript.Results, 1)

	_, err = Run(Config{}, [][]byte{[]byte("only")}, 1)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestChooseBoundary(t *testing.T) {
	const n = 4
	sender, err := NewSender(Config{N: n})
	require.NoError(t, err)
	S, err := sender.Setup()
	require.NoError(t, err)

	receiver, err := NewReceiver(Config{N: n})
	require.NoError(t, err)
	_, err = receiver.Choose(n, S)
	assert.ErrorIs(t, err, ErrInvalidIndex)
	_, err = receiver.Choose(n+10, S)
	assert.ErrorIs(t, err, ErrInvalidIndex)

	// a rejected index doesn't consume the Receiver
	R, err := receiver.Choose(n-1, S)
	require.NoError(t, err)
	assert.False(t, R.IsIdentity())
}

func TestDeterministicGivenRandomness(t *testing.T) {
	seed := make([]byte, 4*64)
	_, err := rand.Read(seed)
	require.NoError(t, err)

	run := func() *Transcript {
		config := Config{Rand: bytes.NewReader(seed)}
		transcript, err := Run(config, makeMessages(3), 2)
		require.NoError(t, err)
		return transcript
	}
	a, b := run(), run()
	assert.True(t, a.S.Equal(b.S))
	assert.True(t, a.R.Equal(b.R))
	assert.Equal(t, a.Ciphertexts, b.Ciphertexts)
}

func TestSessionIDSeparatesKeys(t *testing.T) {
	seed := make([]byte, 4*64)
	_, err := rand.Read(seed)
	require.NoError(t, err)

	keysFor := func(sessionID []byte) []Key {
		config := Config{N: 2, SessionID: sessionID, Rand: bytes.NewReader(seed)}
		_, _, _, _, keys := runKeys(t, config, 0)
		return keys
	}
	assert.NotEqual(t, keysFor([]byte("a")), keysFor([]byte("b")))
}

func TestMismatchedSessionFailsToDecrypt(t *testing.T) {
	messages := makeMessages(2)
	sender, err := NewSender(Config{N: 2, SessionID: []byte("sender")})
	require.NoError(t, err)
	receiver, err := NewReceiver(Config{N: 2, SessionID: []byte("receiver")})
	require.NoError(t, err)

	S, err := sender.Setup()
	require.NoError(t, err)
	R, err := receiver.Choose(0, S)
	require.NoError(t, err)
	ciphertexts, err := sender.Transfer(S, R, messages)
	require.NoError(t, err)
	results, err := receiver.Decrypt(ciphertexts)
	require.NoError(t, err)

	_, _, err = Chosen(results)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestLengthMismatch(t *testing.T) {
	config := Config{N: 3}
	sender, receiver, _, _, keys := runKeys(t, config, 0)

	_, err := sender.Encrypt(keys, makeMessages(2))
	assert.ErrorIs(t, err, ErrLengthMismatch)
	_, err = sender.Encrypt(keys[:2], makeMessages(3))
	assert.ErrorIs(t, err, ErrLengthMismatch)

	ciphertexts, err := sender.Encrypt(keys, makeMessages(3))
	require.NoError(t, err)
	_, err = receiver.Decrypt(ciphertexts[:2])
	assert.ErrorIs(t, err, ErrLengthMismatch)

	results, err := receiver.Decrypt(ciphertexts)
	require.NoError(t, err)
	assert.True(t, results[0].OK)
}

func TestStateMachine(t *testing.T) {
	config := Config{N: 2}
	sender, err := NewSender(config)
	require.NoError(t, err)
	receiver, err := NewReceiver(config)
	require.NoError(t, err)

	_, err = sender.DeriveKeys(curve.Ristretto255{}.NewBasePoint(), curve.Ristretto255{}.NewBasePoint())
	assert.ErrorIs(t, err, ErrState)
	_, err = receiver.Decrypt(make([][]byte, 2))
	assert.ErrorIs(t, err, ErrState)

	S, err := sender.Setup()
	require.NoError(t, err)
	_, err = sender.Setup()
	assert.ErrorIs(t, err, ErrState)
	_, err = sender.Encrypt(make([]Key, 2), makeMessages(2))
	assert.ErrorIs(t, err, ErrState)

	R, err := receiver.Choose(0, S)
	require.NoError(t, err)
	_, err = receiver.Choose(1, S)
	assert.ErrorIs(t, err, ErrState)

	ciphertexts, err := sender.Transfer(S, R, makeMessages(2))
	require.NoError(t, err)
	_, err = sender.DeriveKeys(S, R)
	assert.ErrorIs(t, err, ErrState)
	_, err = sender.Transfer(S, R, makeMessages(2))
	assert.ErrorIs(t, err, ErrState)

	_, err = receiver.Decrypt(ciphertexts)
	require.NoError(t, err)
	_, err = receiver.Decrypt(ciphertexts)
	assert.ErrorIs(t, err, ErrState)
	assert.Equal(t, Key{}, receiver.Key(), "key should be erased")
}

func TestInvalidPoints(t *testing.T) {
	group := curve.Ristretto255{}
	sender, err := NewSender(Config{N: 2})
	require.NoError(t, err)
	S, err := sender.Setup()
	require.NoError(t, err)

	receiver, err := NewReceiver(Config{N: 2})
	require.NoError(t, err)
	_, err = receiver.Choose(0, group.NewPoint())
	assert.ErrorIs(t, err, ErrInvalidPoint)
	_, err = receiver.Choose(0, nil)
	assert.ErrorIs(t, err, ErrInvalidPoint)
	_, err = receiver.Choose(0, curve.Secp256k1{}.NewBasePoint())
	assert.ErrorIs(t, err, ErrInvalidPoint)

	_, err = sender.DeriveKeys(S, group.NewPoint())
	assert.ErrorIs(t, err, ErrInvalidPoint)
	_, err = sender.DeriveKeys(group.NewBasePoint(), group.NewBasePoint())
	assert.ErrorIs(t, err, ErrInvalidPoint, "S must match setup")

	// failed validation leaves the Sender usable
	R, err := receiver.Choose(1, S)
	require.NoError(t, err)
	_, err = sender.DeriveKeys(S, R)
	assert.NoError(t, err)
}

func TestRandomGenerationFailure(t *testing.T) {
	sender, err := NewSender(Config{N: 2, Rand: failingReader{}})
	require.NoError(t, err)
	_, err = sender.Setup()
	assert.ErrorIs(t, err, ErrRandomGeneration)

	good, err := NewSender(Config{N: 2})
	require.NoError(t, err)
	S, err := good.Setup()
	require.NoError(t, err)
	receiver, err := NewReceiver(Config{N: 2, Rand: failingReader{}})
	require.NoError(t, err)
	_, err = receiver.Choose(0, S)
	assert.ErrorIs(t, err, ErrRandomGeneration)
}

func TestInvalidCount(t *testing.T) {
	_, err := NewSender(Config{})
	assert.ErrorIs(t, err, ErrInvalidCount)
	_, err = NewReceiver(Config{})
	assert.ErrorIs(t, err, ErrInvalidCount)
	_, err = Run(Config{}, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestTamperedCiphertext(t *testing.T) {
	config := Config{N: 3}
	sender, receiver, _, _, keys := runKeys(t, config, 2)
	ciphertexts, err := sender.Encrypt(keys, makeMessages(3))
	require.NoError(t, err)
	ciphertexts[2][0] ^= 0x80

	results, err := receiver.Decrypt(ciphertexts)
	require.NoError(t, err)
	for _, result := range results {
		assert.False(t, result.OK)
	}
}

func TestSwappedCiphertexts(t *testing.T) {
	// ciphertexts are bound to their position by the nonce and the associated data
	config := Config{N: 2}
	sender, receiver, _, _, keys := runKeys(t, config, 0)
	ciphertexts, err := sender.Encrypt(keys, makeMessages(2))
	require.NoError(t, err)

	results, err := receiver.Decrypt([][]byte{ciphertexts[1], ciphertexts[0]})
	require.NoError(t, err)
	assert.False(t, results[0].OK)
	assert.False(t, results[1].OK)
}

func TestDecryptErasesKeyOnError(t *testing.T) {
	config := Config{N: 3}
	sender, receiver, _, _, keys := runKeys(t, config, 1)
	ciphertexts, err := sender.Encrypt(keys, makeMessages(3))
	require.NoError(t, err)

	// a wiped opener fails with an error other than an authentication failure
	receiver.openers[2].Wipe()
	_, err = receiver.Decrypt(ciphertexts)
	assert.ErrorIs(t, err, aead.ErrWiped)
	assert.Nil(t, receiver.openers)
	assert.Equal(t, Key{}, receiver.Key())

	_, err = receiver.Decrypt(ciphertexts)
	assert.ErrorIs(t, err, ErrState)
}

// recordingSequence wraps a NonceSequence, and reports every nonce it hands out.
type recordingSequence struct {
	aead.NonceSequence
	record func([aead.NonceSize]byte)
}

func (s *recordingSequence) Advance() ([aead.NonceSize]byte, error) {
	nonce, err := s.NonceSequence.Advance()
	if err == nil {
		s.record(nonce)
	}
	return nonce, err
}

// nonceLog collects the nonces used at each index.
type nonceLog map[uint32][][aead.NonceSize]byte

func (l nonceLog) sequence(idx uint32) aead.NonceSequence {
	return &recordingSequence{
		NonceSequence: newNonceSequence(idx),
		record:        func(nonce [aead.NonceSize]byte) { l[idx] = append(l[idx], nonce) },
	}
}

func TestNoncesDistinctAcrossIndices(t *testing.T) {
	const n = 6
	for _, suite := range []aead.Suite{aead.ChaCha20Poly1305, aead.AES256GCM} {
		t.Run(suite.String(), func(t *testing.T) {
			config := Config{N: n, Suite: suite}
			sender, err := NewSender(config)
			require.NoError(t, err)
			receiver, err := NewReceiver(config)
			require.NoError(t, err)
			sealed, opened := nonceLog{}, nonceLog{}
			sender.nonces = sealed.sequence
			receiver.nonces = opened.sequence

			S, err := sender.Setup()
			require.NoError(t, err)
			R, err := receiver.Choose(3, S)
			require.NoError(t, err)
			ciphertexts, err := sender.Transfer(S, R, makeMessages(n))
			require.NoError(t, err)
			results, err := receiver.Decrypt(ciphertexts)
			require.NoError(t, err)
			_, index, err := Chosen(results)
			require.NoError(t, err)
			assert.Equal(t, uint32(3), index)

			// all n openers share the Receiver's key
			require.Len(t, opened, n)
			seen := map[[aead.NonceSize]byte]uint32{}
			for idx := uint32(0); idx < n; idx++ {
				require.Len(t, opened[idx], 1, "index %d", idx)
				nonce := opened[idx][0]
				prev, reused := seen[nonce]
				assert.False(t, reused, "index %d reuses the nonce of index %d", idx, prev)
				seen[nonce] = idx
				assert.Equal(t, sealed[idx], opened[idx], "sender and receiver nonces differ at index %d", idx)
			}
		})
	}
}
