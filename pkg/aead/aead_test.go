package aead

import (
	"bytes"
	"crypto/rand"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suites = []Suite{ChaCha20Poly1305, AES256GCM}

func randomKey(t *testing.T) []byte {
	key := make([]byte, KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

// recordingSequence remembers every nonce handed out.
type recordingSequence struct {
	inner NonceSequence
	seen  [][NonceSize]byte
}

func (r *recordingSequence) Advance() ([NonceSize]byte, error) {
	nonce, err := r.inner.Advance()
	if err == nil {
		r.seen = append(r.seen, nonce)
	}
	return nonce, err
}

func TestSealOpen(t *testing.T) {
	for _, suite := range suites {
		t.Run(suite.String(), func(t *testing.T) {
			key := randomKey(t)
			sealer, err := NewSealingKey(suite, key, NewCounterNonceSequence(7))
			require.NoError(t, err)
			opener, err := NewOpeningKey(suite, key, NewCounterNonceSequence(7))
			require.NoError(t, err)

			for _, plaintext := range [][]byte{[]byte("one"), {}, {0x00, 0xFF, 0x10}} {
				ciphertext, err := sealer.Seal([]byte("aad"), plaintext)
				require.NoError(t, err)
				assert.Len(t, ciphertext, len(plaintext)+suite.Overhead())

				got, err := opener.Open([]byte("aad"), ciphertext)
				require.NoError(t, err)
				assert.Equal(t, plaintext, got)
			}
		})
	}
}

func TestOpenFailures(t *testing.T) {
	for _, suite := range suites {
		t.Run(suite.String(), func(t *testing.T) {
			key := randomKey(t)
			sealer, err := NewSealingKey(suite, key, NewCounterNonceSequence(0))
			require.NoError(t, err)
			ciphertext, err := sealer.Seal(nil, []byte("secret"))
			require.NoError(t, err)

			wrongKey, err := NewOpeningKey(suite, randomKey(t), NewCounterNonceSequence(0))
			require.NoError(t, err)
			_, err = wrongKey.Open(nil, ciphertext)
			assert.ErrorIs(t, err, ErrDecryption)

			wrongNonce, err := NewOpeningKey(suite, key, NewCounterNonceSequence(1))
			require.NoError(t, err)
			_, err = wrongNonce.Open(nil, ciphertext)
			assert.ErrorIs(t, err, ErrDecryption)

			wrongAAD, err := NewOpeningKey(suite, key, NewCounterNonceSequence(0))
			require.NoError(t, err)
			_, err = wrongAAD.Open([]byte("other"), ciphertext)
			assert.ErrorIs(t, err, ErrDecryption)

			tampered := bytes.Clone(ciphertext)
			tampered[0] ^= 1
			opener, err := NewOpeningKey(suite, key, NewCounterNonceSequence(0))
			require.NoError(t, err)
			_, err = opener.Open(nil, tampered)
			assert.ErrorIs(t, err, ErrDecryption)

			short, err := NewOpeningKey(suite, key, NewCounterNonceSequence(0))
			require.NoError(t, err)
			_, err = short.Open(nil, ciphertext[:TagSize-1])
			assert.ErrorIs(t, err, ErrDecryption)
		})
	}
}

func TestKeyConstruction(t *testing.T) {
	for _, suite := range suites {
		_, err := NewSealingKey(suite, make([]byte, 16), NewCounterNonceSequence(0))
		assert.ErrorIs(t, err, ErrKeyConstruction)
		_, err = NewOpeningKey(suite, make([]byte, 33), NewCounterNonceSequence(0))
		assert.ErrorIs(t, err, ErrKeyConstruction)
		_, err = NewSealingKey(suite, make([]byte, KeySize), nil)
		assert.ErrorIs(t, err, ErrKeyConstruction)
	}
	_, err := NewSealingKey(Suite(9), make([]byte, KeySize), NewCounterNonceSequence(0))
	assert.ErrorIs(t, err, ErrKeyConstruction)
}

func TestSealingKeyNeverRepeatsNonce(t *testing.T) {
	seq := &recordingSequence{inner: NewCounterNonceSequence(3)}
	sealer, err := NewSealingKey(ChaCha20Poly1305, randomKey(t), seq)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, err = sealer.Seal(nil, []byte("m"))
		require.NoError(t, err)
	}
	seen := make(map[[NonceSize]byte]bool, len(seq.seen))
	for _, nonce := range seq.seen {
		assert.False(t, seen[nonce], "nonce %x reused", nonce)
		seen[nonce] = true
	}
	assert.Len(t, seen, 100)
}

func TestCounterNonceSequence(t *testing.T) {
	seq := NewCounterNonceSequence(1)
	first, err := seq.Advance()
	require.NoError(t, err)
	assert.Equal(t, [NonceSize]byte{11: 1}, first)
	second, err := seq.Advance()
	require.NoError(t, err)
	assert.Equal(t, [NonceSize]byte{11: 2}, second)

	last := NewCounterNonceSequence(math.MaxUint32)
	nonce, err := last.Advance()
	require.NoError(t, err)
	assert.Equal(t, [NonceSize]byte{8: 0xFF, 9: 0xFF, 10: 0xFF, 11: 0xFF}, nonce)
	_, err = last.Advance()
	assert.True(t, errors.Is(err, ErrNonceExhausted))
}

func TestWipe(t *testing.T) {
	sealer, err := NewSealingKey(AES256GCM, randomKey(t), NewCounterNonceSequence(0))
	require.NoError(t, err)
	sealer.Wipe()
	_, err = sealer.Seal(nil, []byte("m"))
	assert.ErrorIs(t, err, ErrWiped)
}

func TestSuiteFromName(t *testing.T) {
	for _, suite := range suites {
		s, err := SuiteFromName(suite.String())
		require.NoError(t, err)
		assert.Equal(t, suite, s)
	}
	_, err := SuiteFromName("rc4")
	assert.Error(t, err)
}
