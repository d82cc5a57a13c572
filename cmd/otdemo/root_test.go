package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/oblivious-transfer/pkg/ot"
)

func writeMessages(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "messages.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "disabled"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd(t *testing.T) {
	path := writeMessages(t, "one\ntwo\nthree\n")
	for _, args := range [][]string{
		{},
		{"--group", "secp256k1"},
		{"--cipher", "aes256gcm"},
		{"--session", "demo"},
	} {
		out, err := execute(t, append([]string{"--messages", path, "--index", "1"}, args...)...)
		require.NoError(t, err, args)
		assert.Equal(t, "two\n", out)
	}
}

func TestRootCmdErrors(t *testing.T) {
	path := writeMessages(t, "one\ntwo\n")

	_, err := execute(t, "--messages", path, "--index", "2")
	assert.ErrorIs(t, err, ot.ErrInvalidIndex)

	_, err = execute(t, "--messages", path, "--group", "p256")
	assert.Error(t, err)

	_, err = execute(t, "--messages", path, "--cipher", "rot13")
	assert.Error(t, err)

	_, err = execute(t, "--index", "0")
	assert.Error(t, err, "--messages is required")

	_, err = execute(t, "--messages", writeMessages(t, ""))
	assert.ErrorIs(t, err, ot.ErrInvalidCount)
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger("debug")
	require.NoError(t, err)
	assert.Equal(t, "debug", log.GetLevel().String())

	t.Setenv("LOG", "warn")
	log, err = newLogger("")
	require.NoError(t, err)
	assert.Equal(t, "warn", log.GetLevel().String())

	_, err = newLogger("loud")
	assert.Error(t, err)
}
