package storage

import (
	"crypto/ed25519"
	"crypto/rand"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

func newHostKey(t *testing.T) ssh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	key, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	return key
}

func TestSFTPHostKeyCallback(t *testing.T) {
	known := newHostKey(t)
	other := newHostKey(t)
	remote := &net.TCPAddr{IP: net.ParseIP("192.0.2.10"), Port: 22}

	knownHosts := filepath.Join(t.TempDir(), "known_hosts")
	line := knownhosts.Line([]string{"sftp.example.com:22", "192.0.2.10:22"}, known)
	require.NoError(t, os.WriteFile(knownHosts, []byte(line+"\n"), 0o600))

	t.Run("known_hosts", func(t *testing.T) {
		cb, err := hostKeyCallback(SFTPConfig{Host: "sftp.example.com", KnownHosts: knownHosts}, zap.NewNop())
		require.NoError(t, err)
		assert.NoError(t, cb("sftp.example.com:22", remote, known))

		err = cb("sftp.example.com:22", remote, other)
		var keyErr *knownhosts.KeyError
		require.ErrorAs(t, err, &keyErr)
		assert.NotEmpty(t, keyErr.Want)

		err = cb("unknown.example.com:22", &net.TCPAddr{IP: net.ParseIP("192.0.2.99"), Port: 22}, known)
		require.ErrorAs(t, err, &keyErr)
		assert.Empty(t, keyErr.Want)
	})

	t.Run("missing known_hosts without opt-in", func(t *testing.T) {
		_, err := hostKeyCallback(SFTPConfig{
			Host:       "sftp.example.com",
			KnownHosts: filepath.Join(t.TempDir(), "absent"),
		}, zap.NewNop())
		assert.ErrorContains(t, err, "load sftp known_hosts")
	})

	t.Run("fixed host key", func(t *testing.T) {
		cb, err := hostKeyCallback(SFTPConfig{
			Host:    "sftp.example.com",
			HostKey: string(ssh.MarshalAuthorizedKey(known)),
		}, zap.NewNop())
		require.NoError(t, err)
		assert.NoError(t, cb("sftp.example.com:22", remote, known))
		assert.Error(t, cb("sftp.example.com:22", remote, other))

		_, err = hostKeyCallback(SFTPConfig{HostKey: "not a key"}, zap.NewNop())
		assert.ErrorContains(t, err, "parse sftp host key")
	})

	t.Run("explicit opt-in", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		cb, err := hostKeyCallback(SFTPConfig{
			Host:                  "sftp.example.com",
			KnownHosts:            filepath.Join(t.TempDir(), "absent"),
			InsecureIgnoreHostKey: true,
		}, zap.New(core))
		require.NoError(t, err)
		assert.NoError(t, cb("sftp.example.com:22", remote, other))
		assert.Equal(t, 1, logs.FilterMessage("sftp host key verification disabled").Len())
	})
}

func TestNewSFTPRequiresHost(t *testing.T) {
	_, err := NewSFTP(SFTPConfig{}, nil)
	assert.ErrorContains(t, err, "sftp host is required")
}
