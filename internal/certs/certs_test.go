package certs

import (
	"crypto/x509"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIssuesAndReuses(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")
	s := NewStore(dir)

	first, err := s.Load()
	require.NoError(t, err)
	assert.FileExists(t, s.CertPath())
	assert.FileExists(t, s.KeyPath())

	info, err := os.Stat(s.KeyPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, first.Certificate[0], second.Certificate[0])
}

func TestCertificateCoversHosts(t *testing.T) {
	s := NewStore(t.TempDir(), "mission.lan", "10.0.0.5", "localhost")

	cert, err := s.Issue()
	require.NoError(t, err)

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	require.NoError(t, err)
	for _, h := range []string{"localhost", "127.0.0.1", "::1", "mission.lan", "10.0.0.5"} {
		assert.NoError(t, leaf.VerifyHostname(h), h)
	}
	assert.ElementsMatch(t, []string{"localhost", "mission.lan"}, leaf.DNSNames)
}

func TestLoadReplacesExpired(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	s.now = func() time.Time { return time.Now().Add(-2 * DefaultValidity) }

	old, err := s.Issue()
	require.NoError(t, err)

	s.now = time.Now
	fresh, err := s.Load()
	require.NoError(t, err)
	assert.NotEqual(t, old.Certificate[0], fresh.Certificate[0])
}

func TestLoadReplacesCorrupt(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, os.WriteFile(s.CertPath(), []byte("junk"), 0600))
	require.NoError(t, os.WriteFile(s.KeyPath(), []byte("junk"), 0600))

	cert, err := s.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cert.Certificate)
}

func TestLoadReissuesForNewHost(t *testing.T) {
	dir := t.TempDir()
	before, err := NewStore(dir).Issue()
	require.NoError(t, err)

	after, err := NewStore(dir, "mission.lan").Load()
	require.NoError(t, err)
	assert.NotEqual(t, before.Certificate[0], after.Certificate[0])
}

func TestTLSConfig(t *testing.T) {
	cfg, err := NewStore(t.TempDir()).TLSConfig()
	require.NoError(t, err)
	assert.Len(t, cfg.Certificates, 1)
}
