// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservetls

import (
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"sync"
	"time"

	"golang.org/x/crypto/pkcs12"
)

const (
	// SourcePFX indicates credentials read from a PFX archive.
	SourcePFX = "pfx"

	// SourceKeyPair indicates credentials read from PEM key and certificate files.
	SourceKeyPair = "keypair"

	// SourceDefault indicates the generated self-signed certificate.
	SourceDefault = "default"
)

var (
	// ErrKeyPairRequired indicates that only one of the key and certificate files was given.
	ErrKeyPairRequired = errors.New("both a key file and a certificate file are required")

	// strongCipherSuites are the tls.CipherSuite values that are safe for TLS versions less than 1.3
	strongCipherSuites = []uint16{
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	}

	defaultOnce        sync.Once
	defaultCertificate tls.Certificate
	defaultErr         error
)

// DefaultCertificate returns the self-signed certificate registered to 127.0.0.1
// and localhost.  It is generated on first use and shared thereafter.
func DefaultCertificate() (tls.Certificate, error) {
	defaultOnce.Do(func() {
		var c *tls.Certificate
		c, defaultErr = CreateTestCertificate(&x509.Certificate{
			SerialNumber: big.NewInt(time.Now().UnixNano()),
			Subject: pkix.Name{
				CommonName:   "localhost",
				Organization: []string{"devserve"},
			},
			DNSNames:              []string{"localhost"},
			IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
			NotBefore:             time.Now().Add(-time.Hour),
			NotAfter:              time.Now().AddDate(1, 0, 0),
			KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
			ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
			BasicConstraintsValid: true,
		})

		if c != nil {
			defaultCertificate = *c
		}
	})

	return defaultCertificate, defaultErr
}

// Credentials locates the certificate a server presents.  At most one of PFX
// or the Key/Cert pair is expected.  PFX takes precedence.
type Credentials struct {
	// Key is a PEM-encoded private key file.
	Key string

	// Cert is a PEM-encoded certificate file.
	Cert string

	// PFX is a PKCS#12 archive holding both the key and certificate.
	PFX string

	// Passphrase unlocks the PFX archive.
	Passphrase string
}

// Source returns which credential material Load will use.
func (c Credentials) Source() string {
	switch {
	case len(c.PFX) > 0:
		return SourcePFX

	case len(c.Key) > 0 || len(c.Cert) > 0:
		return SourceKeyPair

	default:
		return SourceDefault
	}
}

// Load reads the credential material.
func (c Credentials) Load() (tls.Certificate, error) {
	switch c.Source() {
	case SourcePFX:
		return c.loadPFX()

	case SourceKeyPair:
		if len(c.Key) == 0 || len(c.Cert) == 0 {
			return tls.Certificate{}, ErrKeyPairRequired
		}

		return tls.LoadX509KeyPair(c.Cert, c.Key)

	default:
		return DefaultCertificate()
	}
}

func (c Credentials) loadPFX() (tls.Certificate, error) {
	data, err := os.ReadFile(c.PFX)
	if err != nil {
		return tls.Certificate{}, err
	}

	key, leaf, err := pkcs12.Decode(data, c.Passphrase)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("unable to decode pfx %s: %w", c.PFX, err)
	}

	return tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}, nil
}

// Config describes the server side of a TLS connection.
type Config struct {
	Credentials

	// NextProtos is the list of supported application protocols.  Defaults to "http/1.1" if unset.
	NextProtos []string

	// MinVersion is the minimum TLS version.  Defaults to TLS 1.2 if unset.
	MinVersion uint16

	// MaxVersion is the maximum TLS version.  If unset, the crypto/tls default is used.
	MaxVersion uint16
}

// nextProtos returns the appropriate next protocols for the TLS handshake.  By default, http/1.1 is used.
func (c *Config) nextProtos() []string {
	nextProtos := append([]string{}, c.NextProtos...)
	if len(nextProtos) == 0 {
		nextProtos = append(nextProtos, "http/1.1")
	}

	return nextProtos
}

// enforceVersions ensures certain constraints on the TLS version are met.
func (c *Config) enforceVersions(tc *tls.Config) {
	if tc.MinVersion == 0 {
		tc.MinVersion = tls.VersionTLS12
	}

	if tc.MaxVersion != 0 && tc.MaxVersion < tc.MinVersion {
		tc.MaxVersion = tc.MinVersion
	}
}

// New constructs a *tls.Config from this Config.  If this instance is nil,
// it returns nil with no error.
func (c *Config) New() (*tls.Config, error) {
	if c == nil {
		return nil, nil
	}

	cert, err := c.Load()
	if err != nil {
		return nil, err
	}

	tc := &tls.Config{
		MinVersion:   c.MinVersion,
		MaxVersion:   c.MaxVersion,
		NextProtos:   c.nextProtos(),
		Certificates: []tls.Certificate{cert},

		// always use the strong cipher suites for tls versions < 1.3
		CipherSuites: strongCipherSuites,
	}

	c.enforceVersions(tc)
	return tc, nil
}
