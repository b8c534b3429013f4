// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservetls

import (
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"time"

	"github.com/stretchr/testify/suite"
)

// Suite is a stretchr/testify suite that manages the lifecycle of a testing
// certificate and its files.  Useful primarily for testing TLS servers.
type Suite struct {
	suite.Suite

	Certificate     *tls.Certificate
	CertificateFile string
	KeyFile         string
}

// Credentials returns the key pair credentials for this suite's certificate.
func (suite *Suite) Credentials() Credentials {
	return Credentials{
		Key:  suite.KeyFile,
		Cert: suite.CertificateFile,
	}
}

// ClientConfig returns a client *tls.Config that trusts this suite's certificate.
func (suite *Suite) ClientConfig(nextProtos ...string) *tls.Config {
	leaf, err := x509.ParseCertificate(suite.Certificate.Certificate[0])
	suite.Require().NoError(err)

	pool := x509.NewCertPool()
	pool.AddCert(leaf)
	return &tls.Config{
		RootCAs:    pool,
		ServerName: "localhost",
		NextProtos: nextProtos,
		MinVersion: tls.VersionTLS12,
	}
}

// SetupSuite creates a testing certificate and stores the certificate and its
// private key in a temporary directory removed when the suite finishes.
func (suite *Suite) SetupSuite() {
	var err error
	suite.Certificate, err = CreateTestCertificate(&x509.Certificate{
		SerialNumber: big.NewInt(837492837),
		Subject: pkix.Name{
			CommonName: "test",
		},
		DNSNames:              []string{"localhost"},
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1)},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	})

	suite.Require().NoError(
		err,
		"Unable to generate test certificate",
	)

	suite.CertificateFile, suite.KeyFile, err = CreateTestServerFiles(suite.T().TempDir(), suite.Certificate)
	suite.Require().NoError(
		err,
		"Unable to create temporary server files",
	)
}
