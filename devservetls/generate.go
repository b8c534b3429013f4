// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package devservetls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
)

// CreateTestCertificate creates a self-signed x509 certificate from a template.
// An ECDSA P-256 key pair is used.
func CreateTestCertificate(template *x509.Certificate) (*tls.Certificate, error) {
	var (
		key      *ecdsa.PrivateKey
		derBytes []byte
		err      error
	)

	key, err = ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err == nil {
		derBytes, err = x509.CreateCertificate(
			rand.Reader,
			template,
			template,
			&key.PublicKey,
			key,
		)
	}

	if err != nil {
		return nil, err
	}

	return &tls.Certificate{
		Certificate: [][]byte{derBytes},
		PrivateKey:  key,
	}, nil
}

// CreateTestServerFiles writes a certificate and its private key to PEM files in dir,
// which is the form expected by net/http.Server.  If dir is empty, the system temporary
// directory is used.  Only the first entry of the certificate chain is written.
func CreateTestServerFiles(dir string, certificate *tls.Certificate) (certificateFileName, keyFileName string, err error) {
	var (
		certificateFile *os.File
		keyFile         *os.File
		keyBytes        []byte
	)

	certificateFile, err = os.CreateTemp(dir, "test-cert-*.pem")
	if err == nil {
		defer certificateFile.Close()
		keyFile, err = os.CreateTemp(dir, "test-key-*.pem")
	}

	if err == nil {
		defer keyFile.Close()
		err = pem.Encode(certificateFile, &pem.Block{
			Type:  "CERTIFICATE",
			Bytes: certificate.Certificate[0],
		})
	}

	if err == nil {
		keyBytes, err = x509.MarshalPKCS8PrivateKey(certificate.PrivateKey)
	}

	if err == nil {
		err = pem.Encode(keyFile, &pem.Block{
			Type:  "PRIVATE KEY",
			Bytes: keyBytes,
		})
	}

	if err == nil {
		certificateFileName = certificateFile.Name()
		keyFileName = keyFile.Name()
	}

	return
}
