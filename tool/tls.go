package tool

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/moyoez/http-file-store/types"
)

// LoadTLSConfig builds the HTTPS server config from the ssl block. CA blocks
// are appended to the served chain.
func LoadTLSConfig(ssl *types.SSLConfig) (*tls.Config, error) {
	if ssl == nil {
		return nil, fmt.Errorf("ssl is not configured")
	}
	var (
		cert tls.Certificate
		err  error
	)
	if ssl.Key != "" && ssl.Cert != "" {
		cert, err = tls.LoadX509KeyPair(ssl.Cert, ssl.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to load SSL key pair: %w", err)
		}
	} else if ssl.SelfSigned {
		cert, err = selfSignedCertificate()
		if err != nil {
			return nil, err
		}
		DefaultLogger.Warnf("[Server] using a generated self-signed certificate")
	} else {
		return nil, fmt.Errorf("SSL requires a key and a cert")
	}

	if ssl.CA != "" {
		data, err := os.ReadFile(ssl.CA)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSL ca: %w", err)
		}
		for {
			var block *pem.Block
			block, data = pem.Decode(data)
			if block == nil {
				break
			}
			if block.Type == "CERTIFICATE" {
				cert.Certificate = append(cert.Certificate, block.Bytes)
			}
		}
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// generateTLSCert generates a new self-signed TLS certificate and private key.
func generateTLSCert() (certDER []byte, keyDER []byte, err error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate ECDSA private key: %v", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate serial number: %v", err)
	}
	cert := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   "http-file-store",
			Organization: []string{"http-file-store"},
		},
		DNSNames:    []string{"localhost"},
		NotBefore:   time.Now(),
		NotAfter:    time.Now().Add(time.Hour * 24 * 365), // 1 year validity
		KeyUsage:    x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}

	certBytes, err := x509.CreateCertificate(rand.Reader, &cert, &cert, &privateKey.PublicKey, privateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create certificate: %v", err)
	}

	privateKeyBytes, err := x509.MarshalECPrivateKey(privateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal ECDSA private key: %v", err)
	}
	return certBytes, privateKeyBytes, nil
}

func selfSignedCertificate() (tls.Certificate, error) {
	certDER, keyDER, err := generateTLSCert()
	if err != nil {
		return tls.Certificate{}, err
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
	return tls.X509KeyPair(certPEM, keyPEM)
}
