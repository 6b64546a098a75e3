package bootstrap

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// Keypair is the ephemeral ECDSA key material for one provisioning run. It
// lives in process memory only; the private half is written to disk solely
// by the ansible runner, for the duration of a single invocation.
type Keypair struct {
	private *ecdsa.PrivateKey
	sshPub  ssh.PublicKey
}

// Generate creates a fresh P-256 keypair.
func Generate() (*Keypair, error) {
	private, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	sshPub, err := ssh.NewPublicKey(&private.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to serialise the public key: %w", err)
	}
	return &Keypair{private: private, sshPub: sshPub}, nil
}

// AuthorizedKey renders the public half in authorized_keys format, without
// the trailing newline, ready to show the operator.
func (k *Keypair) AuthorizedKey() string {
	return strings.TrimSpace(string(ssh.MarshalAuthorizedKey(k.sshPub)))
}

// PublicKey returns the public half in SSH wire form.
func (k *Keypair) PublicKey() ssh.PublicKey {
	return k.sshPub
}

// Signer wraps the private half for in-memory SSH authentication.
func (k *Keypair) Signer() (ssh.Signer, error) {
	signer, err := ssh.NewSignerFromKey(k.private)
	if err != nil {
		return nil, fmt.Errorf("failed to ready the private key: %w", err)
	}
	return signer, nil
}

// PrivatePEM serialises the private half as a PEM-encoded EC private key,
// the form ansible-playbook expects in its --private-key file.
func (k *Keypair) PrivatePEM() ([]byte, error) {
	der, err := x509.MarshalECPrivateKey(k.private)
	if err != nil {
		return nil, fmt.Errorf("failed to serialise the private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}
