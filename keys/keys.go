// Package keys builds the ssh client settings used to reach the SFTP backend.
package keys

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/ssh"
)

// ClientConfig returns the ssh client config for user.
// At least one of password and keyFile must be set, keyFile is a PEM private key.
// hostKey is a public key in authorized_keys format, when it is empty the host key isn't checked.
func ClientConfig(user, password, keyFile, hostKey string) (*ssh.ClientConfig, error) {
	var auth []ssh.AuthMethod
	if keyFile != "" {
		signer, err := LoadSigner(keyFile)
		if err != nil {
			return nil, err
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if password != "" {
		auth = append(auth, ssh.Password(password))
	}
	if len(auth) == 0 {
		return nil, errors.New("no ssh authentication method configured")
	}

	hostKeyCallback, err := HostKeyCallback(hostKey)
	if err != nil {
		return nil, err
	}
	return &ssh.ClientConfig{
		User:            user,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         10 * time.Second,
	}, nil
}

// LoadSigner reads a PEM encoded private key
func LoadSigner(keyFile string) (ssh.Signer, error) {
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("error reading private key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing private key %s: %w", keyFile, err)
	}
	return signer, nil
}

// HostKeyCallback accepts only hostKey, an empty hostKey accepts every server
func HostKeyCallback(hostKey string) (ssh.HostKeyCallback, error) {
	if hostKey == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	key, _, _, _, err := ssh.ParseAuthorizedKey([]byte(hostKey))
	if err != nil {
		return nil, fmt.Errorf("error parsing host key: %w", err)
	}
	return ssh.FixedHostKey(key), nil
}

// GeneratesED25519Keys generates a new EdDSA key pair and returns the private key in PEM format
// and the public key in authorized_keys format.
func GeneratesED25519Keys() (privateKeyFile, publicKeyFile []byte, err error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}

	// Convert the private key to PEM format.
	privateKeyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, nil, err
	}
	privateKeyFile = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateKeyBytes})

	sshPublicKey, err := ssh.NewPublicKey(publicKey)
	if err != nil {
		return nil, nil, err
	}
	return privateKeyFile, ssh.MarshalAuthorizedKey(sshPublicKey), nil
}
