package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"scrapbook-go/internal/scrapbook"
)

// testHeader marks output of TestEncryptor. It does not start with '{', so
// sealed test archives are told apart from clear ones the same way age
// output is.
var testHeader = []byte("SBKTEST\x00")

// TestEncryptor is a deterministic stand-in for AgeEncryptor. It prefixes a
// fixed header instead of encrypting. When Setup has been called, Unlock
// only accepts the same passphrase.
type TestEncryptor struct {
	passphrase string
	setup      bool
}

var _ scrapbook.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.passphrase = passphrase
	e.setup = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing test header: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (scrapbook.DecryptionContext, error) {
	if e.setup && passphrase != e.passphrase {
		return nil, errors.New("wrong passphrase")
	}
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

// TestDecryptionContext strips the header written by TestEncryptor.
type TestDecryptionContext struct{}

var _ scrapbook.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading test header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return errors.New("invalid test encryption header")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
