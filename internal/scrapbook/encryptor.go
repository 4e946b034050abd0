package scrapbook

import "io"

// Encryptor seals exported archives. Sealing needs only the public key;
// opening an archive needs the private key unlocked with a passphrase.
type Encryptor interface {
	// Setup generates a key pair and protects the private half with
	// passphrase. Run once, from `config keys`.
	Setup(passphrase string) error

	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock opens the private key for the rest of the session.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether both key files exist.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}

// CoverRenderer synthesizes a cover image for books without a chosen one.
type CoverRenderer interface {
	PlaceholderCover(title string) ([]byte, error)
}
