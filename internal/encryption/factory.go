package encryption

import (
	"fmt"

	"scrapbook-go/internal/config"
	"scrapbook-go/internal/scrapbook"
)

// NewEncryptorFromConfig creates the Encryptor selected by cfg.Type. Type
// "none" yields a nil Encryptor: archives are then written in the clear.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (scrapbook.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		if cfg.PublicKeyPath == "" || cfg.PrivateKeyPath == "" {
			return nil, fmt.Errorf("age encryption requires public_key_path and private_key_path")
		}
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
