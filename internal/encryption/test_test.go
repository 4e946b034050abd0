package encryption

import (
	"bytes"
	"strings"
	"testing"

	"scrapbook-go/internal/config"
)

func TestTestEncryptor_EncryptDecrypt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "simple text", input: []byte("hello world")},
		{name: "empty", input: []byte{}},
		{name: "binary data", input: []byte{0x00, 0xff, 0x01, 0xfe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := NewTestEncryptor()

			var sealed bytes.Buffer
			if err := e.Encrypt(bytes.NewReader(tt.input), &sealed); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if !bytes.HasPrefix(sealed.Bytes(), testHeader) {
				t.Error("Encrypt() output missing test header")
			}

			dec, err := e.Unlock("")
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}
			var plain bytes.Buffer
			if err := dec.Decrypt(bytes.NewReader(sealed.Bytes()), &plain); err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(plain.Bytes(), tt.input) {
				t.Errorf("Decrypt() = %q, want %q", plain.Bytes(), tt.input)
			}
		})
	}
}

func TestTestEncryptor_Deterministic(t *testing.T) {
	t.Parallel()
	e := NewTestEncryptor()

	var a, b bytes.Buffer
	if err := e.Encrypt(strings.NewReader("same"), &a); err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if err := e.Encrypt(strings.NewReader("same"), &b); err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("Encrypt() is not deterministic")
	}
}

func TestTestEncryptor_Passphrase(t *testing.T) {
	t.Parallel()
	e := NewTestEncryptor()
	if err := e.Setup("secret"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if _, err := e.Unlock("wrong"); err == nil {
		t.Error("Unlock() with wrong passphrase should return error")
	}
	if _, err := e.Unlock("secret"); err != nil {
		t.Errorf("Unlock() error = %v", err)
	}
}

func TestTestDecryptionContext_InvalidHeader(t *testing.T) {
	t.Parallel()
	dec := &TestDecryptionContext{}

	tests := []string{"", "short", "WRONGHDRpayload"}
	for _, input := range tests {
		var buf bytes.Buffer
		if err := dec.Decrypt(strings.NewReader(input), &buf); err == nil {
			t.Errorf("Decrypt(%q) expected error", input)
		}
	}
}

func TestNewEncryptorFromConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.EncryptionConfig
		wantNil bool
		wantErr bool
	}{
		{
			name: "age",
			cfg:  config.EncryptionConfig{Type: "age", PublicKeyPath: dir + "/k.pub", PrivateKeyPath: dir + "/k.key"},
		},
		{
			name: "default is age",
			cfg:  config.EncryptionConfig{PublicKeyPath: dir + "/k.pub", PrivateKeyPath: dir + "/k.key"},
		},
		{name: "age without key paths", cfg: config.EncryptionConfig{Type: "age"}, wantNil: true, wantErr: true},
		{name: "test", cfg: config.EncryptionConfig{Type: "test"}},
		{name: "none", cfg: config.EncryptionConfig{Type: "none"}, wantNil: true},
		{name: "unknown", cfg: config.EncryptionConfig{Type: "rot13"}, wantNil: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEncryptorFromConfig(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewEncryptorFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if (got == nil) != tt.wantNil {
				t.Errorf("NewEncryptorFromConfig() nil = %v, wantNil %v", got == nil, tt.wantNil)
			}
		})
	}
}
