package testutil

import (
	"scrapbook-go/internal/vault"
)

// NewTestVault creates an in-memory archive vault.
func NewTestVault() *vault.MemoryVault {
	return vault.NewMemoryVault("test-vault")
}
