package cluster

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

// Vault stores per-cluster secrets outside the profile registry, keyed by
// the profile ID.
type Vault interface {
	Set(id, secret string) error
	Get(id string) (string, error)
	Delete(id string) error
}

// KeyringVault backs the vault with the host credential store.
type KeyringVault struct {
	service string
}

func NewKeyringVault(service string) *KeyringVault {
	return &KeyringVault{service: service}
}

func (v *KeyringVault) Set(id, secret string) error {
	if err := keyring.Set(v.service, id, secret); err != nil {
		return fmt.Errorf("vault: set secret for %s: %w", id, err)
	}
	return nil
}

func (v *KeyringVault) Get(id string) (string, error) {
	secret, err := keyring.Get(v.service, id)
	if err != nil {
		return "", fmt.Errorf("vault: get secret for %s: %w", id, err)
	}
	return secret, nil
}

func (v *KeyringVault) Delete(id string) error {
	if err := keyring.Delete(v.service, id); err != nil {
		return fmt.Errorf("vault: delete secret for %s: %w", id, err)
	}
	return nil
}
