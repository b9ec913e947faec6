package app

import (
	"context"
	"fmt"

	credentialService "github.com/caseguard/caseguard/internal/credential/service"
	cryptoDomain "github.com/caseguard/caseguard/internal/crypto/domain"
	cryptoService "github.com/caseguard/caseguard/internal/crypto/service"
	"github.com/caseguard/caseguard/internal/keys"
	vaultService "github.com/caseguard/caseguard/internal/vault/service"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() keys.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = keys.NewKMSService()
	})
	return c.kmsService
}

// MasterKey returns the root signing secret, decrypted through the KMS when one is configured.
func (c *Container) MasterKey() (*keys.MasterKey, error) {
	var err error
	c.masterKeyInit.Do(func() {
		c.masterKey, err = c.initMasterKey()
		if err != nil {
			c.initErrors["masterKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKey"]; exists {
		return nil, storedErr
	}
	return c.masterKey, nil
}

// TokenSigner returns the signer of ephemeral credential tokens.
func (c *Container) TokenSigner() (credentialService.TokenSigner, error) {
	var err error
	c.tokenSignerInit.Do(func() {
		c.tokenSigner, err = c.initTokenSigner()
		if err != nil {
			c.initErrors["tokenSigner"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenSigner"]; exists {
		return nil, storedErr
	}
	return c.tokenSigner, nil
}

// AccessLogSigner returns the signer of vault access-log entries.
func (c *Container) AccessLogSigner() (vaultService.AccessLogSigner, error) {
	var err error
	c.accessLogSignerInit.Do(func() {
		c.accessLogSigner, err = c.initAccessLogSigner()
		if err != nil {
			c.initErrors["accessLogSigner"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accessLogSigner"]; exists {
		return nil, storedErr
	}
	return c.accessLogSigner, nil
}

// FieldCipher returns the cipher that seals actor names and emails at rest.
func (c *Container) FieldCipher() (cryptoService.FieldCipher, error) {
	var err error
	c.fieldCipherInit.Do(func() {
		c.fieldCipher, err = c.initFieldCipher()
		if err != nil {
			c.initErrors["fieldCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldCipher"]; exists {
		return nil, storedErr
	}
	return c.fieldCipher, nil
}

// initMasterKey loads SIGNING_MASTER_KEY. The KMS key URI is only used when a KMS provider is
// configured.
func (c *Container) initMasterKey() (*keys.MasterKey, error) {
	keyURI := ""
	if c.config.KMSProvider != "" {
		keyURI = c.config.KMSKeyURI
	}

	masterKey, err := keys.LoadMasterKey(context.Background(), c.KMSService(), c.config.SigningMasterKey, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing master key: %w", err)
	}
	return masterKey, nil
}

func (c *Container) initTokenSigner() (credentialService.TokenSigner, error) {
	subkey, err := c.deriveKey(keys.PurposeCredentialToken)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key for token signer: %w", err)
	}
	defer keys.Zero(subkey)

	return credentialService.NewTokenSigner(subkey)
}

func (c *Container) initAccessLogSigner() (vaultService.AccessLogSigner, error) {
	subkey, err := c.deriveKey(keys.PurposeVaultAccessLog)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key for access log signer: %w", err)
	}
	defer keys.Zero(subkey)

	return vaultService.NewAccessLogSigner(subkey)
}

func (c *Container) initFieldCipher() (cryptoService.FieldCipher, error) {
	encryptionKey, err := c.deriveKey(keys.PurposeActorPII)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key for field cipher: %w", err)
	}
	defer keys.Zero(encryptionKey)

	indexKey, err := c.deriveKey(keys.PurposeActorEmailIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to derive index key for field cipher: %w", err)
	}
	defer keys.Zero(indexKey)

	alg := cryptoDomain.Algorithm(c.config.PIIEncryptionAlgorithm)
	if alg == "" {
		alg = cryptoDomain.AESGCM
	}
	return cryptoService.NewFieldCipher(cryptoService.NewAEADManager(), encryptionKey, indexKey, alg)
}

func (c *Container) deriveKey(purpose keys.Purpose) ([]byte, error) {
	masterKey, err := c.MasterKey()
	if err != nil {
		return nil, err
	}
	return masterKey.Derive(purpose)
}
