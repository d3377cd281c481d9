package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"DailyNoteSentinel/internal/config"
)

const serviceName = "dailynote-sentinel"

// Keys under which the HoYoLAB cookie values are stored.
const (
	KeyLToken = "ltoken"
	KeyLTUID  = "ltuid"
)

// Open returns the system keyring for this service.
func Open() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/dailynote-sentinel/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("dailynote-sentinel-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// ValidKey reports whether key names a stored cookie value.
func ValidKey(key string) bool {
	return key == KeyLToken || key == KeyLTUID
}

// Get retrieves a credential value by key.
func Get(ring keyring.Keyring, key string) (string, error) {
	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

// Set stores a credential value by key.
func Set(ring keyring.Keyring, key, value string) error {
	if err := ring.Set(keyring.Item{Key: key, Data: []byte(value)}); err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes a credential by key.
func Delete(ring keyring.Keyring, key string) error {
	if err := ring.Remove(key); err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// Fill copies cookie values from ring into cfg for fields that are still empty.
// Values already set by the file or environment win. Keys absent from the
// ring are left empty so Validate reports them.
func Fill(ring keyring.Keyring, cfg *config.Config) error {
	fields := []struct {
		key string
		dst *string
	}{
		{KeyLToken, &cfg.HoYoLab.LToken},
		{KeyLTUID, &cfg.HoYoLab.LTUID},
	}
	for _, f := range fields {
		if *f.dst != "" {
			continue
		}
		v, err := Get(ring, f.key)
		if errors.Is(err, keyring.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}
