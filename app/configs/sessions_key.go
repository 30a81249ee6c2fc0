package configs

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/securecookie"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
	CSRFKey []byte
}

func (e ENV) SessionKeys() (*SessionKeys, error) {
	if e.AppAuthKey == "" {
		return nil, fmt.Errorf("APP_AUTH_KEY environment variable not set")
	}
	if e.AppEncKey == "" {
		return nil, fmt.Errorf("APP_ENC_KEY environment variable not set")
	}

	authKey, err := base64.URLEncoding.DecodeString(e.AppAuthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_AUTH_KEY from Base64: %w", err)
	}
	encKey, err := base64.URLEncoding.DecodeString(e.AppEncKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_ENC_KEY from Base64: %w", err)
	}
	if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
		return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
	}

	keys := &SessionKeys{AuthKey: authKey, EncKey: encKey}

	if e.CSRFKey == "" {
		// CSRF falls back to the first 32 bytes of the auth key
		keys.CSRFKey = authKey[:min(32, len(authKey))]
	} else {
		csrfKey, err := base64.URLEncoding.DecodeString(e.CSRFKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decode CSRF_KEY from Base64: %w", err)
		}
		if len(csrfKey) != 32 {
			return nil, fmt.Errorf("CSRF_KEY must decode to 32 bytes, got %d", len(csrfKey))
		}
		keys.CSRFKey = csrfKey
	}
	if len(keys.CSRFKey) != 32 {
		return nil, fmt.Errorf("APP_AUTH_KEY must decode to at least 32 bytes when CSRF_KEY is unset")
	}

	return keys, nil
}

// GenerateSessionKeys writes fresh APP_AUTH_KEY, APP_ENC_KEY and CSRF_KEY
// lines to out and, when path is not empty, to that file.
func GenerateSessionKeys(out io.Writer, path string) error {
	authKey := securecookie.GenerateRandomKey(64)
	encKey := securecookie.GenerateRandomKey(32)
	csrfKey := securecookie.GenerateRandomKey(32)
	if authKey == nil || encKey == nil || csrfKey == nil {
		return fmt.Errorf("could not generate session keys")
	}

	lines := fmt.Sprintf("APP_AUTH_KEY=%s\nAPP_ENC_KEY=%s\nCSRF_KEY=%s\n",
		base64.URLEncoding.EncodeToString(authKey),
		base64.URLEncoding.EncodeToString(encKey),
		base64.URLEncoding.EncodeToString(csrfKey))

	if _, err := io.WriteString(out, lines); err != nil {
		return err
	}
	if path == "" {
		return nil
	}

	if err := os.WriteFile(path, []byte(lines), 0o600); err != nil {
		return fmt.Errorf("failed to write keys to file %s: %w", path, err)
	}
	return nil
}
