package secure_test

import (
	"testing"

	"github.com/AfeiFun/ASR/internal/secure"
)

func TestCrypter_EncryptDecrypt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"simple", []byte("some data")},
		{"empty", []byte("")},
		{"json payload", []byte(`{"id":"01J0","status":"DONE","result":{"text":"你好"}}`)},
		{"nil", nil},
		{"non ascii", []byte("你好，世界")},
		{"binary", []byte{0xff, 0xfe, 0xfd, 0x00, 0x01, 0x02}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := secure.NewCrypter("job store passphrase")
			if err != nil {
				t.Fatalf("could not construct receiver type: %v", err)
			}
			encrypted, err := c.Encrypt(tt.data)
			if err != nil {
				t.Fatalf("Encrypt() failed: %v", err)
			}
			if string(encrypted) == string(tt.data) {
				t.Errorf("Not encrypted = %v, want %v", string(encrypted), string(tt.data))
			}
			decrypted, err := c.Decrypt(encrypted)
			if err != nil {
				t.Errorf("Decrypt() failed: %v", err)
				return
			}
			if string(decrypted) != string(tt.data) {
				t.Errorf("Decrypt() = %v, want %v", string(decrypted), string(tt.data))
			}
		})
	}
}

func TestNewCrypter_ShortPassphrase(t *testing.T) {
	if _, err := secure.NewCrypter("short"); err == nil {
		t.Error("NewCrypter() succeeded with short passphrase")
	}
}

func TestCrypter_Decrypt_Garbage(t *testing.T) {
	c, err := secure.NewCrypter("job store passphrase")
	if err != nil {
		t.Fatalf("could not construct receiver type: %v", err)
	}
	if _, err := c.Decrypt([]byte{0x01}); err == nil {
		t.Error("Decrypt() succeeded on truncated input")
	}
	if _, err := c.Decrypt([]byte("definitely not a valid ciphertext")); err == nil {
		t.Error("Decrypt() succeeded on garbage input")
	}
}
