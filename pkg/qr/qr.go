// Package qr renders coupon codes as scannable QR data URLs, with an optional
// AES-256-CBC payload confidentiality layer.
package qr

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const pngSize = 256

// Renderer produces displayable QR data for coupon codes. With an encryption
// key configured, the QR payload is the encrypted form of the code
// ("hex(iv):hex(ciphertext)"); otherwise the code is encoded as-is.
type Renderer struct {
	key []byte // nil disables the confidentiality layer
}

// NewRenderer creates a renderer. key may be empty; a non-empty key is
// normalized to 32 bytes (AES-256).
func NewRenderer(key string) *Renderer {
	if key == "" {
		return &Renderer{}
	}
	return &Renderer{key: normalizeKey(key)}
}

// DataURL renders the coupon code into a data:image/png;base64 URL.
func (r *Renderer) DataURL(code string) (string, error) {
	payload := code
	if r.key != nil {
		enc, err := r.encrypt(code)
		if err != nil {
			return "", fmt.Errorf("encrypt payload: %w", err)
		}
		payload = enc
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, pngSize)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Decrypt recovers a coupon code from an encrypted QR payload. With no key
// configured the payload is returned unchanged.
func (r *Renderer) Decrypt(payload string) (string, error) {
	if r.key == nil {
		return payload, nil
	}
	parts := strings.SplitN(payload, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("malformed encrypted payload")
	}
	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != aes.BlockSize {
		return "", fmt.Errorf("malformed iv")
	}
	ct, err := hex.DecodeString(parts[1])
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", fmt.Errorf("malformed ciphertext")
	}
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("new cipher: %w", err)
	}
	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ct)
	plain, err = pkcs7Unpad(plain)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

func (r *Renderer) encrypt(code string) (string, error) {
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("new cipher: %w", err)
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("read iv: %w", err)
	}
	plain := pkcs7Pad([]byte(code), aes.BlockSize)
	ct := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, plain)
	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ct), nil
}

// normalizeKey pads with '0' or truncates to exactly 32 bytes.
func normalizeKey(key string) []byte {
	b := []byte(key)
	for len(b) < 32 {
		b = append(b, '0')
	}
	return b[:32]
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
