package provider

import (
	"bytes"
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
)

const sessionKeySize = 32

var (
	ErrInvalidKey     = errors.New("invalid key")
	ErrInvalidIV      = errors.New("invalid initialization vector")
	ErrInvalidPadding = errors.New("invalid padding")
)

// parsePrivateKey accepts PKCS#1 and PKCS#8 PEM blocks.
func parsePrivateKey(pemText string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, fmt.Errorf("%w: private key is not PEM encoded", ErrInvalidKey)
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private key is not RSA", ErrInvalidKey)
	}
	return key, nil
}

// parsePublicKey accepts PKIX and PKCS#1 PEM blocks.
func parsePublicKey(pemText string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, fmt.Errorf("%w: public key is not PEM encoded", ErrInvalidKey)
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: public key is not RSA", ErrInvalidKey)
	}
	return key, nil
}

// parseIV accepts a 16 byte raw string or its 32 character hex form.
func parseIV(iv string) ([]byte, error) {
	switch len(iv) {
	case aes.BlockSize:
		return []byte(iv), nil
	case 2 * aes.BlockSize:
		b, err := hex.DecodeString(iv)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidIV, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("%w: expected %d bytes", ErrInvalidIV, aes.BlockSize)
}

// seal encrypts plain with a fresh AES-256 session key and wraps the key for
// the recipient. Both results are base64 encoded.
func seal(recipient *rsa.PublicKey, iv, plain []byte) (message, cryptMessage string, err error) {
	key := make([]byte, sessionKeySize)
	if _, err := rand.Read(key); err != nil {
		return "", "", fmt.Errorf("generate session key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", "", err
	}
	padded := pkcs7Pad(plain, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	wrapped, err := rsa.EncryptPKCS1v15(rand.Reader, recipient, key)
	if err != nil {
		return "", "", fmt.Errorf("wrap session key: %w", err)
	}

	return base64.StdEncoding.EncodeToString(out), base64.StdEncoding.EncodeToString(wrapped), nil
}

// open reverses seal using the recipient's private key.
func open(recipient *rsa.PrivateKey, iv []byte, message, cryptMessage string) ([]byte, error) {
	wrapped, err := base64.StdEncoding.DecodeString(cryptMessage)
	if err != nil {
		return nil, fmt.Errorf("decode crypt message: %w", err)
	}
	key, err := rsa.DecryptPKCS1v15(nil, recipient, wrapped)
	if err != nil {
		return nil, fmt.Errorf("unwrap session key: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(message)
	if err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("decrypt message: ciphertext is not a multiple of the block size")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("decrypt message: %w", err)
	}
	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, data)

	return pkcs7Unpad(plain, aes.BlockSize)
}

func sign(key *rsa.PrivateKey, payload []byte) (string, error) {
	digest := sha256.Sum256(payload)
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("sign: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b[:len(b):len(b)], bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, ErrInvalidPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, ErrInvalidPadding
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, ErrInvalidPadding
		}
	}
	return b[:len(b)-n], nil
}
