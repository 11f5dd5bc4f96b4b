package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"
)

const (
	AlgorithmSHA256 = "sha256"
	AlgorithmSHA512 = "sha512"
)

var (
	ErrUnknownAlgorithm = errors.New("UNKNOWN_HASH_ALGORITHM")
	ErrEmptySecret      = errors.New("EMPTY_HASH_SECRET")
)

type Signer interface {
	Sign(canonical string) string
	Verify(canonical string, providedMAC string) bool
}

type hmacSigner struct {
	secret []byte
	newFn  func() hash.Hash
}

func NewSigner(algorithm string, secret string) (Signer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	var newFn func() hash.Hash
	switch strings.ToLower(algorithm) {
	case AlgorithmSHA512, "hmacsha512":
		newFn = sha512.New
	case AlgorithmSHA256, "hmacsha256":
		newFn = sha256.New
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, algorithm)
	}

	return &hmacSigner{secret: []byte(secret), newFn: newFn}, nil
}

// Sign returns the lower-case hex MAC of canonical.
func (s *hmacSigner) Sign(canonical string) string {
	return hex.EncodeToString(s.mac(canonical))
}

// Verify compares in constant time. A MAC that is not valid hex never matches.
func (s *hmacSigner) Verify(canonical string, providedMAC string) bool {
	provided, err := hex.DecodeString(strings.ToLower(strings.TrimSpace(providedMAC)))
	if err != nil || len(provided) == 0 {
		return false
	}

	return hmac.Equal(s.mac(canonical), provided)
}

func (s *hmacSigner) mac(canonical string) []byte {
	h := hmac.New(s.newFn, s.secret)
	_, _ = h.Write([]byte(canonical))
	return h.Sum(nil)
}
