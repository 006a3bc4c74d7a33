package auth

import (
	"math/rand/v2"

	"eventrsvp/internal/domain"
)

const (
	verificationCodeLength   = 6
	verificationCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

type randomCodeGenerator struct{}

// NewCodeGenerator returns a CodeGenerator producing 6-character uppercase alphanumeric codes.
// The source is math/rand: good enough for an emailed one-time code, not for secrets.
func NewCodeGenerator() domain.CodeGenerator {
	return randomCodeGenerator{}
}

func (randomCodeGenerator) Generate() string {
	b := make([]byte, verificationCodeLength)
	for i := range b {
		b[i] = verificationCodeAlphabet[rand.IntN(len(verificationCodeAlphabet))]
	}
	return string(b)
}
