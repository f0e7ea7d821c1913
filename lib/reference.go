package lib

import (
	"crypto/rand"
	"fmt"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRepairReference returns a short reference printed on deposit receipts: BD-XXXXXX
func GenerateRepairReference() string {
	const length = 6

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}

	for i := range b {
		b[i] = referenceChars[int(b[i])%len(referenceChars)]
	}

	return fmt.Sprintf("BD-%s", string(b))
}
