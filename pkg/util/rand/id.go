// Package rand generates random identifiers for rows and test fixtures.
package rand

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// NewID generates a random non-negative int64 suitable as a default row id
// for tables with a bigint primary key.
//
// It uses crypto/rand so ids generated by concurrent processes do not need
// coordination to stay collision-unlikely.
func NewID() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(0).SetUint64(1<<63-1))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is broken
		panic(err)
	}
	return n.Int64()
}

// NewEmail generates a random mailbox under example.com, for tests that
// need unique signup identities.
func NewEmail() string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, 10)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			panic(err)
		}
		b[i] = charset[n.Int64()]
	}
	return fmt.Sprintf("test+%s@example.com", string(b))
}
