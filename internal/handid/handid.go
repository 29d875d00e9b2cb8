// Package handid generates sortable identifiers for hands: a UUIDv7 rendered
// as 26 characters of Crockford base32, so IDs created later sort later.
package handid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/lox/holdem-advisor/internal/randutil"
)

const (
	alphabet = "0123456789abcdefghjkmnpqrstvwxyz"
	Length   = 26
)

// New returns an ID for a hand started at now. Random bits come from src,
// or from crypto/rand when src is nil.
func New(now time.Time, src randutil.Source) string {
	return encode(uuidV7(now, src))
}

func uuidV7(now time.Time, src randutil.Source) [16]byte {
	var id [16]byte
	ms := uint64(now.UnixMilli())
	for i := 0; i < 6; i++ {
		id[i] = byte(ms >> (40 - 8*i))
	}

	if src != nil {
		for i := 6; i < 16; i++ {
			id[i] = byte(src.IntN(256))
		}
	} else if _, err := rand.Read(id[6:]); err != nil {
		panic("handid: reading random bytes: " + err.Error())
	}

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant
	return id
}

// encode writes the 128 bits as 26 five-bit groups, left-padded with two zero
// bits so the first character is always 0-7.
func encode(id [16]byte) string {
	var sb strings.Builder
	sb.Grow(Length)

	var acc uint32
	bits := 2 // leading pad
	for _, b := range id {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			sb.WriteByte(alphabet[(acc>>bits)&0x1f])
		}
	}
	return sb.String()
}

// Validate checks the length and alphabet of an ID.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("hand ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("hand ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}

// Time recovers the millisecond timestamp embedded in a valid ID.
func Time(id string) (time.Time, error) {
	if err := Validate(id); err != nil {
		return time.Time{}, err
	}
	// The first 10 characters hold the 2 pad bits and the 48-bit timestamp.
	var v uint64
	for i := 0; i < 10; i++ {
		v = v<<5 | uint64(strings.IndexByte(alphabet, id[i]))
	}
	return time.UnixMilli(int64(v)), nil
}
