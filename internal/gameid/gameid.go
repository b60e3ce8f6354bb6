// Package gameid generates tournament identifiers: a UUIDv7 encoded as a
// 26 character lowercase Crockford base32 string, sortable by creation time.
package gameid

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/coder/quartz"
	"github.com/lox/pokerarena/internal/randutil"
)

// Crockford's base32, lowercase
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID
const Length = 26

// Generator mints IDs from a clock and a random source. Seeding the source
// and mocking the clock makes the IDs reproducible.
type Generator struct {
	clock quartz.Clock
	rng   *rand.Rand
}

// New creates a generator. A nil clock uses the real clock; a nil rng uses a
// clock seeded source.
func New(clock quartz.Clock, rng *rand.Rand) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if rng == nil {
		rng = randutil.New(randutil.Seed(0))
	}
	return &Generator{clock: clock, rng: rng}
}

// Generate returns a new ID
func (g *Generator) Generate() string {
	return encode(g.uuid())
}

// uuid builds a UUIDv7: 48 bits of Unix milliseconds, then random bits with
// the version and variant fields set.
func (g *Generator) uuid() [16]byte {
	var id [16]byte

	ms := g.clock.Now().UnixMilli()
	for i := range 6 {
		id[i] = byte(ms >> (40 - 8*i))
	}
	for i := 6; i < 16; i++ {
		id[i] = byte(g.rng.IntN(256))
	}

	id[6] = (id[6] & 0x0f) | 0x70
	id[8] = (id[8] & 0x3f) | 0x80
	return id
}

// encode writes the 128 bits as 130 bits with two leading zero bits, so the
// first character is always 0-7
func encode(data [16]byte) string {
	var b [Length]byte
	for i := range Length {
		// Bit offset into the 130 bit value, shifted back by the padding
		start := i*5 - 2
		var v byte
		for bit := range 5 {
			pos := start + bit
			v <<= 1
			if pos >= 0 {
				v |= (data[pos/8] >> (7 - pos%8)) & 1
			}
		}
		b[i] = alphabet[v]
	}
	return string(b[:])
}

// Validate checks that id is a well formed ID
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("game ID first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
