package docstore

import (
	cryptorand "crypto/rand"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
)

// IDLength is the length of generated IDs.
const IDLength = 9

// IDAlphabet is the set generated IDs draw from.
const IDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// unsafeIDChars may not appear in a single path segment on common filesystems.
const unsafeIDChars = "/\\?*:;{}\n"

var namePattern = regexp.MustCompile(`^[0-9A-Za-z_-]{1,63}$`)

// ValidName reports whether name is a valid repository name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// ValidateID reports whether id is non-empty and free of / \ ? * : ; { } and
// newline. Generated IDs always pass; caller-supplied IDs only need this
// weaker rule.
func ValidateID(id string) bool {
	return id != "" && !strings.ContainsAny(id, unsafeIDChars)
}

// IDGenerator produces random IDs of [IDLength] characters, each drawn
// uniformly and independently from [IDAlphabet].
//
// It does not check for existing documents. With 62^9 possible IDs a
// collision is unlikely but not impossible; a collision overwrites.
//
// Safe for concurrent use.
type IDGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewIDGenerator returns a generator reading from src. A nil src uses a
// ChaCha8 source seeded from crypto/rand.
func NewIDGenerator(src rand.Source) *IDGenerator {
	if src == nil {
		var seed [32]byte

		_, _ = cryptorand.Read(seed[:]) // never returns an error on supported platforms

		src = rand.NewChaCha8(seed)
	}

	return &IDGenerator{rnd: rand.New(src)}
}

// Next returns a new ID.
func (g *IDGenerator) Next() string {
	var buf [IDLength]byte

	g.mu.Lock()
	for i := range buf {
		buf[i] = IDAlphabet[g.rnd.IntN(len(IDAlphabet))]
	}
	g.mu.Unlock()

	return string(buf[:])
}
