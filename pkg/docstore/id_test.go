package docstore_test

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/docstore/pkg/docstore"
)

func Test_ValidateID_Rejects_Unsafe_Characters(t *testing.T) {
	t.Parallel()

	assert.False(t, docstore.ValidateID(""))

	for _, c := range "/\\?*:;{}\n" {
		id := "ab" + string(c) + "cd"
		assert.False(t, docstore.ValidateID(id), "id %q", id)
	}

	for _, id := range []string{"abc", "a.b", "ä-ö", "with space", strings.Repeat("x", 200)} {
		assert.True(t, docstore.ValidateID(id), "id %q", id)
	}
}

func Test_ValidName_Matches_Allowed_Pattern(t *testing.T) {
	t.Parallel()

	assert.True(t, docstore.ValidName("a_B-9"))
	assert.True(t, docstore.ValidName(strings.Repeat("a", 63)))
	assert.False(t, docstore.ValidName(strings.Repeat("a", 64)))
	assert.False(t, docstore.ValidName(""))
	assert.False(t, docstore.ValidName("a.b"))
	assert.False(t, docstore.ValidName("a\n"))
}

func Test_IDGenerator_Produces_Valid_IDs_From_Alphabet(t *testing.T) {
	t.Parallel()

	gen := docstore.NewIDGenerator(nil)
	seen := map[rune]bool{}

	for range 2000 {
		id := gen.Next()

		assert.Len(t, id, docstore.IDLength)
		assert.True(t, docstore.ValidateID(id))

		for _, c := range id {
			seen[c] = true
		}
	}

	// 18000 draws over 62 symbols: every symbol shows up.
	assert.Len(t, seen, len(docstore.IDAlphabet))

	for c := range seen {
		assert.Contains(t, docstore.IDAlphabet, string(c))
	}
}

func Test_IDGenerator_Is_Deterministic_When_Seeded(t *testing.T) {
	t.Parallel()

	a := docstore.NewIDGenerator(rand.NewPCG(42, 0))
	b := docstore.NewIDGenerator(rand.NewPCG(42, 0))

	for range 10 {
		assert.Equal(t, a.Next(), b.Next())
	}

	c := docstore.NewIDGenerator(rand.NewPCG(43, 0))
	assert.NotEqual(t, docstore.NewIDGenerator(rand.NewPCG(42, 0)).Next(), c.Next())
}

func Test_IDGenerator_Is_Safe_For_Concurrent_Use(t *testing.T) {
	t.Parallel()

	gen := docstore.NewIDGenerator(nil)

	var (
		mu  sync.Mutex
		ids = map[string]bool{}
		wg  sync.WaitGroup
	)

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 100 {
				id := gen.Next()

				mu.Lock()
				ids[id] = true
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	assert.Len(t, ids, 800)
}
