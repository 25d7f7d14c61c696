package id

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	gen := NewGenerator()

	id1 := gen.Generate()
	id2 := gen.Generate()

	assert.NotEqual(t, id1.String(), id2.String(), "generated IDs should be unique")
	assert.Len(t, gen.GenerateString(), 26)
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{InstancePrefix, RequestPrefix, SessionPrefix} {
		id := gen.GenerateWithPrefix(prefix)
		require.True(t, strings.HasPrefix(id, prefix+"_"), id)

		parts := strings.Split(id, "_")
		require.Len(t, parts, 2)
		assert.True(t, IsValid(parts[1]))
	}
}

func TestTypedIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewInstanceID().String(), "inst_"))
	assert.True(t, strings.HasPrefix(NewRequestID().String(), "req_"))
	assert.True(t, strings.HasPrefix(NewSessionID().String(), "sess_"))
}

func TestParsePrefixed(t *testing.T) {
	before := time.Now().Add(-time.Second)
	inst := NewInstanceID()

	_, err := Parse(inst.String())
	require.NoError(t, err)

	ts, err := Timestamp(inst.String())
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = Parse("inst_not-a-ulid")
	assert.Error(t, err)
	assert.False(t, IsValid("garbage"))
}

func TestDeterministicEntropy(t *testing.T) {
	a := NewGeneratorWithEntropy(bytes.NewReader(make([]byte, 64)))
	id := a.Generate()
	assert.Equal(t, make([]byte, 10), id.Entropy())
}

func TestConcurrentGeneration(t *testing.T) {
	const workers, perWorker = 8, 100

	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := NewRequestID().String()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
}
