package printer

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferred_HoldsUntilFlush(t *testing.T) {
	d := &Deferred{}
	p := d.Printer()

	p.Printf("first")
	p.Warnf("second")
	p.Printf("third")

	var out, errOut bytes.Buffer
	require.NoError(t, d.Flush(&out, &errOut))

	assert.Equal(t, "first\nthird\n", out.String())
	assert.Contains(t, errOut.String(), "second")

	out.Reset()
	errOut.Reset()
	require.NoError(t, d.Flush(&out, &errOut))
	assert.Empty(t, out.String(), "flush clears held output")
	assert.Empty(t, errOut.String())
}

func TestDeferred_SameStreamKeepsOrder(t *testing.T) {
	d := &Deferred{}
	p := d.Printer()

	var out bytes.Buffer
	p.Printf("a")
	p.Printf("b")
	require.NoError(t, d.Flush(&out, &out))
	assert.Equal(t, "a\nb\n", out.String())
}

func TestDeferred_ConcurrentWrites(t *testing.T) {
	d := &Deferred{}
	p := d.Printer()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Printf("x")
		}()
	}
	wg.Wait()

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out, &out))
	assert.Equal(t, 200, out.Len())
}
