package vixenimport

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddWarningIsSafeForConcurrentCallers(t *testing.T) {
	imp := NewImporter()

	var wg sync.WaitGroup
	const n = 50
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			imp.addWarning("concurrent warning")
		}()
	}
	wg.Wait()

	assert.Len(t, imp.Warnings(), n)
}

func TestParseSequencesConcurrentReturnsNilForEmptyInput(t *testing.T) {
	imp := NewImporter()
	out := imp.parseSequencesConcurrent(nil)
	assert.Nil(t, out)
}

func TestParseSequencesConcurrentRecordsWarningsForEachFailure(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "missing-one.tim"),
		filepath.Join(dir, "missing-two.tim"),
		filepath.Join(dir, "missing-three.tim"),
	}

	imp := NewImporter()
	out := imp.parseSequencesConcurrent(paths)

	assert.Len(t, out, len(paths))
	for _, seq := range out {
		assert.Nil(t, seq)
	}
	assert.Len(t, imp.Warnings(), len(paths))
}
