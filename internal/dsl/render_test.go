package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibelights/internal/workerpool"
)

func TestRenderFrameEvaluatesEveryPixelContext(t *testing.T) {
	compiled, err := Compile("gradient-index", `index / pixelCount;`)
	require.NoError(t, err)

	pool := workerpool.New(4, 16)
	defer pool.Close()

	const n = 10
	ctxs := make([]*Context, n)
	for i := 0; i < n; i++ {
		ctxs[i] = &Context{Pixel: float64(i), PixelCount: float64(n)}
	}

	results, err := RenderFrame(pool, compiled, ctxs)
	require.NoError(t, err)
	require.Len(t, results, n)
	for i, v := range results {
		assert.InDelta(t, float64(i)/float64(n), v.Float, 1e-9)
	}
}

func TestRenderFramePropagatesVMError(t *testing.T) {
	script := &CompiledScript{Ops: []Op{{Code: CodeAdd}, {Code: CodeReturn}}}
	pool := workerpool.New(2, 4)
	defer pool.Close()

	_, err := RenderFrame(pool, script, []*Context{{}, {}})
	assert.Error(t, err)
}
