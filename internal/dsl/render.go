package dsl

import "vibelights/internal/workerpool"

// RenderFrame evaluates script once per pixel context in ctxs, using
// pool to spread the work across its worker goroutines. Results are
// returned in the same order as ctxs. Each goroutine gets its own
// Buffers so concurrent evaluations never share VM scratch state.
func RenderFrame(pool *workerpool.Pool, script *CompiledScript, ctxs []*Context) ([]Value, error) {
	results := make([]Value, len(ctxs))
	errs := make([]error, len(ctxs))

	workerpool.RunIndexed(pool, len(ctxs), func(i int) {
		buf := NewBuffers(script)
		v, err := ExecuteReuse(script, ctxs[i], buf)
		results[i] = v
		errs[i] = err
	})

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
