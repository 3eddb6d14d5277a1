package parallel

import "golang.org/x/sync/errgroup"

// Map applies fn to every item with at most limit calls in flight and
// returns the results in input order. A limit of zero or less means unbounded.
func Map[T, R any](items []T, limit int, fn func(int, T) R) []R {
	out := make([]R, len(items))
	if len(items) == 0 {
		return out
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			out[i] = fn(i, item)
			return nil
		})
	}
	_ = g.Wait()

	return out
}
