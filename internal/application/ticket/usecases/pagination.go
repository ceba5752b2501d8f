package usecases

import "context"

// maxListPages stops a listing whose upstream never returns an empty page.
const maxListPages = 500

// collectPages reads pages from 1 until an empty page.
func collectPages[T any](ctx context.Context, pageSize int, fetch func(ctx context.Context, pageSize, page int) ([]T, error)) ([]T, error) {
	var all []T
	for page := 1; page <= maxListPages; page++ {
		batch, err := fetch(ctx, pageSize, page)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
	}
	return all, nil
}
