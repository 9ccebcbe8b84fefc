package service

import (
	"context"

	"github.com/and161185/notekeeper/internal/model"
)

// PageSize is the number of records per listing page.
const PageSize = 10

// paginate counts first and only lists when the requested window is inside
// the result set. Pages below 1 are treated as page 1.
func paginate[T any](
	ctx context.Context,
	page int,
	count func(ctx context.Context) (int, error),
	list func(ctx context.Context, limit, offset int) ([]T, error),
) (model.Page[T], error) {
	if page < 1 {
		page = 1
	}
	out := model.Page[T]{Items: []T{}, Page: page, PerPage: PageSize}

	total, err := count(ctx)
	if err != nil {
		return model.Page[T]{}, err
	}
	out.Total = total

	offset := (page - 1) * PageSize
	if offset >= total {
		return out, nil
	}
	items, err := list(ctx, PageSize, offset)
	if err != nil {
		return model.Page[T]{}, err
	}
	out.Items = items
	return out, nil
}
