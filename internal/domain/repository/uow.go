package repository

import "context"

// UnitOfWork runs fn inside one atomic unit. Every repository call made
// with the context fn receives joins the same transaction; if fn returns
// an error nothing is applied. Create/Edit/Cancel of an invoice and the
// stock mutations they imply must share one unit so a failure is a full
// rollback with no partial state visible.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
