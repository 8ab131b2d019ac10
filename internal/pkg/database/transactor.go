package database

import "context"

// Transactor runs fn inside one transaction carried by the ctx passed to fn.
// Repositories pick the transaction up from ctx. A call made with a ctx that
// already carries a transaction joins it instead of opening a new one.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
