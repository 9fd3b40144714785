package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// TransactionManager provides a thin abstraction to execute a function
// within a database transaction, passing the underlying transaction handle
// via `tx`.
//
// Repositories accept `tx Tx` so the implementation can detect a tx handle
// (pgx.Tx for Postgres) and run SELECT ... FOR UPDATE / tx-bound Exec as
// needed. Repositories MUST gracefully accept a nil tx (non-transactional
// path). Keep this interface small and stable.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
