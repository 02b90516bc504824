package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager executes a function inside a database transaction,
// passing the underlying handle through `tx`.
//
// Repository methods accept `tx Tx` so call sites can run either standalone
// (nil / NoTX -> pool) or inside a transaction (pgx.Tx), without the
// use-case layer importing driver types. Repositories MUST accept a nil tx.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
