// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver. Stores accept a store.DBTX so the same
// code runs against the pool or inside a transaction; TxRunner builds a
// transactional store.Stores. Schema migrations are embedded and applied
// with goose.
package postgres
