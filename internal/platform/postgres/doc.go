// Package postgres contains the PostgreSQL implementations of the store
// interfaces. All queries run through database/sql with the pgx stdlib
// driver; implementations accept either a connection or a transaction via
// store.DBTX.
package postgres
