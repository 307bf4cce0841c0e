// Package db wraps a pgx connection pool for the PostgreSQL-backed parts of
// lingua: the instance store and the shared translation catalog table.
//
// Connect retries until the database answers a ping:
//
//	pool, err := db.Connect(ctx, db.DefaultConfig(os.Getenv("DATABASE_CONN_URL")))
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
// WithTx runs a function in a transaction, rolling back on error or panic.
// store.Postgres uses it for upserts:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		_, err := tx.Exec(ctx, "UPDATE app_article SET title_de = $1 WHERE id = $2", title, id)
//		return err
//	})
//
// Migrate applies goose migrations from an fs.FS. Each package owning tables
// keeps its own version table, see catalog.Migrate.
//
// Healthcheck returns a probe for the server's /health endpoint.
package db
