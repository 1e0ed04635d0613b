// Package db wraps [github.com/jackc/pgx/v5/pgxpool] with connection
// setup, transaction scoping, and goose migrations.
//
// Connect retries with linear backoff during startup and verifies the
// connection with a ping. WithTx scopes a function to a transaction with
// guaranteed rollback-or-commit on every exit path, including panics.
// Migrate applies embedded SQL migrations via [github.com/pressly/goose/v3].
//
//	pool, err := db.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	if err := db.Migrate(ctx, pool, migrations, cfg.MigrationsTable, logger); err != nil {
//		log.Fatal(err)
//	}
//
//	err = db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		// statements on tx are committed together or not at all
//		return nil
//	})
package db
