// Package pg wires PostgreSQL for the application: pooled connections with
// retry on startup, goose schema migrations bridged onto the pgx pool, and
// error helpers so stores can branch on "not found" or "duplicate key"
// without importing driver internals.
//
// Typical startup:
//
//	pool, err := pg.Connect(ctx, cfg.Postgres)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg.Postgres, log); err != nil {
//	    return err
//	}
//
// Store code branches on classified errors:
//
//	if pg.IsDuplicateKeyError(err) {
//	    return ErrSlugTaken
//	}
package pg
