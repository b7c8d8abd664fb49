// Package postgres provides the PostgreSQL-backed notification store.
//
// Connect builds a pgxpool with startup retries, Migrate applies the
// embedded goose migrations, and Store implements notification.Store on top
// of the resulting pool.
//
//	pool, err := postgres.Connect(ctx, cfg)
//	if err != nil { ... }
//	if err := postgres.Migrate(ctx, pool, cfg, log); err != nil { ... }
//	store := postgres.NewStore(pool)
package postgres
