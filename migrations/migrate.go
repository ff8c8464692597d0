package migrations

import (
	"database/sql"
	"embed"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var embedMigrations embed.FS

// Migrate brings the words schema up to date. Migration failures are fatal;
// the server cannot run against an unknown schema.
func Migrate(pgurl string) {
	migrationDB, err := sql.Open("pgx", pgurl)
	if err != nil {
		slog.Error("could not open database for migrations", "err", err)
		os.Exit(1)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		slog.Error("could not set goose dialect", "err", err)
		os.Exit(1)
	}

	if err := goose.Up(migrationDB, "."); err != nil {
		slog.Error("could not run migrations", "err", err)
		os.Exit(1)
	}

	if err := migrationDB.Close(); err != nil {
		slog.Error("could not close migration connection", "err", err)
		os.Exit(1)
	}
	slog.Info("migrations applied")
}
