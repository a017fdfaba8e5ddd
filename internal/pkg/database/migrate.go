package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"gousers/internal/pkg/database/migrations"
)

// Migrate executa um comando do goose ("up", "down", "status", ...) contra o banco.
// Com dir vazio usa as migrações embutidas no binário; caso contrário, lê do disco.
func Migrate(ctx context.Context, db *sql.DB, command string, dir string, args ...string) error {
	fsys, dir := migrationSource(dir)
	goose.SetBaseFS(fsys)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose: dialeto inválido: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// migrationSource escolhe de onde o goose lê as migrações: o FS embutido
// (raiz ".") quando dir é vazio, ou o sistema de arquivos (FS nil) em dir.
func migrationSource(dir string) (fs.FS, string) {
	if dir == "" {
		return migrations.FS, "."
	}
	return nil, dir
}
