package database

import (
	"context"
	"database/sql"
	"embed"
	"sync"

	"github.com/pressly/goose/v3"

	"todo-services/pkg/logger"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// Schema names one service's migration set. Each service keeps its own goose
// version table so both can share a database.
type Schema struct {
	Dir          string
	VersionTable string
}

var (
	UsersSchema = Schema{Dir: "migrations/users", VersionTable: "goose_users_version"}
	TodosSchema = Schema{Dir: "migrations/todos", VersionTable: "goose_todos_version"}
)

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending migration of s.
func Migrate(ctx context.Context, db *sql.DB, s Schema) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetTableName(s.VersionTable)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db, s.Dir); err != nil {
		return err
	}
	logger.Info(ctx, "Schema migrated", "dir", s.Dir)
	return nil
}
