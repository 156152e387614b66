// apps/go-server/db.go
//
// Database bootstrap for the trivia board server.
// Opens the SQLite setup-history database and applies the embedded migrations.
// An empty path disables history; the server then answers /daily/history with 503.

package main

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robalobadob/jeopardy/apps/go-server/internal/history"
)

// openHistory returns the history store and its database handle, or (nil, nil, nil)
// when path is empty.
func openHistory(path string, log zerolog.Logger) (*history.Store, *sql.DB, error) {
	if path == "" {
		log.Warn().Msg("db.path empty; setup history disabled")
		return nil, nil, nil
	}
	db, err := history.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := history.Migrate(db, log); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("history database ready")
	return history.NewStore(db), db, nil
}
