package sqlite

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tailscale/tailsql/server/tailsql"
	"tailscale.com/tsweb"
)

// TableCount is a row count for the recorder-stats debug page.
type TableCount struct {
	Table string `json:"table"`
	Rows  int64  `json:"rows"`
}

var recorderTables = []string{"dance_runs", "dance_frame_stats"}

// TableCounts counts rows in each recorder table.
func (db *DB) TableCounts() ([]TableCount, error) {
	out := make([]TableCount, 0, len(recorderTables))
	for _, t := range recorderTables {
		var n int64
		if err := db.QueryRow(`SELECT COUNT(*) FROM ` + t).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", t, err)
		}
		out = append(out, TableCount{Table: t, Rows: n})
	}
	return out, nil
}

// AttachAdminRoutes mounts the tailsql console and a row-count page under
// the tsweb /debug/ handler on mux.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) error {
	debug := tsweb.Debugger(mux)
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		return fmt.Errorf("failed to create tailsql server: %w", err)
	}
	tsql.SetDB("sqlite://"+db.path, db.DB, &tailsql.DBOptions{
		Label: "Dance recorder",
	})
	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("recorder-stats", "Recorder table row counts", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counts, err := db.TableCounts()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(counts)
	}))
	return nil
}
