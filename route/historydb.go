package route

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sarchlab/fabricpnr/device"
)

// HistoryDB persists a snapshot of every negotiated-congestion iteration
// to a sqlite database: the iteration number, the pressure factor in
// effect, the congested-wire count, and each congested wire's accumulated
// history cost. This has no bitstream or routing-correctness role — it
// exists so a long ripup-and-retry run can be inspected (or a convergence
// regression bisected) after the fact without re-running the router.
type HistoryDB struct {
	db *sql.DB
}

// OpenHistoryDB creates (or truncates) a sqlite database at path and
// prepares its schema.
func OpenHistoryDB(path string) (*HistoryDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("route: open history db: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS iterations (
		iter INTEGER PRIMARY KEY,
		pressure_factor REAL NOT NULL,
		congested_count INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS congestion (
		iter INTEGER NOT NULL,
		wire_id INTEGER NOT NULL,
		history_cost REAL NOT NULL
	);
	DELETE FROM iterations;
	DELETE FROM congestion;
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("route: create history db schema: %w", err)
	}

	return &HistoryDB{db: db}, nil
}

// RecordIteration implements HistorySink.
func (h *HistoryDB) RecordIteration(iter int, pressureFactor float64, congested []device.WireID, historyCost func(device.WireID) float64) error {
	tx, err := h.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`INSERT INTO iterations (iter, pressure_factor, congested_count) VALUES (?, ?, ?)`,
		iter, pressureFactor, len(congested)); err != nil {
		tx.Rollback()
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO congestion (iter, wire_id, history_cost) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, w := range congested {
		if _, err := stmt.Exec(iter, int64(w), historyCost(w)); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// Close releases the underlying database handle.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}
