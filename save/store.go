// Package save persists the session's save document in SQLite: the
// unlocked-tech list the tech gate reloads from, and the per-part scale
// state the rescale engine writes back through the host save hook.
package save

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection
var openDB = sql.Open

// ModuleState is the rescale engine's persisted field set for one part
// instance
type ModuleState struct {
	Selected      float64
	SelectedIndex int
	Current       float64
	DefaultScale  float64
	Free          bool
	Version       string
	DryCost       float64
	BaseScale     [3]float64
}

// Store is a handle on one save document
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the save document at path and ensures
// the schema exists
func Open(path string) (*Store, error) {
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open save %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS tech_unlocks (
			tech_id TEXT PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS part_scale (
			part_uid       TEXT PRIMARY KEY,
			selected       REAL NOT NULL,
			selected_index INTEGER NOT NULL,
			current        REAL NOT NULL,
			default_scale  REAL NOT NULL,
			free           INTEGER NOT NULL,
			version        TEXT NOT NULL,
			dry_cost       REAL NOT NULL,
			base_scale_x   REAL NOT NULL,
			base_scale_y   REAL NOT NULL,
			base_scale_z   REAL NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("migrate save schema: %w", err)
	}
	return nil
}

// Close releases the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// UnlockedTechs returns every unlocked requirement identifier.
// Implements techgate.Source.
func (s *Store) UnlockedTechs() ([]string, error) {
	rows, err := s.db.Query(`SELECT tech_id FROM tech_unlocks ORDER BY tech_id`)
	if err != nil {
		return nil, fmt.Errorf("query tech unlocks: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UnlockTech records a requirement as satisfied
func (s *Store) UnlockTech(id string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO tech_unlocks (tech_id) VALUES (?)`, id)
	if err != nil {
		return fmt.Errorf("unlock tech %s: %w", id, err)
	}
	return nil
}

// SaveModuleState upserts the scale state for one part instance
func (s *Store) SaveModuleState(partUID string, st ModuleState) error {
	_, err := s.db.Exec(`
		INSERT INTO part_scale (
			part_uid, selected, selected_index, current, default_scale,
			free, version, dry_cost, base_scale_x, base_scale_y, base_scale_z
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(part_uid) DO UPDATE SET
			selected = excluded.selected,
			selected_index = excluded.selected_index,
			current = excluded.current,
			default_scale = excluded.default_scale,
			free = excluded.free,
			version = excluded.version,
			dry_cost = excluded.dry_cost,
			base_scale_x = excluded.base_scale_x,
			base_scale_y = excluded.base_scale_y,
			base_scale_z = excluded.base_scale_z
	`, partUID, st.Selected, st.SelectedIndex, st.Current, st.DefaultScale,
		st.Free, st.Version, st.DryCost, st.BaseScale[0], st.BaseScale[1], st.BaseScale[2])
	if err != nil {
		return fmt.Errorf("save scale state for %s: %w", partUID, err)
	}
	return nil
}

// LoadModuleState reads the scale state for one part instance. The second
// return is false when no row exists.
func (s *Store) LoadModuleState(partUID string) (ModuleState, bool, error) {
	var st ModuleState
	row := s.db.QueryRow(`
		SELECT selected, selected_index, current, default_scale, free,
		       version, dry_cost, base_scale_x, base_scale_y, base_scale_z
		FROM part_scale WHERE part_uid = ?
	`, partUID)
	err := row.Scan(&st.Selected, &st.SelectedIndex, &st.Current, &st.DefaultScale,
		&st.Free, &st.Version, &st.DryCost, &st.BaseScale[0], &st.BaseScale[1], &st.BaseScale[2])
	if err == sql.ErrNoRows {
		return ModuleState{}, false, nil
	}
	if err != nil {
		return ModuleState{}, false, fmt.Errorf("load scale state for %s: %w", partUID, err)
	}
	return st, true, nil
}
