package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"jupiter-cli/internal/model"

	_ "modernc.org/sqlite"
)

// ErrNotSynced is returned when the mirror has never been filled from the backend.
var ErrNotSynced = errors.New("local mirror is empty; run `jupiter sync` first")

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL: the TUI and one-off CLI invocations may hold the file at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS home_config (
			ref_id TEXT PRIMARY KEY,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS home_tabs (
			ref_id TEXT PRIMARY KEY,
			target TEXT NOT NULL,
			archived INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_home_tabs_target ON home_tabs(target);`,
		`CREATE TABLE IF NOT EXISTS home_widgets (
			ref_id TEXT PRIMARY KEY,
			home_tab_ref_id TEXT NOT NULL,
			archived INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_home_widgets_tab ON home_widgets(home_tab_ref_id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the mirror. It returns ErrNotSynced when no home config is stored.
func (s Store) Load(ctx context.Context) (*Mirror, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	m := &Mirror{Tabs: []model.HomeTab{}, Widgets: []model.HomeWidget{}}

	var cfgJSON string
	err = db.QueryRowContext(ctx, `SELECT json FROM home_config ORDER BY updated_at_unixms DESC LIMIT 1`).Scan(&cfgJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotSynced
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cfgJSON), &m.HomeConfig); err != nil {
		return nil, fmt.Errorf("decode home config: %w", err)
	}

	if err := scanJSONRows(ctx, db, `SELECT json FROM home_tabs ORDER BY ref_id`, func(raw []byte) error {
		var t model.HomeTab
		if err := json.Unmarshal(raw, &t); err != nil {
			return fmt.Errorf("decode home tab: %w", err)
		}
		m.Tabs = append(m.Tabs, t)
		return nil
	}); err != nil {
		return nil, err
	}
	if err := scanJSONRows(ctx, db, `SELECT json FROM home_widgets ORDER BY ref_id`, func(raw []byte) error {
		var w model.HomeWidget
		if err := json.Unmarshal(raw, &w); err != nil {
			return fmt.Errorf("decode home widget: %w", err)
		}
		m.Widgets = append(m.Widgets, w)
		return nil
	}); err != nil {
		return nil, err
	}

	if v, ok, err := getMeta(ctx, db, "last_synced_at_unixms"); err != nil {
		return nil, err
	} else if ok {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			m.LastSyncedAt = time.UnixMilli(ms).UTC()
		}
	}
	return m, nil
}

// Replace overwrites the whole mirror in one transaction.
func (s Store) Replace(ctx context.Context, m *Mirror) error {
	if m == nil {
		return errors.New("nil mirror")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range []string{"home_config", "home_tabs", "home_widgets"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()
	if err := putHomeConfig(ctx, tx, m.HomeConfig, nowMs); err != nil {
		return err
	}
	for _, t := range m.Tabs {
		if err := putHomeTab(ctx, tx, t, nowMs); err != nil {
			return err
		}
	}
	for _, w := range m.Widgets {
		raw, err := json.Marshal(w)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO home_widgets(ref_id, home_tab_ref_id, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			string(w.RefID), string(w.HomeTabRefID), boolToInt(w.Archived), string(raw), nowMs); err != nil {
			return err
		}
	}

	synced := m.LastSyncedAt
	if synced.IsZero() {
		synced = time.Now().UTC()
	}
	if err := putMeta(ctx, tx, "last_synced_at_unixms", strconv.FormatInt(synced.UnixMilli(), 10)); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveTabOrder rewrites the stored order list for one target.
func (s Store) SaveTabOrder(ctx context.Context, target model.HomeTabTarget, order []model.EntityID) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT json FROM home_config ORDER BY updated_at_unixms DESC LIMIT 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotSynced
	}
	if err != nil {
		return err
	}
	var cfg model.HomeConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return fmt.Errorf("decode home config: %w", err)
	}
	next := make(map[model.HomeTabTarget][]model.EntityID, len(cfg.OrderOfTabs)+1)
	for k, v := range cfg.OrderOfTabs {
		next[k] = v
	}
	next[target] = append([]model.EntityID{}, order...)
	cfg.OrderOfTabs = next

	if err := putHomeConfig(ctx, tx, cfg, time.Now().UTC().UnixMilli()); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveWidgetPlacement rewrites the stored widget placement for one tab.
func (s Store) SaveWidgetPlacement(ctx context.Context, tabRefID model.EntityID, p model.WidgetPlacement) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT json FROM home_tabs WHERE ref_id = ?`, string(tabRefID)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("home tab not found: %s", tabRefID)
	}
	if err != nil {
		return err
	}
	var t model.HomeTab
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return fmt.Errorf("decode home tab: %w", err)
	}
	t.WidgetPlacement = p.Clone()
	if err := putHomeTab(ctx, tx, t, time.Now().UTC().UnixMilli()); err != nil {
		return err
	}
	return tx.Commit()
}

func putHomeConfig(ctx context.Context, tx *sql.Tx, cfg model.HomeConfig, nowMs int64) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO home_config(ref_id, json, updated_at_unixms) VALUES(?, ?, ?)`,
		string(cfg.RefID), string(raw), nowMs)
	return err
}

func putHomeTab(ctx context.Context, tx *sql.Tx, t model.HomeTab, nowMs int64) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO home_tabs(ref_id, target, archived, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		string(t.RefID), string(t.Target), boolToInt(t.Archived), string(raw), nowMs)
	return err
}

func putMeta(ctx context.Context, tx *sql.Tx, k, v string) error {
	_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, k, strings.TrimSpace(v))
	return err
}

func getMeta(ctx context.Context, db *sql.DB, k string) (string, bool, error) {
	var v string
	err := db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func scanJSONRows(ctx context.Context, db *sql.DB, query string, fn func([]byte) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		if err := fn([]byte(raw)); err != nil {
			return err
		}
	}
	return rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
