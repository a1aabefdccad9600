package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/fi-verse/internal/fqcd"
	"github.com/talgya/fi-verse/internal/phi"
)

// LastSnapshotKey is the meta key holding the id of the most recent save.
const LastSnapshotKey = "last_snapshot"

// Snapshot freezes one evaluation of the calculator.
type Snapshot struct {
	ID        uuid.UUID            `json:"id" yaml:"id"`
	Label     string               `json:"label" yaml:"label"`
	CreatedAt time.Time            `json:"created_at" yaml:"created_at"`
	Constants phi.Constants        `json:"constants" yaml:"constants"`
	OmegaM    float64              `json:"omega_m" yaml:"omega_m"`
	Curve     []fqcd.RotationPoint `json:"curve" yaml:"curve"`
	Hubble    []fqcd.Hubble        `json:"hubble" yaml:"hubble"`
}

// SnapshotSummary is a snapshot header without its series.
type SnapshotSummary struct {
	ID           uuid.UUID `json:"id" yaml:"id" db:"id"`
	Label        string    `json:"label" yaml:"label" db:"label"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at" db:"-"`
	CreatedMilli int64     `json:"-" yaml:"-" db:"created_at"`
	OmegaM       float64   `json:"omega_m" yaml:"omega_m" db:"omega_m"`
	CurvePoints  int       `json:"curve_points" yaml:"curve_points" db:"curve_points"`
	HubblePoints int       `json:"hubble_points" yaml:"hubble_points" db:"hubble_points"`
}

type snapshotRow struct {
	ID            uuid.UUID `db:"id"`
	Label         string    `db:"label"`
	CreatedAt     int64     `db:"created_at"`
	OmegaM        float64   `db:"omega_m"`
	ConstantsJSON string    `db:"constants_json"`
}

// Capture evaluates calc and returns an unsaved snapshot holding the rotation
// curve and the Hubble series sampled up to zMax.
func Capture(calc *fqcd.Calculator, label string, zMax, step float64) (*Snapshot, error) {
	hubble, err := calc.HubbleSeries(zMax, step)
	if err != nil {
		return nil, fmt.Errorf("hubble series: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("creating uuid: %w", err)
	}

	return &Snapshot{
		ID:        id,
		Label:     label,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Constants: calc.Constants(),
		OmegaM:    calc.OmegaMatter(),
		Curve:     calc.GenerateRotationCurve(),
		Hubble:    hubble,
	}, nil
}

// SaveSnapshot writes a snapshot and its series in one transaction.
func (db *DB) SaveSnapshot(ctx context.Context, s *Snapshot) error {
	constantsJSON, err := json.Marshal(s.Constants)
	if err != nil {
		return fmt.Errorf("marshal constants: %w", err)
	}

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO snapshots
		(id, label, created_at, omega_m, constants_json)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Label, s.CreatedAt.UnixMilli(), s.OmegaM, string(constantsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot %s: %w", s.ID, err)
	}

	curveStmt, err := tx.PreparexContext(ctx, `INSERT INTO rotation_points
		(snapshot_id, radius_kpc, v_newton, v_fqft, v_observed)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer curveStmt.Close()

	for _, p := range s.Curve {
		if _, err := curveStmt.ExecContext(ctx, s.ID, p.RadiusKpc, p.VNewton, p.VFqft, p.VObserved); err != nil {
			return fmt.Errorf("insert rotation point %v: %w", p.RadiusKpc, err)
		}
	}

	hubbleStmt, err := tx.PreparexContext(ctx, `INSERT INTO hubble_points
		(snapshot_id, z, h_lcdm, h_fqcd)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer hubbleStmt.Close()

	for _, h := range s.Hubble {
		if _, err := hubbleStmt.ExecContext(ctx, s.ID, h.Z, h.HLcdm, h.HFqcd); err != nil {
			return fmt.Errorf("insert hubble point %v: %w", h.Z, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		LastSnapshotKey, s.ID.String(),
	); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	logSaved(s)
	return nil
}

// LoadSnapshot returns the snapshot with the given id and its series.
func (db *DB) LoadSnapshot(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	var row snapshotRow
	err := db.conn.GetContext(ctx, &row,
		"SELECT id, label, created_at, omega_m, constants_json FROM snapshots WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}

	s := &Snapshot{
		ID:        row.ID,
		Label:     row.Label,
		CreatedAt: time.UnixMilli(row.CreatedAt).UTC(),
		OmegaM:    row.OmegaM,
	}
	if err := json.Unmarshal([]byte(row.ConstantsJSON), &s.Constants); err != nil {
		return nil, fmt.Errorf("unmarshal constants: %w", err)
	}

	err = db.conn.SelectContext(ctx, &s.Curve,
		`SELECT radius_kpc, v_newton, v_fqft, v_observed FROM rotation_points
		WHERE snapshot_id = ? ORDER BY radius_kpc`, id)
	if err != nil {
		return nil, fmt.Errorf("load rotation points: %w", err)
	}

	err = db.conn.SelectContext(ctx, &s.Hubble,
		"SELECT z, h_lcdm, h_fqcd FROM hubble_points WHERE snapshot_id = ? ORDER BY z", id)
	if err != nil {
		return nil, fmt.Errorf("load hubble points: %w", err)
	}

	return s, nil
}

// ListSnapshots returns up to limit snapshot headers, newest first.
func (db *DB) ListSnapshots(ctx context.Context, limit int) ([]SnapshotSummary, error) {
	var list []SnapshotSummary
	err := db.conn.SelectContext(ctx, &list, `SELECT s.id, s.label, s.created_at, s.omega_m,
		(SELECT COUNT(*) FROM rotation_points r WHERE r.snapshot_id = s.id) AS curve_points,
		(SELECT COUNT(*) FROM hubble_points h WHERE h.snapshot_id = s.id) AS hubble_points
		FROM snapshots s ORDER BY s.created_at DESC, s.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	for i := range list {
		list[i].CreatedAt = time.UnixMilli(list[i].CreatedMilli).UTC()
	}
	return list, nil
}

// DeleteSnapshot removes a snapshot and, by cascade, its series.
func (db *DB) DeleteSnapshot(ctx context.Context, id uuid.UUID) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	slog.Info("snapshot deleted", "id", id)
	return nil
}
