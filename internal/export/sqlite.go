package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// SQLite writes snap to a new database at path, replacing any existing
// file only once the new database is complete. Dates are stored as ISO 8601
// text.
func SQLite(ctx context.Context, path string, snap Snapshot) (Result, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create dirs: %w: %w", types.ErrIO, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return Result{}, fmt.Errorf("create temp export: %w: %w", types.ErrIO, err)
	}
	tmpName := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return Result{}, fmt.Errorf("close temp export: %w: %w", types.ErrIO, err)
	}

	res := newResult(path, snap)
	if err := writeSQLite(ctx, tmpName, res, snap); err != nil {
		os.Remove(tmpName)
		return Result{}, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return Result{}, fmt.Errorf("replace %s: %w: %w", path, types.ErrIO, err)
	}
	return res, nil
}

func writeSQLite(ctx context.Context, path string, res Result, snap Snapshot) (retErr error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w: %w", types.ErrIO, err)
	}
	defer func() {
		if err := db.Close(); err != nil && retErr == nil {
			retErr = fmt.Errorf("close sqlite: %w: %w", types.ErrIO, err)
		}
	}()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w: %w", types.ErrIO, err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range schemaDDL {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w: %w", types.ErrIO, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO exports (export_id, created_at, user_count, policy_count) VALUES (?, ?, ?, ?)`,
		res.ID, res.CreatedAt.Format(time.RFC3339), res.Users, res.Policies); err != nil {
		return fmt.Errorf("insert export: %w: %w", types.ErrIO, err)
	}
	if err := insertUsers(ctx, tx, snap.Users); err != nil {
		return err
	}
	if err := insertPolicies(ctx, tx, snap); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w: %w", types.ErrIO, err)
	}
	return nil
}

func insertUsers(ctx context.Context, tx *sql.Tx, users []types.User) error {
	for _, u := range users {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (name, role) VALUES (?, ?)`, u.Name, string(u.Role)); err != nil {
			return fmt.Errorf("insert user %q: %w: %w", u.Name, types.ErrIO, err)
		}
	}
	return nil
}

func insertPolicies(ctx context.Context, tx *sql.Tx, snap Snapshot) error {
	for _, p := range snap.Policies {
		b := p.Base()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO policies (policy_id, variant, holder_id, premium) VALUES (?, ?, ?, ?)`,
			b.ID, string(p.Variant()), b.HolderID, b.Premium); err != nil {
			return fmt.Errorf("insert policy %d: %w: %w", b.ID, types.ErrIO, err)
		}
	}

	homes, autos, lives := policiesOf(snap)
	for _, h := range homes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO home_policies (policy_id, area_sqm, contents_value, address, construction_year) VALUES (?, ?, ?, ?, ?)`,
			h.ID, h.AreaSqm, h.ContentsValue, h.Address, h.ConstructionYear); err != nil {
			return fmt.Errorf("insert home policy %d: %w: %w", h.ID, types.ErrIO, err)
		}
	}
	for _, a := range autos {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO auto_policies (policy_id, description, fuel_type, vehicle, coverage, roadside_assistance, claim_count) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Description, a.FuelType, string(a.Vehicle), string(a.Coverage), a.RoadsideAssistance, a.ClaimCount); err != nil {
			return fmt.Errorf("insert auto policy %d: %w: %w", a.ID, types.ErrIO, err)
		}
	}
	for _, l := range lives {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO life_policies (policy_id, birth_date, risk, payout_amount) VALUES (?, ?, ?, ?)`,
			l.ID, l.BirthDate.Format(time.DateOnly), string(l.Risk), l.PayoutAmount); err != nil {
			return fmt.Errorf("insert life policy %d: %w: %w", l.ID, types.ErrIO, err)
		}
	}
	return nil
}
