package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// Sheet names, in workbook order.
const (
	SheetUsers = "Users"
	SheetHome  = "Home"
	SheetAuto  = "Auto"
	SheetLife  = "Life"
)

type sheet struct {
	name   string
	header []any
	rows   [][]any
}

// XLSX writes snap to a workbook at path with one sheet for users and one
// per policy variant. Each sheet starts with a bold header row.
func XLSX(path string, snap Snapshot) (Result, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Result{}, fmt.Errorf("create dirs: %w: %w", types.ErrIO, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Result{}, fmt.Errorf("header style: %w", err)
	}

	for i, sh := range sheets(snap) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return Result{}, fmt.Errorf("sheet %s: %w", sh.name, err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return Result{}, fmt.Errorf("sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, bold); err != nil {
			return Result{}, err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return Result{}, fmt.Errorf("save %s: %w: %w", path, types.ErrIO, err)
	}
	return newResult(path, snap), nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
		return fmt.Errorf("sheet %s header: %w", sh.name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("sheet %s header style: %w", sh.name, err)
	}
	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sh.name, i+2, err)
		}
	}
	return nil
}

func sheets(snap Snapshot) []sheet {
	users := sheet{name: SheetUsers, header: []any{"Name", "Role"}}
	for _, u := range snap.Users {
		users.rows = append(users.rows, []any{u.Name, string(u.Role)})
	}

	homes, autos, lives := policiesOf(snap)

	home := sheet{name: SheetHome, header: []any{"Policy", "Holder", "Premium", "Area (m2)", "Contents value", "Address", "Construction year"}}
	for _, h := range homes {
		home.rows = append(home.rows, []any{h.ID, h.HolderID, h.Premium, h.AreaSqm, h.ContentsValue, h.Address, h.ConstructionYear})
	}

	auto := sheet{name: SheetAuto, header: []any{"Policy", "Holder", "Premium", "Description", "Fuel", "Vehicle", "Coverage", "Roadside assistance", "Claims"}}
	for _, a := range autos {
		auto.rows = append(auto.rows, []any{a.ID, a.HolderID, a.Premium, a.Description, a.FuelType, string(a.Vehicle), a.Coverage.Description(), a.RoadsideAssistance, a.ClaimCount})
	}

	life := sheet{name: SheetLife, header: []any{"Policy", "Holder", "Premium", "Birth date", "Risk", "Payout"}}
	for _, l := range lives {
		life.rows = append(life.rows, []any{l.ID, l.HolderID, l.Premium, l.BirthDate.Format(types.DateLayout), string(l.Risk), l.PayoutAmount})
	}

	return []sheet{users, home, auto, life}
}
