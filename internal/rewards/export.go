package rewards

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const leaderboardSheet = "Leaderboard"

// ExportLeaderboard writes the full leaderboard for kind as an xlsx
// workbook.
func (s *Service) ExportLeaderboard(ctx context.Context, w io.Writer, kind Kind) error {
	entries, err := s.ranked(ctx, kind)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), leaderboardSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := []any{"Rank", "User ID", "Name", "Points", "Badges"}
	if err := f.SetSheetRow(leaderboardSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(leaderboardSheet, "A1", "E1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{i + 1, e.UserID, e.Name, e.TotalPoints, e.BadgeCount}
		if err := f.SetSheetRow(leaderboardSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(leaderboardSheet, "B", "C", 24); err != nil {
		return fmt.Errorf("column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
