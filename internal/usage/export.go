package usage

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Uso"

var exportHeader = []interface{}{
	"ID", "Fecha", "Video", "URL", "Transcripción", "Resumen", "Duración (s)", "Tokens", "Costo (USD)",
}

// Export writes every entry to one sheet, header first, newest entry on row 2
func (l *implLedger) Export(ctx context.Context, path string) error {
	entries, err := l.Entries(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		row := []interface{}{
			e.ID, e.Timestamp, e.VideoTitle, e.VideoURL, e.TranscriptionProvider,
			e.SummaryProvider, e.AudioDurationSeconds, e.TokensUsed, e.CostUSD,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
