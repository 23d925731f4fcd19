package reports

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/granjadata/avicola_backend/models"
)

// FollowUpWorkbook renders every weekly follow-up of one broiler batch into
// a spreadsheet, weeks in order, one row per week.
func FollowUpWorkbook(ctx context.Context, broilerBatchId string) (*excelize.File, error) {
	batch, err := models.GetBroilerBatch(ctx, broilerBatchId)
	if err != nil {
		return nil, err
	}
	rows, err := models.ListFollowUpsByBatch(ctx, broilerBatchId)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	f.SetCellValue(sheet, "A1", "Batch")
	f.SetCellValue(sheet, "B1", "StartDate")
	f.SetCellValue(sheet, "C1", "State")
	f.SetCellValue(sheet, "A2", batch.ID)
	f.SetCellValue(sheet, "B2", batch.StartDate)
	f.SetCellValue(sheet, "C2", string(batch.State))

	f.SetCellValue(sheet, "A4", "Week")
	f.SetCellValue(sheet, "B4", "AvgWeightG")
	f.SetCellValue(sheet, "C4", "WeeklyMortality")
	f.SetCellValue(sheet, "D4", "WeeklyFeedKg")

	for i, row := range rows {
		line := fmt.Sprint(i + 5)
		f.SetCellValue(sheet, "A"+line, row.WeekNumber)
		if row.AvgWeightG != nil {
			value, _ := row.AvgWeightG.Float64()
			f.SetCellValue(sheet, "B"+line, value)
		}
		if row.WeeklyMortality != nil {
			f.SetCellValue(sheet, "C"+line, *row.WeeklyMortality)
		}
		if row.WeeklyFeedKg != nil {
			value, _ := row.WeeklyFeedKg.Float64()
			f.SetCellValue(sheet, "D"+line, value)
		}
	}

	return f, nil
}
