package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/cedricly-git/BADS-Capstone-repo/internal/model"
)

// ExportFilename returns the canonical export file name for a run date.
func ExportFilename(generatedAt time.Time, format string) string {
	return fmt.Sprintf("uber_eats_forecast_%s.%s", generatedAt.Format("20060102"), format)
}

// exportRow is the flat delimited export schema. Temperatures and
// precipitation are rounded to one decimal, demand to the nearest integer.
type exportRow struct {
	Date          string `csv:"Date"`
	Weekday       string `csv:"Weekday"`
	TempMax       string `csv:"Max Temp (C)"`
	TempMin       string `csv:"Min Temp (C)"`
	Precipitation string `csv:"Precipitation (mm)"`
	Demand        int64  `csv:"Predicted Demand"`
	Tier          string `csv:"Demand Tier"`
}

func exportRows(run *model.ForecastRun) []exportRow {
	rows := make([]exportRow, len(run.Days))
	for i, d := range run.Days {
		rows[i] = exportRow{
			Date:          d.Date.Format("2006-01-02"),
			Weekday:       d.Date.Weekday().String(),
			TempMax:       fmt.Sprintf("%.1f", d.TempMax),
			TempMin:       fmt.Sprintf("%.1f", d.TempMin),
			Precipitation: fmt.Sprintf("%.1f", d.Precipitation),
			Demand:        int64(math.Round(d.PredictedDemand)),
			Tier:          string(d.Tier),
		}
	}
	return rows
}

// WriteCSV writes the run's export table as CSV.
func WriteCSV(w io.Writer, run *model.ForecastRun) error {
	data, err := csvutil.Marshal(exportRows(run))
	if err != nil {
		return eris.Wrap(err, "report: marshal csv")
	}
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "report: write csv")
	}
	return nil
}

// WriteXLSX writes the run's export table as a single-sheet workbook.
func WriteXLSX(w io.Writer, run *model.ForecastRun) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Forecast")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Date", "Weekday", "Max Temp (C)", "Min Temp (C)", "Precipitation (mm)", "Predicted Demand", "Demand Tier"} {
		header.AddCell().SetString(h)
	}
	for _, r := range exportRows(run) {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Date)
		row.AddCell().SetString(r.Weekday)
		row.AddCell().SetString(r.TempMax)
		row.AddCell().SetString(r.TempMin)
		row.AddCell().SetString(r.Precipitation)
		row.AddCell().SetInt64(r.Demand)
		row.AddCell().SetString(r.Tier)
	}

	if err := file.Write(w); err != nil {
		return eris.Wrap(err, "report: write xlsx")
	}
	return nil
}
