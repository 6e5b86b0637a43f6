package output

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// CSVFormatter exports the year-by-year record sequence, one row per year.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"Age", "Year", "BeginningBalance", "EndingBalance",
		"TaxDeferred", "TaxFree", "Taxable",
		"Contribution", "Income", "Surplus",
		"Expenses", "Healthcare", "DebtPayments", "Withdrawal",
		"RMDRequired", "RMDTaken", "IsRetired",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, rec := range report.Projection.Records {
		rmdRequired, rmdTaken := "", ""
		if rec.RMD != nil {
			rmdRequired = rec.RMD.Required.StringFixed(2)
			rmdTaken = rec.RMD.Taken.StringFixed(2)
		}
		row := []string{
			strconv.Itoa(rec.Age),
			strconv.Itoa(rec.Year),
			rec.BeginningBalance.StringFixed(2),
			rec.Balance.StringFixed(2),
			rec.BalancesByType.TaxDeferred.StringFixed(2),
			rec.BalancesByType.TaxFree.StringFixed(2),
			rec.BalancesByType.Taxable.StringFixed(2),
			rec.Contribution.StringFixed(2),
			rec.Income.StringFixed(2),
			rec.Surplus.StringFixed(2),
			rec.Expenses.StringFixed(2),
			rec.HealthcareExpenses.StringFixed(2),
			rec.DebtPayments.StringFixed(2),
			rec.Withdrawal.StringFixed(2),
			rmdRequired,
			rmdTaken,
			strconv.FormatBool(rec.IsRetired),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
