package output

import (
	"bytes"
	"fmt"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	p := report.Projection
	s := p.Summary

	fmt.Fprintln(&buf, "RETIREMENT PROJECTION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Ages %d-%d, retiring at %d\n", p.Input.CurrentAge, p.Input.MaxAge, p.Input.RetirementAge)
	fmt.Fprintf(&buf, "Starting Balance:   %s\n", FormatCurrency(s.StartingBalance))
	fmt.Fprintf(&buf, "At Retirement:      %s\n", FormatCurrency(s.ProjectedRetirementBalance))
	fmt.Fprintf(&buf, "Ending Balance:     %s\n", FormatCurrency(s.EndingBalance))
	fmt.Fprintf(&buf, "Contributions:      %s\n", FormatCurrency(s.TotalContributions))
	fmt.Fprintf(&buf, "Withdrawals:        %s\n", FormatCurrency(s.TotalWithdrawals))
	if s.YearsUntilDepletion != nil {
		fmt.Fprintf(&buf, "Depleted:           %d years after retirement (age %d)\n",
			*s.YearsUntilDepletion, p.Input.RetirementAge+*s.YearsUntilDepletion)
	} else {
		fmt.Fprintf(&buf, "Depleted:           never (through age %d)\n", p.Input.MaxAge)
	}

	if report.Sensitivity != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "TOP LEVERS")
		for _, lv := range report.Sensitivity.TopLevers {
			fmt.Fprintf(&buf, "  %-28s %s (%s)\n", lv.Label, FormatCurrency(lv.ImpactOnBalance), FormatPercentage(lv.PercentImpact))
		}
		for _, win := range report.LowFrictionWins {
			fmt.Fprintf(&buf, "  low-friction win: %s (%s effort, %s)\n", win.Label, win.Effort, FormatPercentage(win.PercentImpact))
		}
	}

	if report.Depletion != nil {
		d := report.Depletion
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "SPEND-DOWN PLAN")
		fmt.Fprintf(&buf, "  Portfolio:           %s\n", FormatCurrency(d.PortfolioValue))
		fmt.Fprintf(&buf, "  Protected Reserve:   %s\n", FormatCurrency(d.ReserveAmount))
		fmt.Fprintf(&buf, "  Sustainable:         %s/yr (%s/mo)\n",
			FormatCurrency(d.SustainableAnnualSpending), FormatCurrency(d.SustainableMonthlySpending))
		fmt.Fprintf(&buf, "  Planned:             %s/yr (%s)\n", FormatCurrency(d.PlannedAnnualSpending), d.TrajectoryStatus)
		for _, phase := range d.PhaseBreakdown {
			fmt.Fprintf(&buf, "  %-10s ages %d-%d (%d yrs) at %s/mo\n",
				phase.Phase, phase.StartAge, phase.EndAge, phase.YearsInPhase, FormatCurrency(phase.MonthlySpending))
		}
	}

	if report.Runway != nil {
		if report.Runway.Unlimited {
			fmt.Fprintf(&buf, "  Reserve Runway:      unlimited (reserve %s)\n", FormatCurrency(report.Runway.ReserveAmount))
		} else {
			fmt.Fprintf(&buf, "  Reserve Runway:      %d years (reserve %s)\n", report.Runway.Years, FormatCurrency(report.Runway.ReserveAmount))
		}
	}

	if report.IncomeFloor != nil {
		f := report.IncomeFloor
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "INCOME FLOOR")
		fmt.Fprintf(&buf, "  Guaranteed Income:   %s\n", FormatCurrency(f.GuaranteedIncomeAtRetirement))
		fmt.Fprintf(&buf, "  Essential Expenses:  %s\n", FormatCurrency(f.EssentialExpensesAtRetirement))
		fmt.Fprintf(&buf, "  Coverage:            %s (%s)\n", FormatRatio(f.CoverageRatioAtRetirement), f.Status)
		if f.FloorEstablishedAge != nil {
			fmt.Fprintf(&buf, "  Floor Established:   age %d\n", *f.FloorEstablishedAge)
		}
	}

	return buf.Bytes(), nil
}

// ConsoleVerboseFormatter adds the year-by-year record table to the summary.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console-verbose" }

func (c ConsoleVerboseFormatter) Format(report *Report) ([]byte, error) {
	summary, err := ConsoleFormatter{}.Format(report)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.Write(summary)
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "%-4s %-6s %14s %12s %12s %12s %12s %14s\n",
		"Age", "Year", "Balance", "Contrib", "Income", "Spending", "Withdrawal", "RMD Req")
	for _, rec := range report.Projection.Records {
		rmd := "-"
		if rec.RMD != nil {
			rmd = FormatCurrency(rec.RMD.Required)
		}
		fmt.Fprintf(&buf, "%-4d %-6d %14s %12s %12s %12s %12s %14s\n",
			rec.Age, rec.Year,
			FormatCurrency(rec.Balance),
			FormatCurrency(rec.Contribution),
			FormatCurrency(rec.Income),
			FormatCurrency(rec.TotalSpending()),
			FormatCurrency(rec.Withdrawal),
			rmd)
	}
	return buf.Bytes(), nil
}
