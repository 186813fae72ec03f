package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/earlystart/spendcast/internal/model"
	"github.com/earlystart/spendcast/internal/service"
)

// RenderResult formats a forecast result as styled terminal output: the
// summary scalars, a savings verdict, and the category breakdown sorted by
// total descending.
func RenderResult(res *service.Result) string {
	var b strings.Builder
	sum := res.Report.Summary

	b.WriteString(TitleStyle.Render("Forecast Summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Predicted annual spending: $%s\n", money(sum.TotalPredictedSpending1Yr))
	fmt.Fprintf(&b, "  Annual income:             $%s\n", money(sum.AnnualIncome))
	fmt.Fprintf(&b, "  Projected savings:         $%s\n", money(sum.ProjectedSavings))
	fmt.Fprintf(&b, "  Savings rate:              %.2f%%\n", sum.SavingsRate)
	fmt.Fprintf(&b, "  Avg monthly spending:      $%s\n", money(sum.AvgMonthlySpending))
	b.WriteString("\n")

	if sum.ProjectedSavings > 0 {
		b.WriteString(SuccessStyle.Render("On track to save money."))
	} else {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Projected overspend of $%s. Consider reducing expenses.", money(-sum.ProjectedSavings))))
	}
	b.WriteString("\n\n")

	if len(res.Report.Categories) > 0 {
		b.WriteString(TitleStyle.Render("Spending by Category"))
		b.WriteString("\n")

		type row struct {
			label string
			stat  model.CategoryStat
		}
		rows := make([]row, 0, len(res.Report.Categories))
		var grand float64
		for label, stat := range res.Report.Categories {
			rows = append(rows, row{label: label, stat: stat})
			grand += stat.Total
		}
		sort.Slice(rows, func(i, j int) bool {
			return rows[i].stat.Total > rows[j].stat.Total
		})

		for _, r := range rows {
			share := 0.0
			if grand > 0 {
				share = r.stat.Total / grand * 100
			}
			b.WriteString(BoldStyle.Render(strings.ToUpper(r.label)))
			b.WriteString("\n")
			fmt.Fprintf(&b, "  Total: $%s (%.1f%%)\n", money(r.stat.Total), share)
			b.WriteString(SubtleStyle.Render(fmt.Sprintf("  %d transactions, avg $%s each", r.stat.Count, money(r.stat.AvgPerTransaction))))
			b.WriteString("\n")
		}
	}

	if res.ChartPath != "" {
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("Chart saved to %s", res.ChartPath)))
		b.WriteString("\n")
	}
	if res.RenderErr != nil {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Chart could not be rendered: %v", res.RenderErr)))
		b.WriteString("\n")
	}

	return b.String()
}

func money(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	// Insert thousands separators into the integer part.
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]
	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 && c != '-' && intPart[i-1] != '-' {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out) + frac
}
