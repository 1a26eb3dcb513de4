// Package cli renders portfolio data as terminal tables, the interactive
// surface of the tracker.
package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"golang-portfolio-tracker/internal/entity"
	"golang-portfolio-tracker/internal/tracker/dto"
)

// Printer writes formatted tables to an output stream.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// signedMoney colors gains green and losses red, like the original tool did.
func signedMoney(v float64) string {
	if v >= 0 {
		return color.GreenString("%.2f", v)
	}
	return color.RedString("%.2f", v)
}

func signedPercent(v float64) string {
	if v >= 0 {
		return color.GreenString("%.2f%%", v)
	}
	return color.RedString("%.2f%%", v)
}

func holdingRow(v entity.StockValuation) []string {
	price, value, gainLoss, pct := "n/a", "n/a", "n/a", "n/a"
	if v.Priced() {
		price = fmt.Sprintf("%.2f", *v.CurrentPrice)
		value = fmt.Sprintf("%.2f", *v.CurrentValue)
		gainLoss = signedMoney(*v.GainLoss)
		if v.GainLossPercent != nil {
			pct = signedPercent(*v.GainLossPercent)
		}
	}

	breached := ""
	if v.Stock.Breached {
		breached = color.RedString("BREACHED")
	}

	return []string{
		v.Stock.Symbol,
		v.Stock.CompanyName,
		fmt.Sprintf("%g", v.Stock.Quantity),
		fmt.Sprintf("%.2f", v.Stock.PurchasePrice),
		price,
		value,
		gainLoss,
		pct,
		fmt.Sprintf("%.2f", v.Stock.LossThreshold),
		breached,
	}
}

// PrintHoldings renders the holdings table.
func (p *Printer) PrintHoldings(valuations []entity.StockValuation) {
	if len(valuations) == 0 {
		fmt.Fprintln(p.out, "No stocks in portfolio.")
		return
	}

	table := tablewriter.NewWriter(p.out)
	table.SetHeader([]string{"Symbol", "Name", "Shares", "Purchase", "Current", "Value", "P/L", "P/L %", "Threshold", ""})
	for _, v := range valuations {
		table.Append(holdingRow(v))
	}
	table.Render()
}

// PrintHolding renders a single holding.
func (p *Printer) PrintHolding(v *entity.StockValuation) {
	p.PrintHoldings([]entity.StockValuation{*v})
}

// PrintSummary renders the holdings table followed by the aggregate block.
func (p *Printer) PrintSummary(summary *entity.PortfolioSummary) {
	if len(summary.Holdings) == 0 {
		fmt.Fprintln(p.out, "No stocks in portfolio.")
		return
	}

	p.PrintHoldings(summary.Holdings)

	table := tablewriter.NewWriter(p.out)
	table.Append([]string{"Total Portfolio Value", fmt.Sprintf("%.2f", summary.TotalValue)})
	table.Append([]string{"Total Investment", fmt.Sprintf("%.2f", summary.TotalCostBasis)})
	table.Append([]string{"Total Profit/Loss", signedMoney(summary.TotalGainLoss)})
	table.Append([]string{"Percentage Profit/Loss", signedPercent(summary.GainLossPercent)})
	table.Append([]string{"Average Purchase Price", fmt.Sprintf("%.2f", summary.AvgPurchasePrice)})
	table.Append([]string{"Average Current Price", fmt.Sprintf("%.2f", summary.AvgCurrentPrice)})
	if summary.Best != nil {
		table.Append([]string{"Highest Performing Stock", fmt.Sprintf("%s (%s)", summary.Best.Symbol, signedMoney(summary.Best.GainLoss))})
	}
	if summary.Worst != nil {
		table.Append([]string{"Lowest Performing Stock", fmt.Sprintf("%s (%s)", summary.Worst.Symbol, signedMoney(summary.Worst.GainLoss))})
	}

	fmt.Fprintln(p.out, "\nSummary:")
	table.Render()
}

// PrintQuote renders a search result.
func (p *Printer) PrintQuote(q *dto.QuoteResult) {
	table := tablewriter.NewWriter(p.out)
	table.SetHeader([]string{"Symbol", "Name", "Current Price"})
	table.Append([]string{q.Symbol, q.CompanyName, fmt.Sprintf("%.2f", q.CurrentPrice)})
	table.Render()
}

// PrintPatterns renders detected chart patterns for a symbol.
func (p *Printer) PrintPatterns(data *dto.ChartData) {
	if len(data.Patterns) == 0 {
		fmt.Fprintf(p.out, "No patterns detected over %d bars.\n", len(data.Bars))
		return
	}

	table := tablewriter.NewWriter(p.out)
	table.SetHeader([]string{"Time", "Pattern", "Direction", "Close"})
	for _, match := range data.Patterns {
		bar := data.Bars[match.BarIndex]
		table.Append([]string{
			bar.Timestamp.Format("2006-01-02 15:04"),
			string(match.Kind),
			string(match.Direction),
			fmt.Sprintf("%.2f", bar.Close),
		})
	}
	table.Render()
}
