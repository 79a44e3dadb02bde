// Package export serializes report outputs as CSV. It is a pure formatting
// layer: nothing here touches the store.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"store-dashboard-go/internal/models"
	"store-dashboard-go/internal/report"
)

// WriteSales writes one row per sale with the columns the dashboard's sales
// download has always used.
func WriteSales(w io.Writer, sales []models.Sale) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Time", "Item", "Category", "Quantity", "Price per Unit", "Total Sale"}); err != nil {
		return err
	}
	for _, s := range sales {
		record := []string{
			s.Timestamp.UTC().Format("2006-01-02"),
			s.Timestamp.UTC().Format("15:04:05"),
			s.ItemName,
			s.Category,
			fmt.Sprintf("%d", s.QuantitySold),
			fmt.Sprintf("%.2f", s.PricePerUnit),
			fmt.Sprintf("%.2f", s.TotalSale),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExpenses writes one row per expense.
func WriteExpenses(w io.Writer, expenses []models.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Time", "Type", "Amount", "Description"}); err != nil {
		return err
	}
	for _, e := range expenses {
		record := []string{
			e.Timestamp.UTC().Format("2006-01-02"),
			e.Timestamp.UTC().Format("15:04:05"),
			e.ExpenseType,
			fmt.Sprintf("%.2f", e.Amount),
			e.Description,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes the period's headline metrics as Metric/Value pairs.
func WriteSummary(w io.Writer, sum report.Summary, currency string) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"Metric", "Value"},
		{"Total Sales", fmt.Sprintf("%.2f %s", sum.TotalSales, currency)},
		{"Total Expenses", fmt.Sprintf("%.2f %s", sum.TotalExpenses, currency)},
		{"Net Profit", fmt.Sprintf("%.2f %s", sum.NetProfit, currency)},
		{"ROI (%)", fmt.Sprintf("%.2f%%", sum.ROI)},
		{"Total Transactions", fmt.Sprintf("%d", sum.Transactions)},
		{"Average Transaction", fmt.Sprintf("%.2f %s", sum.AvgTransaction, currency)},
	}
	for _, r := range rows {
		if err := cw.Write(r); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
