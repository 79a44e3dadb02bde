package report

import (
	"sort"
	"time"

	"store-dashboard-go/internal/models"
)

// Summary holds the headline totals for one reporting period.
type Summary struct {
	TotalSales     float64 `json:"total_sales"`
	TotalExpenses  float64 `json:"total_expenses"`
	NetProfit      float64 `json:"net_profit"`
	ROI            float64 `json:"roi"`
	Transactions   int     `json:"transactions"`
	AvgTransaction float64 `json:"avg_transaction"`
}

// DailyBucket holds the summed amounts for one calendar day.
type DailyBucket struct {
	Date      time.Time `json:"date"`
	Sales     float64   `json:"sales"`
	Expenses  float64   `json:"expenses"`
	Net       float64   `json:"net"`
	MarginPct float64   `json:"margin_pct"`
}

// BreakdownRow holds the aggregate figures for one category or item.
type BreakdownRow struct {
	Key             string  `json:"key"`
	Sales           float64 `json:"sales"`
	Quantity        int     `json:"quantity"`
	Transactions    int     `json:"transactions"`
	RevenueSharePct float64 `json:"revenue_share_pct"`
	AvgTransaction  float64 `json:"avg_transaction"`
}

// ExpenseTypeRow holds the aggregate figures for one expense type.
type ExpenseTypeRow struct {
	Key            string  `json:"key"`
	Amount         float64 `json:"amount"`
	Transactions   int     `json:"transactions"`
	SharePct       float64 `json:"share_pct"`
	AvgTransaction float64 `json:"avg_transaction"`
}

// Activity holds sales totals bucketed by hour of day and by weekday.
// Weekday indices follow time.Weekday (Sunday = 0).
type Activity struct {
	Hourly      [24]float64 `json:"hourly"`
	Weekday     [7]float64  `json:"weekday"`
	PeakHour    int         `json:"peak_hour"`
	PeakWeekday int         `json:"peak_weekday"`
}

// Delta compares one metric across two periods. When the previous value is
// exactly zero there is nothing meaningful to divide by, so the change is
// reported as new instead of a percentage.
type Delta struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Pct      float64 `json:"pct"`
	IsNew    bool    `json:"is_new"`
}

// Comparison holds the current period's totals against the immediately
// preceding period of equal length.
type Comparison struct {
	PreviousStart time.Time `json:"previous_start"`
	PreviousEnd   time.Time `json:"previous_end"`
	Sales         Delta     `json:"sales"`
	Expenses      Delta     `json:"expenses"`
	NetProfit     Delta     `json:"net_profit"`
}

// Summarize computes the period totals and derived ratios.
// ROI is defined as net profit over total expenses; it is zero, not an
// error, when the period has no expenses.
func Summarize(sales []models.Sale, expenses []models.Expense) Summary {
	var sum Summary
	for _, s := range sales {
		sum.TotalSales += s.TotalSale
		sum.Transactions++
	}
	for _, e := range expenses {
		sum.TotalExpenses += e.Amount
	}
	sum.NetProfit = sum.TotalSales - sum.TotalExpenses
	if sum.TotalExpenses > 0 {
		sum.ROI = sum.NetProfit / sum.TotalExpenses * 100
	}
	if sum.Transactions > 0 {
		sum.AvgTransaction = sum.TotalSales / float64(sum.Transactions)
	}
	return sum
}

// Day truncates a timestamp to its calendar day in UTC, the store's
// reference time zone.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DailySeries buckets sales and expenses by calendar day over [start, end].
// The series is continuous: every day of the range gets a bucket, zero-valued
// days included, so trend and forecast views always see a complete series.
func DailySeries(sales []models.Sale, expenses []models.Expense, start, end time.Time) []DailyBucket {
	first := Day(start)
	last := Day(end)
	if last.Before(first) {
		return []DailyBucket{}
	}

	salesByDay := make(map[time.Time]float64)
	for _, s := range sales {
		salesByDay[Day(s.Timestamp)] += s.TotalSale
	}
	expensesByDay := make(map[time.Time]float64)
	for _, e := range expenses {
		expensesByDay[Day(e.Timestamp)] += e.Amount
	}

	days := int(last.Sub(first).Hours()/24) + 1
	series := make([]DailyBucket, 0, days)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		b := DailyBucket{
			Date:     d,
			Sales:    salesByDay[d],
			Expenses: expensesByDay[d],
		}
		b.Net = b.Sales - b.Expenses
		if b.Sales > 0 {
			b.MarginPct = b.Net / b.Sales * 100
		}
		series = append(series, b)
	}
	return series
}

// CategoryBreakdown groups sales by category.
func CategoryBreakdown(sales []models.Sale) []BreakdownRow {
	return breakdown(sales, func(s models.Sale) string { return s.Category })
}

// ItemBreakdown groups sales by item name.
func ItemBreakdown(sales []models.Sale) []BreakdownRow {
	return breakdown(sales, func(s models.Sale) string { return s.ItemName })
}

// breakdown groups sales by an arbitrary key, summing amount, quantity and
// transaction count, and derives each key's share of the period's revenue.
// Rows are ordered by sales descending; equal sales order by key ascending,
// so the top row is deterministic.
func breakdown(sales []models.Sale, keyOf func(models.Sale) string) []BreakdownRow {
	byKey := make(map[string]*BreakdownRow)
	var total float64
	for _, s := range sales {
		key := keyOf(s)
		row, ok := byKey[key]
		if !ok {
			row = &BreakdownRow{Key: key}
			byKey[key] = row
		}
		row.Sales += s.TotalSale
		row.Quantity += s.QuantitySold
		row.Transactions++
		total += s.TotalSale
	}

	rows := make([]BreakdownRow, 0, len(byKey))
	for _, row := range byKey {
		if total > 0 {
			row.RevenueSharePct = row.Sales / total * 100
		}
		row.AvgTransaction = row.Sales / float64(row.Transactions)
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Sales != rows[j].Sales {
			return rows[i].Sales > rows[j].Sales
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// ExpenseTypeBreakdown groups expenses by type, summing amount and counting
// transactions, and derives each type's share of the period's spending.
// Ordering follows the sales breakdowns: amount descending, ties by key.
func ExpenseTypeBreakdown(expenses []models.Expense) []ExpenseTypeRow {
	byKey := make(map[string]*ExpenseTypeRow)
	var total float64
	for _, e := range expenses {
		row, ok := byKey[e.ExpenseType]
		if !ok {
			row = &ExpenseTypeRow{Key: e.ExpenseType}
			byKey[e.ExpenseType] = row
		}
		row.Amount += e.Amount
		row.Transactions++
		total += e.Amount
	}

	rows := make([]ExpenseTypeRow, 0, len(byKey))
	for _, row := range byKey {
		if total > 0 {
			row.SharePct = row.Amount / total * 100
		}
		row.AvgTransaction = row.Amount / float64(row.Transactions)
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount != rows[j].Amount {
			return rows[i].Amount > rows[j].Amount
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// ActivityProfile buckets sales by hour of day and weekday.
// Peak ties break toward the lowest bucket index.
func ActivityProfile(sales []models.Sale) Activity {
	var a Activity
	for _, s := range sales {
		ts := s.Timestamp.UTC()
		a.Hourly[ts.Hour()] += s.TotalSale
		a.Weekday[ts.Weekday()] += s.TotalSale
	}
	for h := 1; h < len(a.Hourly); h++ {
		if a.Hourly[h] > a.Hourly[a.PeakHour] {
			a.PeakHour = h
		}
	}
	for d := 1; d < len(a.Weekday); d++ {
		if a.Weekday[d] > a.Weekday[a.PeakWeekday] {
			a.PeakWeekday = d
		}
	}
	return a
}

// Compare derives the period-over-period deltas between two summaries.
func Compare(current, previous Summary, prevStart, prevEnd time.Time) Comparison {
	return Comparison{
		PreviousStart: prevStart,
		PreviousEnd:   prevEnd,
		Sales:         compareValue(current.TotalSales, previous.TotalSales),
		Expenses:      compareValue(current.TotalExpenses, previous.TotalExpenses),
		NetProfit:     compareValue(current.NetProfit, previous.NetProfit),
	}
}

func compareValue(current, previous float64) Delta {
	d := Delta{Current: current, Previous: previous}
	if previous == 0 {
		d.IsNew = true
		return d
	}
	d.Pct = (current - previous) / previous * 100
	return d
}
