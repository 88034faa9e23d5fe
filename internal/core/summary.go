package core

// CategoryActual compares a category's monthly budget against what was
// actually spent in it.
type CategoryActual struct {
	Name        string
	Budget      Money
	Spent       Money
	UsedPercent string // decimal percentage with one fractional digit, "" when no budget
}

// MonthSummary is the aggregated view for a specific year+month.
type MonthSummary struct {
	Year         int
	Month        int // 1-12
	TotalIncome  Money
	TotalExpense Money
	Balance      Money
	ByCategory   []CategoryActual
}

// MonthTotal is one month's income/expense totals inside a yearly view.
type MonthTotal struct {
	Month   int // 1-12
	Income  Money
	Expense Money
}

// YearSummary is the per-month breakdown for a calendar year.
type YearSummary struct {
	Year   int
	Months []MonthTotal
}
