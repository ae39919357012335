// Package rule implements the behavioral rules and the read-only context they evaluate against.
package rule

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
)

// Default thresholds for the trend helpers.
const (
	DefaultTrendUpThreshold   = 1.2
	DefaultTrendDownThreshold = 0.8

	trendWindowDays = 7
)

// Context is a read-only snapshot of a user's financial data for one evaluation batch.
// It is built fresh per batch and never mutated by rules.
type Context struct {
	Profile      *entity.Profile
	Now          time.Time
	Transactions []*entity.Transaction
	Budget       *entity.Budget
	Streak       *entity.Streak
	WarMode      *entity.WarModeStatus

	groupOnce  sync.Once
	byCategory map[string][]*entity.Transaction
}

// NewContext creates a context snapshot. Budget, streak and war-mode status are optional.
func NewContext(
	profile *entity.Profile,
	now time.Time,
	transactions []*entity.Transaction,
	budget *entity.Budget,
	streak *entity.Streak,
	warMode *entity.WarModeStatus,
) *Context {
	return &Context{
		Profile:      profile,
		Now:          now,
		Transactions: transactions,
		Budget:       budget,
		Streak:       streak,
		WarMode:      warMode,
	}
}

// WithProfile returns a new context over the same data bound to another profile.
func (c *Context) WithProfile(profile *entity.Profile) *Context {
	return NewContext(profile, c.Now, c.Transactions, c.Budget, c.Streak, c.WarMode)
}

// Today returns the start of the current day.
func (c *Context) Today() time.Time {
	return startOfDay(c.Now, c.Now.Location())
}

// StartOfMonth returns the first day of the current month.
func (c *Context) StartOfMonth() time.Time {
	return time.Date(c.Now.Year(), c.Now.Month(), 1, 0, 0, 0, 0, c.Now.Location())
}

// DaysLeftInMonth returns the number of days after today in the current month.
func (c *Context) DaysLeftInMonth() int {
	return entity.DaysInMonth(c.Now) - c.Now.Day()
}

// DailyBudget returns the nominal daily allowance, or false when no budget is configured.
func (c *Context) DailyBudget() (decimal.Decimal, bool) {
	if c.Budget == nil || !c.Budget.MonthlyBudget.IsPositive() {
		return decimal.Zero, false
	}
	return c.Budget.DailyBudget(c.Now), true
}

// TransactionsByCategory returns the transactions of a category in source order.
// The category index is built once per context.
func (c *Context) TransactionsByCategory(category string) []*entity.Transaction {
	c.groupOnce.Do(func() {
		c.byCategory = make(map[string][]*entity.Transaction)
		for _, t := range c.Transactions {
			c.byCategory[t.Category] = append(c.byCategory[t.Category], t)
		}
	})
	return c.byCategory[category]
}

// TransactionsInDateRange returns transactions dated between start and end,
// inclusive on both ends, compared at day granularity.
func (c *Context) TransactionsInDateRange(start, end time.Time) []*entity.Transaction {
	loc := c.Now.Location()
	from := startOfDay(start, loc)
	to := startOfDay(end, loc)

	var result []*entity.Transaction
	for _, t := range c.Transactions {
		day := startOfDay(t.Date, loc)
		if day.Before(from) || day.After(to) {
			continue
		}
		result = append(result, t)
	}
	return result
}

// TotalSpentInPeriod sums expense amounts in the range.
// Amounts keep their sign, so with negative expenses the total is negative.
func (c *Context) TotalSpentInPeriod(start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, t := range c.TransactionsInDateRange(start, end) {
		if t.IsExpense() {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// TotalIncomeInPeriod sums income amounts in the range.
func (c *Context) TotalIncomeInPeriod(start, end time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, t := range c.TransactionsInDateRange(start, end) {
		if t.IsIncome() {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// AverageDailySpend divides the total spent in the trailing window of days
// (today included) by days. The result carries the sign of TotalSpentInPeriod.
func (c *Context) AverageDailySpend(days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	today := c.Today()
	start := today.AddDate(0, 0, -(days - 1))
	return c.TotalSpentInPeriod(start, today).Div(decimal.NewFromInt(int64(days)))
}

// MonthToDateSpent returns the magnitude spent since the first of the month.
func (c *Context) MonthToDateSpent() decimal.Decimal {
	return c.TotalSpentInPeriod(c.StartOfMonth(), c.Today()).Abs()
}

// Expenses returns every expense transaction in source order.
func (c *Context) Expenses() []*entity.Transaction {
	var result []*entity.Transaction
	for _, t := range c.Transactions {
		if t.IsExpense() {
			result = append(result, t)
		}
	}
	return result
}

// CategorySpent returns the expense magnitude of a category in the range.
func (c *Context) CategorySpent(category string, start, end time.Time) decimal.Decimal {
	loc := c.Now.Location()
	from := startOfDay(start, loc)
	to := startOfDay(end, loc)

	total := decimal.Zero
	for _, t := range c.TransactionsByCategory(category) {
		if !t.IsExpense() {
			continue
		}
		day := startOfDay(t.Date, loc)
		if day.Before(from) || day.After(to) {
			continue
		}
		total = total.Add(t.Magnitude())
	}
	return total
}

// CategoryBreakdown returns expense magnitude per category in the range.
func (c *Context) CategoryBreakdown(start, end time.Time) map[string]decimal.Decimal {
	breakdown := make(map[string]decimal.Decimal)
	for _, t := range c.TransactionsInDateRange(start, end) {
		if !t.IsExpense() {
			continue
		}
		breakdown[t.Category] = breakdown[t.Category].Add(t.Magnitude())
	}
	return breakdown
}

// Categories returns the distinct categories with expenses, sorted by name.
func (c *Context) Categories() []string {
	seen := make(map[string]bool)
	var result []string
	for _, t := range c.Transactions {
		if t.IsExpense() && !seen[t.Category] {
			seen[t.Category] = true
			result = append(result, t.Category)
		}
	}
	sort.Strings(result)
	return result
}

// trendWindows returns spend in the most recent 7 days and the 7 days before.
func (c *Context) trendWindows(category string) (current, previous decimal.Decimal) {
	today := c.Today()
	currentStart := today.AddDate(0, 0, -(trendWindowDays - 1))
	previousEnd := currentStart.AddDate(0, 0, -1)
	previousStart := previousEnd.AddDate(0, 0, -(trendWindowDays - 1))

	current = c.CategorySpent(category, currentStart, today)
	previous = c.CategorySpent(category, previousStart, previousEnd)
	return current, previous
}

// CategoryTrendRatio returns current/previous 7-day spend for a category.
// The second value is false when the previous window is empty.
func (c *Context) CategoryTrendRatio(category string) (float64, bool) {
	current, previous := c.trendWindows(category)
	if previous.IsZero() {
		return 0, false
	}
	return current.Div(previous).InexactFloat64(), true
}

// IsCategoryTrendingUp reports whether the last 7 days outspent the prior 7 days
// by more than threshold. With no prior spend any current spend counts as a rise.
// A non-positive threshold falls back to DefaultTrendUpThreshold.
func (c *Context) IsCategoryTrendingUp(category string, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultTrendUpThreshold
	}
	current, previous := c.trendWindows(category)
	if previous.IsZero() {
		return current.IsPositive()
	}
	return current.Div(previous).InexactFloat64() > threshold
}

// IsCategoryTrendingDown reports whether the last 7 days spent less than
// threshold times the prior 7 days. It is always false with no prior spend.
func (c *Context) IsCategoryTrendingDown(category string, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultTrendDownThreshold
	}
	current, previous := c.trendWindows(category)
	if previous.IsZero() {
		return false
	}
	return current.Div(previous).InexactFloat64() < threshold
}

// TopCategory returns the category with the largest expense magnitude in the range.
// Ties resolve to the alphabetically first category.
func (c *Context) TopCategory(start, end time.Time) (string, bool) {
	breakdown := c.CategoryBreakdown(start, end)
	if len(breakdown) == 0 {
		return "", false
	}

	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Strings(names)

	top := names[0]
	for _, name := range names[1:] {
		if breakdown[name].GreaterThan(breakdown[top]) {
			top = name
		}
	}
	return top, true
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
