package rule

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/domain/valueobject"
)

// testNow is mid-March: 31-day month, 16 days left after today.
var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func saverProfile() *entity.Profile {
	return entity.NewProfile(uuid.New(), "ana@example.com", "Ana", entity.PersonalitySaver, entity.StressLevelMedium)
}

func spendOn(date time.Time, amount, category, note string) *entity.Transaction {
	return entity.NewTransaction(uuid.Nil, date, dec(amount).Neg(), entity.TransactionTypeExpense, category, note)
}

func spend(daysAgo int, amount, category string) *entity.Transaction {
	return spendOn(testNow.AddDate(0, 0, -daysAgo), amount, category, "")
}

func earn(daysAgo int, amount string) *entity.Transaction {
	return entity.NewTransaction(uuid.Nil, testNow.AddDate(0, 0, -daysAgo), dec(amount), entity.TransactionTypeIncome, "salary", "")
}

func budgetOf(income, monthly string) *entity.Budget {
	return entity.NewBudget(uuid.New(), dec(income), dec(monthly), decimal.Zero)
}

func contextWith(txns []*entity.Transaction, budget *entity.Budget) *Context {
	return NewContext(saverProfile(), testNow, txns, budget, nil, nil)
}

func defaultConfig() valueobject.RuleConfig {
	return valueobject.DefaultRuleConfig()
}
