package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/insights/internal/domain/entity"
	"github.com/finance-tracker/insights/internal/integration/persistence"
)

func registerInsightSteps(ctx *godog.ScenarioContext, t *testContext) {
	// User and profile setup steps
	ctx.Given(`^I am logged in as "([^"]*)"$`, t.iAmLoggedInAs)
	ctx.Given(`^my profile is a "([^"]*)" with "([^"]*)" stress$`, t.myProfileIsAWithStress)
	ctx.Given(`^my profile sends digests$`, t.myProfileSendsDigests)
	ctx.Given(`^my budget has a cash balance of "([^"]*)" and a monthly income of "([^"]*)"$`, t.myBudgetHasACashBalanceOf)
	ctx.Given(`^I spent "([^"]*)" on "([^"]*)" every day for the last (\d+) days$`, t.iSpentOnEveryDayForTheLastDays)
	ctx.Given(`^an insight from rule "([^"]*)" exists for me$`, t.anInsightFromRuleExistsForMe)

	// Background job steps
	ctx.Given(`^the current time is "([^"]*)"$`, t.theCurrentTimeIs)
	ctx.When(`^the scheduler runs$`, t.theSchedulerRuns)
	ctx.When(`^the email worker processes the queue$`, t.theEmailWorkerProcessesTheQueue)

	// Assertion steps
	ctx.Then(`^the insights should include rule "([^"]*)" with priority "([^"]*)"$`, t.theInsightsShouldIncludeRuleWithPriority)
	ctx.Then(`^the insights should not include rule "([^"]*)"$`, t.theInsightsShouldNotIncludeRule)
	ctx.Then(`^the email provider should have received (\d+) emails?$`, t.theEmailProviderShouldHaveReceivedEmails)
	ctx.Then(`^the email provider should have received an email for "([^"]*)"$`, t.theEmailProviderShouldHaveReceivedAnEmailFor)
}

// iAmLoggedInAs switches the current user, minting a token the API accepts.
func (t *testContext) iAmLoggedInAs(email string) error {
	userID, ok := t.users[email]
	if !ok {
		userID = uuid.New()
		t.users[email] = userID
	}
	t.currentUserID = userID
	t.currentEmail = email

	token, err := t.injector.TokenService.GenerateAccessToken(context.Background(), userID, email)
	if err != nil {
		return fmt.Errorf("failed to generate access token: %w", err)
	}
	t.accessToken = token
	return nil
}

func (t *testContext) myProfileIsAWithStress(personality, stress string) error {
	profile := entity.NewProfile(
		t.currentUserID,
		t.currentEmail,
		"Test User",
		entity.PersonalityType(personality),
		entity.StressLevel(stress),
	)
	return persistence.NewProfileRepository(t.db.DbConn).Upsert(context.Background(), profile)
}

func (t *testContext) myProfileSendsDigests() error {
	repo := persistence.NewProfileRepository(t.db.DbConn)
	profile, err := repo.FindByUserID(context.Background(), t.currentUserID)
	if err != nil {
		return fmt.Errorf("profile not found: %w", err)
	}
	profile.DigestEnabled = true
	return repo.Upsert(context.Background(), profile)
}

func (t *testContext) myBudgetHasACashBalanceOf(cash, income string) error {
	cashBalance, err := decimal.NewFromString(cash)
	if err != nil {
		return fmt.Errorf("invalid cash balance '%s': %w", cash, err)
	}
	monthlyIncome, err := decimal.NewFromString(income)
	if err != nil {
		return fmt.Errorf("invalid monthly income '%s': %w", income, err)
	}

	budget := entity.NewBudget(t.currentUserID, monthlyIncome, monthlyIncome.Mul(decimal.NewFromFloat(0.8)), monthlyIncome.Mul(decimal.NewFromFloat(0.1)))
	budget.CashBalance = cashBalance
	return persistence.NewBudgetRepository(t.db.DbConn).Upsert(context.Background(), budget)
}

func (t *testContext) iSpentOnEveryDayForTheLastDays(amount, category string, days int) error {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount '%s': %w", amount, err)
	}

	repo := persistence.NewTransactionRepository(t.db.DbConn)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < days; i++ {
		transaction := entity.NewTransaction(
			t.currentUserID,
			today.AddDate(0, 0, -i),
			value.Abs().Neg(),
			entity.TransactionTypeExpense,
			category,
			"",
		)
		if err := repo.Create(context.Background(), transaction); err != nil {
			return err
		}
	}
	return nil
}

func (t *testContext) anInsightFromRuleExistsForMe(ruleID string) error {
	insight := entity.NewInsight(
		ruleID,
		entity.InsightCategoryAnomaly,
		entity.InsightPriorityHigh,
		"Unusual spending detected",
		"Seeded for the scenario",
		"alert",
		time.Now().UTC(),
	)
	insight.UserID = t.currentUserID
	insight.SetExpiry(24 * time.Hour)

	if err := persistence.NewInsightRepository(t.db.DbConn).SaveInsights(context.Background(), []*entity.Insight{insight}); err != nil {
		return err
	}
	t.currentInsightID = insight.ID
	return nil
}

func (t *testContext) theCurrentTimeIs(value string) error {
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("invalid time '%s': %w", value, err)
	}
	t.timeMock.SetCurrentTime(now)
	return nil
}

func (t *testContext) theSchedulerRuns() error {
	t.injector.Scheduler.RunNow(context.Background(), t.timeMock.Now())
	return nil
}

func (t *testContext) theEmailWorkerProcessesTheQueue() error {
	t.injector.EmailWorker.ProcessNow(context.Background())
	return nil
}

func (t *testContext) responseInsights() ([]map[string]any, error) {
	body, err := t.responseObject()
	if err != nil {
		return nil, err
	}

	raw, ok := body["insights"].([]any)
	if !ok {
		return nil, fmt.Errorf("response has no insights list: %v", body)
	}

	insights := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if insight, ok := item.(map[string]any); ok {
			insights = append(insights, insight)
		}
	}
	return insights, nil
}

func (t *testContext) theInsightsShouldIncludeRuleWithPriority(ruleID, priority string) error {
	insights, err := t.responseInsights()
	if err != nil {
		return err
	}

	for _, insight := range insights {
		if insight["rule_id"] == ruleID {
			if insight["priority"] != priority {
				return fmt.Errorf("rule '%s' expected priority '%s', got '%v'", ruleID, priority, insight["priority"])
			}
			return nil
		}
	}
	return fmt.Errorf("no insight from rule '%s' in %v", ruleID, insights)
}

func (t *testContext) theInsightsShouldNotIncludeRule(ruleID string) error {
	insights, err := t.responseInsights()
	if err != nil {
		return err
	}

	for _, insight := range insights {
		if insight["rule_id"] == ruleID {
			return fmt.Errorf("unexpected insight from rule '%s': %v", ruleID, insight)
		}
	}
	return nil
}

func (t *testContext) sentEmails() []map[string]any {
	count := t.resend.RequestCount("POST", resendEmailPath)
	sent := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		sent = append(sent, t.resend.GetRequestBody("POST", resendEmailPath, i))
	}
	return sent
}

func (t *testContext) theEmailProviderShouldHaveReceivedEmails(quantity int) error {
	if sent := t.sentEmails(); len(sent) != quantity {
		return fmt.Errorf("expected %d emails, got %d", quantity, len(sent))
	}
	return nil
}

func (t *testContext) theEmailProviderShouldHaveReceivedAnEmailFor(address string) error {
	for i, body := range t.sentEmails() {
		recipients, _ := body["to"].([]any)
		for _, recipient := range recipients {
			if recipient != address {
				continue
			}
			headers := t.resend.GetRequestHeaders("POST", resendEmailPath, i)
			if headers["Authorization"] != "Bearer "+resendTestAPIKey {
				return fmt.Errorf("email to '%s' sent without the API key: %v", address, headers)
			}
			return nil
		}
	}
	return fmt.Errorf("no email sent to '%s'", address)
}
