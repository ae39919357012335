// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/insights/config"
	"github.com/finance-tracker/insights/internal/infra/dependency"
	"github.com/finance-tracker/insights/internal/integration/email"
	"github.com/finance-tracker/insights/internal/integration/persistence/model"
	"github.com/finance-tracker/insights/test/integration/mock"
)

const (
	testJWTSecret    = "test-jwt-secret-key-for-testing-purposes"
	resendTestAPIKey = "re_test_key"
	resendEmailPath  = "/emails"
)

type testContext struct {
	cfg      *config.Config
	server   *httptest.Server
	client   *http.Client
	injector *dependency.Injector
	headers  map[string]string
	response *response

	db       *mock.Db
	resend   *mock.ApiMock
	timeMock *mock.Time

	accessToken      string
	currentUserID    uuid.UUID
	currentEmail     string
	users            map[string]uuid.UUID
	currentInsightID uuid.UUID
}

type response struct {
	status int
	body   any
}

var resendMock *mock.ApiMock

// InitializeTestSuite sets up resources shared by every scenario.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)

		resendMock = mock.NewApiServer()
		resendMock.Start()
	})

	ctx.AfterSuite(func() {
		resendMock.Close()
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		client:   &http.Client{Timeout: 10 * time.Second},
		timeMock: mock.NewTime(),
		db: mock.NewDb("finance_insights", map[string]any{
			"profiles":        &model.ProfileModel{},
			"transactions":    &model.TransactionModel{},
			"budgets":         &model.BudgetModel{},
			"streaks":         &model.StreakModel{},
			"war_mode_status": &model.WarModeModel{},
			"insights":        &model.InsightModel{},
			"email_queue":     &model.EmailQueueModel{},
		}),
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, test.before()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		test.after()
		return ctx, nil
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	registerHTTPSteps(ctx, test)
	registerInsightSteps(ctx, test)
}

func (t *testContext) before() error {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.currentUserID = uuid.Nil
	t.currentEmail = ""
	t.users = make(map[string]uuid.UUID)
	t.currentInsightID = uuid.Nil
	t.timeMock.Reset()

	if err := t.db.ClearDB(); err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}

	redisClient := mock.NewRedis()
	if err := mock.ClearRedis(redisClient); err != nil {
		return fmt.Errorf("failed to clear redis: %w", err)
	}

	t.resend = resendMock
	t.resend.ClearResponses("POST", resendEmailPath)
	t.resend.SetResponse(-1, "POST", resendEmailPath, http.StatusOK, map[string]any{"id": "re_" + uuid.NewString()})

	t.cfg = config.Load()
	t.cfg.Server.Environment = "test"
	t.cfg.JWT.Secret = testJWTSecret
	t.cfg.JWT.AccessTokenExpiry = 15 * time.Minute
	t.cfg.Insights.CooldownEnabled = true
	t.cfg.Email.ResendBaseURL = t.resend.GetUrl()

	sender, err := email.NewResendClient(resendTestAPIKey, t.cfg.Email.FromName, t.cfg.Email.FromEmail).
		WithBaseURL(t.cfg.Email.ResendBaseURL)
	if err != nil {
		return err
	}

	injector, err := dependency.NewInjector(t.cfg, t.db.DbConn, redisClient, sender)
	if err != nil {
		return fmt.Errorf("failed to build dependencies: %w", err)
	}
	t.injector = injector
	t.server = httptest.NewServer(injector.Router.Setup(t.cfg.Server.Environment))

	return nil
}

func (t *testContext) after() {
	if t.server != nil {
		t.server.Close()
		t.server = nil
	}
}

func (t *testContext) theAPIServerIsRunning() error {
	resp, err := t.client.Get(t.server.URL + "/health")
	if err != nil {
		return fmt.Errorf("server is not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	return nil
}
