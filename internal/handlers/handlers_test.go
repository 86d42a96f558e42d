package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// injectUserID stands in for the auth middleware in tests.
func injectUserID(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Errorf("expected status %d, got %d (body %s)", wantStatus, w.Code, w.Body.String())
	}
	var resp ErrorResponse
	parseJSON(t, w, &resp)
	if resp.Error.Code != wantCode {
		t.Errorf("expected error code %s, got %s", wantCode, resp.Error.Code)
	}
}

// mockUserService implements services.UserServicer with overridable functions.
type mockUserService struct {
	registerFn            func(username, email, password string) (*models.User, error)
	authenticateFn        func(email, password string) (*models.User, error)
	getUserByIDFn         func(id string) (*models.User, error)
	storeRefreshTokenFn   func(userID, tokenHash string) error
	getRefreshTokenHashFn func(userID string) (string, error)
}

func (m *mockUserService) Register(username, email, password string) (*models.User, error) {
	return m.registerFn(username, email, password)
}

func (m *mockUserService) Authenticate(email, password string) (*models.User, error) {
	return m.authenticateFn(email, password)
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	return m.getUserByIDFn(id)
}

func (m *mockUserService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if m.storeRefreshTokenFn == nil {
		return nil
	}
	return m.storeRefreshTokenFn(userID, tokenHash)
}

func (m *mockUserService) GetRefreshTokenHash(userID string) (string, error) {
	return m.getRefreshTokenHashFn(userID)
}

// mockCategoryService implements services.CategoryServicer.
type mockCategoryService struct {
	getOrCreateFn       func(tx *gorm.DB, userID, name string) (*models.Category, error)
	getUserCategoriesFn func(userID string) ([]models.Category, error)
}

func (m *mockCategoryService) GetOrCreate(tx *gorm.DB, userID, name string) (*models.Category, error) {
	return m.getOrCreateFn(tx, userID, name)
}

func (m *mockCategoryService) GetUserCategories(userID string) ([]models.Category, error) {
	return m.getUserCategoriesFn(userID)
}

// mockTransactionService implements services.TransactionServicer.
type mockTransactionService struct {
	createFn func(userID string, transactionType models.TransactionType, amount decimal.Decimal, date time.Time, description, categoryName string) (*models.Transaction, error)
	listFn   func(userID string, filter services.TransactionFilter) ([]models.Transaction, error)
	getFn    func(userID, transactionID string) (*models.Transaction, error)
	updateFn func(userID, transactionID string, transactionType models.TransactionType, amount decimal.Decimal, date time.Time, description, categoryName string) (*models.Transaction, error)
	deleteFn func(userID, transactionID string) error
}

func (m *mockTransactionService) CreateTransaction(userID string, transactionType models.TransactionType, amount decimal.Decimal, date time.Time, description, categoryName string) (*models.Transaction, error) {
	return m.createFn(userID, transactionType, amount, date, description, categoryName)
}

func (m *mockTransactionService) GetUserTransactions(userID string, filter services.TransactionFilter) ([]models.Transaction, error) {
	return m.listFn(userID, filter)
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	return m.getFn(userID, transactionID)
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID string, transactionType models.TransactionType, amount decimal.Decimal, date time.Time, description, categoryName string) (*models.Transaction, error) {
	return m.updateFn(userID, transactionID, transactionType, amount, date, description, categoryName)
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID string) error {
	return m.deleteFn(userID, transactionID)
}

// mockReportService implements services.ReportServicer.
type mockReportService struct {
	summaryFn  func(userID string) (*services.IncomeExpenseSummary, error)
	spendingFn func(userID string) ([]services.CategorySpending, error)
}

func (m *mockReportService) IncomeExpenseSummary(userID string) (*services.IncomeExpenseSummary, error) {
	return m.summaryFn(userID)
}

func (m *mockReportService) CategorySpending(userID string) ([]services.CategorySpending, error) {
	return m.spendingFn(userID)
}

// mockBudgetService implements services.BudgetServicer.
type mockBudgetService struct {
	createFn   func(userID, categoryName string, amount decimal.Decimal, period models.BudgetPeriod) (*models.Budget, error)
	listFn     func(userID string) ([]models.Budget, error)
	getFn      func(userID, budgetID string) (*models.Budget, error)
	updateFn   func(userID, budgetID, categoryName string, amount decimal.Decimal, period models.BudgetPeriod) (*models.Budget, error)
	deleteFn   func(userID, budgetID string) error
	progressFn func(userID, budgetID string) (*services.BudgetProgress, error)
}

func (m *mockBudgetService) CreateBudget(userID, categoryName string, amount decimal.Decimal, period models.BudgetPeriod) (*models.Budget, error) {
	return m.createFn(userID, categoryName, amount, period)
}

func (m *mockBudgetService) GetUserBudgets(userID string) ([]models.Budget, error) {
	return m.listFn(userID)
}

func (m *mockBudgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	return m.getFn(userID, budgetID)
}

func (m *mockBudgetService) UpdateBudget(userID, budgetID, categoryName string, amount decimal.Decimal, period models.BudgetPeriod) (*models.Budget, error) {
	return m.updateFn(userID, budgetID, categoryName, amount, period)
}

func (m *mockBudgetService) DeleteBudget(userID, budgetID string) error {
	return m.deleteFn(userID, budgetID)
}

func (m *mockBudgetService) GetBudgetProgress(userID, budgetID string) (*services.BudgetProgress, error) {
	return m.progressFn(userID, budgetID)
}

var _ services.UserServicer = (*mockUserService)(nil)
var _ services.CategoryServicer = (*mockCategoryService)(nil)
var _ services.TransactionServicer = (*mockTransactionService)(nil)
var _ services.ReportServicer = (*mockReportService)(nil)
var _ services.BudgetServicer = (*mockBudgetService)(nil)

// testUser returns a user fixture with a stable ID for handler tests.
func testUser() *models.User {
	u := &models.User{
		Username: "alice",
		Email:    "alice@example.com",
	}
	u.ID = "018f0000-0000-7000-8000-000000000001"
	return u
}
