package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newBudgetService(t *testing.T) (BudgetServicer, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return NewBudgetService(db, NewCategoryService(db)), db
}

func TestCreateBudget(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		svc, db := newBudgetService(t)
		user := testutil.CreateTestUser(t, db)

		budget, err := svc.CreateBudget(user.ID, "Food", decimal.RequireFromString("500.00"), models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		if budget.ID == "" {
			t.Fatal("expected non-empty budget ID")
		}
		testutil.AssertDecimalEqual(t, "500.00", budget.Amount)
		if budget.Category.Name != "Food" {
			t.Errorf("expected category Food, got %s", budget.Category.Name)
		}
		if budget.Period != models.BudgetPeriodMonthly {
			t.Errorf("expected monthly period, got %s", budget.Period)
		}
	})

	t.Run("reuses_existing_category", func(t *testing.T) {
		svc, db := newBudgetService(t)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, user.ID, "Food")

		budget, err := svc.CreateBudget(user.ID, "Food", decimal.RequireFromString("500.00"), models.BudgetPeriodMonthly)
		testutil.AssertNoError(t, err)

		if budget.CategoryID != food.ID {
			t.Error("budget should reference the existing Food category")
		}
	})

	t.Run("invalid_input", func(t *testing.T) {
		svc, db := newBudgetService(t)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.CreateBudget(user.ID, "Food", decimal.Zero, models.BudgetPeriodMonthly)
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateBudget(user.ID, "Food", decimal.RequireFromString("100.00"), "weekly")
		testutil.AssertAppError(t, err, "INVALID_INPUT")

		_, err = svc.CreateBudget(user.ID, "  ", decimal.RequireFromString("100.00"), models.BudgetPeriodMonthly)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserBudgets(t *testing.T) {
	t.Run("scoped_to_owner", func(t *testing.T) {
		svc, db := newBudgetService(t)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		cat1 := testutil.CreateTestCategory(t, db, user1.ID, "Food")
		cat2 := testutil.CreateTestCategory(t, db, user2.ID, "Food")

		testutil.CreateTestBudget(t, db, user1.ID, cat1.ID, "500.00")
		testutil.CreateTestBudget(t, db, user2.ID, cat2.ID, "900.00")

		budgets, err := svc.GetUserBudgets(user1.ID)
		testutil.AssertNoError(t, err)

		if len(budgets) != 1 {
			t.Fatalf("expected 1 budget for user1, got %d", len(budgets))
		}
		if budgets[0].Category.Name != "Food" {
			t.Errorf("expected preloaded category, got %+v", budgets[0].Category)
		}
	})
}

func TestGetBudgetByID(t *testing.T) {
	t.Run("unknown_id", func(t *testing.T) {
		svc, db := newBudgetService(t)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetBudgetByID(user.ID, "00000000-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("other_users_budget_is_forbidden", func(t *testing.T) {
		svc, db := newBudgetService(t)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID, "Food")
		budget := testutil.CreateTestBudget(t, db, owner.ID, cat.ID, "500.00")

		_, err := svc.GetBudgetByID(intruder.ID, budget.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestUpdateBudget(t *testing.T) {
	t.Run("replaces_fields", func(t *testing.T) {
		svc, db := newBudgetService(t)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, "Food")
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, "500.00")

		updated, err := svc.UpdateBudget(user.ID, budget.ID, "Travel", decimal.RequireFromString("750.00"), models.BudgetPeriodAnnually)
		testutil.AssertNoError(t, err)

		got, err := svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, "750.00", got.Amount)
		if got.Period != models.BudgetPeriodAnnually {
			t.Errorf("expected annually, got %s", got.Period)
		}
		if got.Category.Name != "Travel" {
			t.Errorf("expected category Travel, got %s", got.Category.Name)
		}
		if updated.ID != budget.ID {
			t.Error("update must not change the record identity")
		}
	})

	t.Run("other_users_budget_is_forbidden", func(t *testing.T) {
		svc, db := newBudgetService(t)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID, "Food")
		budget := testutil.CreateTestBudget(t, db, owner.ID, cat.ID, "500.00")

		_, err := svc.UpdateBudget(intruder.ID, budget.ID, "Food", decimal.RequireFromString("1.00"), models.BudgetPeriodMonthly)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestDeleteBudget(t *testing.T) {
	t.Run("owner_deletes", func(t *testing.T) {
		svc, db := newBudgetService(t)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, "Food")
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, "500.00")

		testutil.AssertNoError(t, svc.DeleteBudget(user.ID, budget.ID))

		_, err := svc.GetBudgetByID(user.ID, budget.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("other_users_budget_is_forbidden", func(t *testing.T) {
		svc, db := newBudgetService(t)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID, "Food")
		budget := testutil.CreateTestBudget(t, db, owner.ID, cat.ID, "500.00")

		err := svc.DeleteBudget(intruder.ID, budget.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}

func TestGetBudgetProgress(t *testing.T) {
	createExpense := func(t *testing.T, db *gorm.DB, userID, categoryID, amount string, date time.Time) {
		t.Helper()
		tx := &models.Transaction{
			UserID:      userID,
			CategoryID:  &categoryID,
			Type:        models.TransactionTypeExpense,
			Amount:      decimal.RequireFromString(amount),
			Date:        date,
			Description: "expense",
		}
		if err := db.Create(tx).Error; err != nil {
			t.Fatalf("failed to create transaction: %v", err)
		}
	}

	t.Run("monthly_spending_within_period", func(t *testing.T) {
		svc, db := newBudgetService(t)
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, "Food")
		budget := testutil.CreateTestBudget(t, db, user.ID, cat.ID, "500.00")

		now := time.Now()
		createExpense(t, db, user.ID, cat.ID, "120.00", now)
		createExpense(t, db, user.ID, cat.ID, "30.00", now)
		// Last year's spending is outside any current period.
		createExpense(t, db, user.ID, cat.ID, "999.00", now.AddDate(-1, 0, 0))

		progress, err := svc.GetBudgetProgress(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, "500.00", progress.Budgeted)
		testutil.AssertDecimalEqual(t, "150.00", progress.Spent)
		testutil.AssertDecimalEqual(t, "350.00", progress.Remaining)
		if progress.Percentage < 29.9 || progress.Percentage > 30.1 {
			t.Errorf("expected ~30%%, got %f", progress.Percentage)
		}
	})

	t.Run("ignores_other_categories", func(t *testing.T) {
		svc, db := newBudgetService(t)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, user.ID, "Food")
		rent := testutil.CreateTestCategory(t, db, user.ID, "Rent")
		budget := testutil.CreateTestBudget(t, db, user.ID, food.ID, "500.00")

		createExpense(t, db, user.ID, rent.ID, "800.00", time.Now())

		progress, err := svc.GetBudgetProgress(user.ID, budget.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, "0", progress.Spent)
		testutil.AssertDecimalEqual(t, "500.00", progress.Remaining)
	})

	t.Run("other_users_budget_is_forbidden", func(t *testing.T) {
		svc, db := newBudgetService(t)
		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, owner.ID, "Food")
		budget := testutil.CreateTestBudget(t, db, owner.ID, cat.ID, "500.00")

		_, err := svc.GetBudgetProgress(intruder.ID, budget.ID)
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}
