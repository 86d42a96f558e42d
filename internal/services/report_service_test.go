package services

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestIncomeExpenseSummary(t *testing.T) {
	t.Run("no_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		summary, err := svc.IncomeExpenseSummary(user.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, "0", summary.Income)
		testutil.AssertDecimalEqual(t, "0", summary.Expense)
	})

	t.Run("sums_per_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, user.ID, "Food")

		testutil.CreateTestTransaction(t, db, user.ID, &food.ID, models.TransactionTypeExpense, "10.00")
		testutil.CreateTestTransaction(t, db, user.ID, &food.ID, models.TransactionTypeExpense, "5.50")
		testutil.CreateTestTransaction(t, db, user.ID, &food.ID, models.TransactionTypeIncome, "100.00")

		summary, err := svc.IncomeExpenseSummary(user.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, "100.00", summary.Income)
		testutil.AssertDecimalEqual(t, "15.50", summary.Expense)
	})

	t.Run("exact_decimal_arithmetic", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		// 0.1 + 0.2 in binary floating point is 0.30000000000000004.
		testutil.CreateTestTransaction(t, db, user.ID, nil, models.TransactionTypeExpense, "0.10")
		testutil.CreateTestTransaction(t, db, user.ID, nil, models.TransactionTypeExpense, "0.20")

		summary, err := svc.IncomeExpenseSummary(user.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, "0.30", summary.Expense)
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)

		testutil.CreateTestTransaction(t, db, user1.ID, nil, models.TransactionTypeIncome, "50.00")
		testutil.CreateTestTransaction(t, db, user2.ID, nil, models.TransactionTypeIncome, "9999.00")

		summary, err := svc.IncomeExpenseSummary(user1.ID)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimalEqual(t, "50.00", summary.Income)
	})
}

func TestCategorySpending(t *testing.T) {
	t.Run("no_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)

		spending, err := svc.CategorySpending(user.ID)
		testutil.AssertNoError(t, err)
		if len(spending) != 0 {
			t.Errorf("expected empty spending report, got %d rows", len(spending))
		}
	})

	t.Run("groups_expenses_by_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user := testutil.CreateTestUser(t, db)
		food := testutil.CreateTestCategory(t, db, user.ID, "Food")
		rent := testutil.CreateTestCategory(t, db, user.ID, "Rent")

		testutil.CreateTestTransaction(t, db, user.ID, &food.ID, models.TransactionTypeExpense, "10.00")
		testutil.CreateTestTransaction(t, db, user.ID, &food.ID, models.TransactionTypeExpense, "5.50")
		testutil.CreateTestTransaction(t, db, user.ID, &rent.ID, models.TransactionTypeExpense, "800.00")
		// Income must never appear in a spending report.
		testutil.CreateTestTransaction(t, db, user.ID, &food.ID, models.TransactionTypeIncome, "100.00")

		spending, err := svc.CategorySpending(user.ID)
		testutil.AssertNoError(t, err)

		if len(spending) != 2 {
			t.Fatalf("expected 2 categories, got %d", len(spending))
		}
		if spending[0].Category != "Food" || spending[1].Category != "Rent" {
			t.Fatalf("expected Food then Rent, got %s then %s", spending[0].Category, spending[1].Category)
		}
		testutil.AssertDecimalEqual(t, "15.50", spending[0].Total)
		testutil.AssertDecimalEqual(t, "800.00", spending[1].Total)
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(db)
		user1 := testutil.CreateTestUser(t, db)
		user2 := testutil.CreateTestUser(t, db)
		food1 := testutil.CreateTestCategory(t, db, user1.ID, "Food")
		food2 := testutil.CreateTestCategory(t, db, user2.ID, "Food")

		testutil.CreateTestTransaction(t, db, user1.ID, &food1.ID, models.TransactionTypeExpense, "10.00")
		testutil.CreateTestTransaction(t, db, user2.ID, &food2.ID, models.TransactionTypeExpense, "999.00")

		spending, err := svc.CategorySpending(user1.ID)
		testutil.AssertNoError(t, err)

		if len(spending) != 1 {
			t.Fatalf("expected 1 category, got %d", len(spending))
		}
		testutil.AssertDecimalEqual(t, "10.00", spending[0].Total)
	})
}
