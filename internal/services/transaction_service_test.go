package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

type txFixture struct {
	db       *gorm.DB
	user     *models.User
	other    *models.User
	account  *models.Account
	category *models.Category
}

func newTxFixture(t *testing.T) (*txFixture, TransactionServicer, AccountServicer) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := &txFixture{
		db:    db,
		user:  testutil.CreateTestUser(t, db),
		other: testutil.CreateTestUser(t, db),
	}
	f.account = testutil.CreateTestAccountWithBalance(t, db, f.user.ID, "100.00")
	f.category = testutil.CreateTestCategory(t, db, f.user.ID, true)
	return f, NewTransactionService(db), NewAccountService(db)
}

func (f *txFixture) input(t *testing.T, amount string, date time.Time) TransactionInput {
	return TransactionInput{
		Date:        date,
		Amount:      dec(t, amount),
		Description: "groceries",
		AccountID:   f.account.ID,
		CategoryID:  f.category.ID,
	}
}

func TestCreateTransaction(t *testing.T) {
	t.Run("checking_groceries_scenario", func(t *testing.T) {
		f, svc, accounts := newTxFixture(t)

		in := f.input(t, "-20.00", day(2025, 3, 1))
		in.Notes = strPtr("weekly shop")
		view, err := svc.CreateTransaction(ctx, f.user.ID, in)
		testutil.AssertNoError(t, err)

		if view.AccountName != f.account.Name || view.CategoryName != f.category.Name {
			t.Errorf("expected joined names, got %q / %q", view.AccountName, view.CategoryName)
		}
		if view.Notes == nil || *view.Notes != "weekly shop" {
			t.Errorf("notes not stored: %v", view.Notes)
		}
		assertMoney(t, "amount", view.Amount, "-20")

		account, err := accounts.GetAccount(ctx, f.user.ID, f.account.ID)
		testutil.AssertNoError(t, err)
		assertMoney(t, "currentBalance", account.CurrentBalance, "80")
	})

	t.Run("zero_amount_allowed", func(t *testing.T) {
		f, svc, _ := newTxFixture(t)
		_, err := svc.CreateTransaction(ctx, f.user.ID, f.input(t, "0", day(2025, 3, 1)))
		testutil.AssertNoError(t, err)
	})

	t.Run("amount_out_of_range", func(t *testing.T) {
		f, svc, _ := newTxFixture(t)
		_, err := svc.CreateTransaction(ctx, f.user.ID, f.input(t, "-1000000000.01", day(2025, 3, 1)))
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("foreign_account", func(t *testing.T) {
		f, svc, _ := newTxFixture(t)
		in := f.input(t, "1", day(2025, 3, 1))
		in.AccountID = missingID

		_, err := svc.CreateTransaction(ctx, f.other.ID, in)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("account_checked_before_category", func(t *testing.T) {
		f, svc, _ := newTxFixture(t)

		// Both references belong to f.user, so both fail for f.other.
		_, err := svc.CreateTransaction(ctx, f.other.ID, f.input(t, "1", day(2025, 3, 1)))
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
		if err.Error() != "Account not found or access denied" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("foreign_category", func(t *testing.T) {
		f, svc, _ := newTxFixture(t)
		in := f.input(t, "1", day(2025, 3, 1))
		in.CategoryID = missingID

		_, err := svc.CreateTransaction(ctx, f.user.ID, in)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
		if err.Error() != "Category not found or access denied" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}

func TestBalanceFollowsTransactions(t *testing.T) {
	f, svc, accounts := newTxFixture(t)

	balance := func() string {
		t.Helper()
		v, err := accounts.GetAccount(ctx, f.user.ID, f.account.ID)
		testutil.AssertNoError(t, err)
		return v.CurrentBalance.StringFixed(2)
	}

	a, err := svc.CreateTransaction(ctx, f.user.ID, f.input(t, "-20.00", day(2025, 3, 1)))
	testutil.AssertNoError(t, err)
	b, err := svc.CreateTransaction(ctx, f.user.ID, f.input(t, "1500.10", day(2025, 3, 2)))
	testutil.AssertNoError(t, err)
	if got := balance(); got != "1580.10" {
		t.Fatalf("balance after creates = %s, want 1580.10", got)
	}

	testutil.AssertNoError(t, svc.UpdateTransaction(ctx, f.user.ID, a.ID, f.input(t, "-0.10", day(2025, 3, 1))))
	if got := balance(); got != "1600.00" {
		t.Fatalf("balance after update = %s, want 1600.00", got)
	}

	testutil.AssertNoError(t, svc.DeleteTransaction(ctx, f.user.ID, b.ID))
	if got := balance(); got != "99.90" {
		t.Fatalf("balance after delete = %s, want 99.90", got)
	}
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("moves_between_accounts", func(t *testing.T) {
		f, svc, accounts := newTxFixture(t)
		created, err := svc.CreateTransaction(ctx, f.user.ID, f.input(t, "-20.00", day(2025, 3, 1)))
		testutil.AssertNoError(t, err)

		target, err := accounts.CreateAccount(ctx, f.user.ID, AccountInput{Name: "Savings", Type: "Savings", InitialBalance: dec(t, "10")})
		testutil.AssertNoError(t, err)

		in := f.input(t, "-20.00", day(2025, 3, 1))
		in.AccountID = target.ID
		testutil.AssertNoError(t, svc.UpdateTransaction(ctx, f.user.ID, created.ID, in))

		src, _ := accounts.GetAccount(ctx, f.user.ID, f.account.ID)
		dst, _ := accounts.GetAccount(ctx, f.user.ID, target.ID)
		assertMoney(t, "source balance", src.CurrentBalance, "100")
		assertMoney(t, "target balance", dst.CurrentBalance, "-10")
	})

	t.Run("ownership_checked_first", func(t *testing.T) {
		f, svc, _ := newTxFixture(t)
		created, err := svc.CreateTransaction(ctx, f.user.ID, f.input(t, "-20.00", day(2025, 3, 1)))
		testutil.AssertNoError(t, err)

		in := f.input(t, "1", day(2025, 3, 1))
		in.AccountID = missingID
		err = svc.UpdateTransaction(ctx, f.other.ID, created.ID, in)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("foreign_category", func(t *testing.T) {
		f, svc, _ := newTxFixture(t)
		created, err := svc.CreateTransaction(ctx, f.user.ID, f.input(t, "-20.00", day(2025, 3, 1)))
		testutil.AssertNoError(t, err)

		in := f.input(t, "1", day(2025, 3, 1))
		in.CategoryID = missingID
		err = svc.UpdateTransaction(ctx, f.user.ID, created.ID, in)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("clears_notes", func(t *testing.T) {
		f, svc, _ := newTxFixture(t)
		in := f.input(t, "-20.00", day(2025, 3, 1))
		in.Notes = strPtr("temporary")
		created, err := svc.CreateTransaction(ctx, f.user.ID, in)
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.UpdateTransaction(ctx, f.user.ID, created.ID, f.input(t, "-20.00", day(2025, 3, 1))))

		got, err := svc.GetTransaction(ctx, f.user.ID, created.ID)
		testutil.AssertNoError(t, err)
		if got.Notes != nil {
			t.Errorf("expected notes cleared, got %q", *got.Notes)
		}
	})
}

func TestGetAndDeleteTransaction_OtherUser(t *testing.T) {
	f, svc, _ := newTxFixture(t)
	created, err := svc.CreateTransaction(ctx, f.user.ID, f.input(t, "-20.00", day(2025, 3, 1)))
	testutil.AssertNoError(t, err)

	_, err = svc.GetTransaction(ctx, f.other.ID, created.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

	err = svc.DeleteTransaction(ctx, f.other.ID, created.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

	_, err = svc.GetTransaction(ctx, f.user.ID, created.ID)
	testutil.AssertNoError(t, err)
}

func TestListTransactions(t *testing.T) {
	f, svc, accounts := newTxFixture(t)

	dates := []time.Time{day(2025, 1, 10), day(2025, 3, 5), day(2025, 2, 1), day(2025, 3, 5)}
	for _, d := range dates {
		_, err := svc.CreateTransaction(ctx, f.user.ID, f.input(t, "-1.00", d))
		testutil.AssertNoError(t, err)
	}

	t.Run("newest_first", func(t *testing.T) {
		views, total, err := svc.ListTransactions(ctx, f.user.ID, TransactionFilter{}, nil)
		testutil.AssertNoError(t, err)
		if total != 4 || len(views) != 4 {
			t.Fatalf("expected 4 transactions, got %d (total %d)", len(views), total)
		}
		for i := 1; i < len(views); i++ {
			prev, cur := views[i-1], views[i]
			if cur.Date.After(prev.Date) {
				t.Fatalf("not ordered by date desc at %d: %v after %v", i, cur.Date, prev.Date)
			}
			if cur.Date.Equal(prev.Date) && cur.ID > prev.ID {
				t.Fatalf("ties not ordered by id desc at %d", i)
			}
		}
		if views[0].AccountName == "" || views[0].CategoryName == "" {
			t.Error("expected joined account and category names")
		}
	})

	t.Run("other_user_sees_nothing", func(t *testing.T) {
		views, total, err := svc.ListTransactions(ctx, f.other.ID, TransactionFilter{}, nil)
		testutil.AssertNoError(t, err)
		if total != 0 || len(views) != 0 {
			t.Errorf("expected nothing, got %d", len(views))
		}
	})

	t.Run("date_range", func(t *testing.T) {
		from, to := day(2025, 2, 1), day(2025, 2, 28)
		views, total, err := svc.ListTransactions(ctx, f.user.ID, TransactionFilter{FromDate: &from, ToDate: &to}, nil)
		testutil.AssertNoError(t, err)
		if total != 1 || len(views) != 1 {
			t.Fatalf("expected 1 transaction in February, got %d", len(views))
		}
	})

	t.Run("account_filter", func(t *testing.T) {
		other, err := accounts.CreateAccount(ctx, f.user.ID, AccountInput{Name: "Other", Type: "x"})
		testutil.AssertNoError(t, err)
		in := f.input(t, "5", day(2025, 4, 1))
		in.AccountID = other.ID
		_, err = svc.CreateTransaction(ctx, f.user.ID, in)
		testutil.AssertNoError(t, err)

		views, total, err := svc.ListTransactions(ctx, f.user.ID, TransactionFilter{AccountID: &other.ID}, nil)
		testutil.AssertNoError(t, err)
		if total != 1 || views[0].AccountID != other.ID {
			t.Fatalf("expected only the other account's transaction, got %+v", views)
		}
	})

	t.Run("paginated", func(t *testing.T) {
		page := &pagination.PageRequest{Page: 2, PageSize: 2}
		views, total, err := svc.ListTransactions(ctx, f.user.ID, TransactionFilter{CategoryID: &f.category.ID}, page)
		testutil.AssertNoError(t, err)
		if total != 5 {
			t.Errorf("expected total 5, got %d", total)
		}
		if len(views) != 2 {
			t.Errorf("expected 2 on page 2, got %d", len(views))
		}
	})
}

func TestSummarize(t *testing.T) {
	f, svc, _ := newTxFixture(t)

	salary, err := NewCategoryService(f.db).CreateCategory(ctx, f.user.ID, CategoryInput{Name: "Salary", IsExpense: false})
	testutil.AssertNoError(t, err)

	entries := []struct {
		amount   string
		date     time.Time
		category string
	}{
		{"-20.00", day(2025, 1, 5), f.category.ID},
		{"-5.50", day(2025, 2, 7), f.category.ID},
		{"3.00", day(2025, 2, 8), f.category.ID},
		{"1000.00", day(2025, 2, 1), salary.ID},
	}
	for _, e := range entries {
		in := f.input(t, e.amount, e.date)
		in.CategoryID = e.category
		_, err := svc.CreateTransaction(ctx, f.user.ID, in)
		testutil.AssertNoError(t, err)
	}

	t.Run("by_category", func(t *testing.T) {
		got, err := svc.Summarize(ctx, f.user.ID, SummaryRequest{GroupBy: GroupByCategory})
		testutil.AssertNoError(t, err)
		if len(got) != 2 {
			t.Fatalf("expected 2 groups, got %d", len(got))
		}
		byName := map[string]TransactionSummary{}
		for _, s := range got {
			byName[s.GroupName] = s
		}
		groceries := byName[f.category.Name]
		assertMoney(t, "groceries income", groceries.TotalIncome, "3")
		assertMoney(t, "groceries expenses", groceries.TotalExpenses, "25.50")
		assertMoney(t, "groceries net", groceries.NetFlow, "-22.50")
		assertMoney(t, "salary income", byName["Salary"].TotalIncome, "1000")
	})

	t.Run("by_month_newest_first", func(t *testing.T) {
		got, err := svc.Summarize(ctx, f.user.ID, SummaryRequest{GroupBy: GroupByMonth})
		testutil.AssertNoError(t, err)
		if len(got) != 2 || got[0].GroupName != "2025-02" || got[1].GroupName != "2025-01" {
			t.Fatalf("unexpected groups: %+v", got)
		}
		assertMoney(t, "feb net", got[0].NetFlow, "997.50")
		assertMoney(t, "jan expenses", got[1].TotalExpenses, "20")
	})

	t.Run("date_range", func(t *testing.T) {
		from := day(2025, 2, 1)
		got, err := svc.Summarize(ctx, f.user.ID, SummaryRequest{GroupBy: GroupByMonth, FromDate: &from})
		testutil.AssertNoError(t, err)
		if len(got) != 1 || got[0].GroupName != "2025-02" {
			t.Fatalf("unexpected groups: %+v", got)
		}
	})

	t.Run("other_user_empty", func(t *testing.T) {
		got, err := svc.Summarize(ctx, f.other.ID, SummaryRequest{})
		testutil.AssertNoError(t, err)
		if len(got) != 0 {
			t.Errorf("expected no groups, got %d", len(got))
		}
	})

	t.Run("invalid_grouping", func(t *testing.T) {
		_, err := svc.Summarize(ctx, f.user.ID, SummaryRequest{GroupBy: "week"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestSummarize_SameNamedCategoriesStayApart(t *testing.T) {
	f, svc, _ := newTxFixture(t)

	refunds, err := NewCategoryService(f.db).CreateCategory(ctx, f.user.ID, CategoryInput{Name: f.category.Name, IsExpense: false})
	testutil.AssertNoError(t, err)

	_, err = svc.CreateTransaction(ctx, f.user.ID, f.input(t, "-20", day(2025, 3, 1)))
	testutil.AssertNoError(t, err)
	in := f.input(t, "50", day(2025, 3, 2))
	in.CategoryID = refunds.ID
	_, err = svc.CreateTransaction(ctx, f.user.ID, in)
	testutil.AssertNoError(t, err)

	got, err := svc.Summarize(ctx, f.user.ID, SummaryRequest{})
	testutil.AssertNoError(t, err)
	if len(got) != 2 {
		t.Fatalf("expected one group per category, got %+v", got)
	}
	byID := map[string]TransactionSummary{}
	for _, s := range got {
		if s.GroupName != f.category.Name {
			t.Errorf("group label = %q, want %q", s.GroupName, f.category.Name)
		}
		byID[s.CategoryID] = s
	}
	assertMoney(t, "expense category expenses", byID[f.category.ID].TotalExpenses, "20")
	assertMoney(t, "expense category income", byID[f.category.ID].TotalIncome, "0")
	assertMoney(t, "income category income", byID[refunds.ID].TotalIncome, "50")
	assertMoney(t, "income category expenses", byID[refunds.ID].TotalExpenses, "0")
}

func TestTranslateReferenceError(t *testing.T) {
	fkErr := fmt.Errorf("insert transaction: %w", gorm.ErrForeignKeyViolated)
	testutil.AssertAppError(t, translateReferenceError(fkErr), "ACCOUNT_NOT_FOUND")
	testutil.AssertAppError(t, translateReferenceError(errors.New("disk full")), "INTERNAL_ERROR")
}
