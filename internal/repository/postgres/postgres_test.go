package postgres

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dan9191/bank-ledger/internal/models"
	"github.com/Dan9191/bank-ledger/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		db.Close()
	})
	return NewRepository(db), mock
}

var accountCols = []string{"id", "user_id", "balance", "currency", "created_at", "updated_at"}

func TestWithTxCommitsLedgerChange(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()
	userID, a, b := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	keys := []string{a.String(), b.String()}
	sort.Strings(keys)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ANY($1::uuid[]) ORDER BY id FOR UPDATE")).
		WithArgs(pq.Array(keys)).
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow(a.String(), userID.String(), "1000", "USD", now, now).
			AddRow(b.String(), userID.String(), "500", "USD", now, now))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bank.accounts SET balance = $1")).
		WithArgs(decimal.NewFromInt(800), a).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bank.transactions")).
		WithArgs(sqlmock.AnyArg(), models.Debit, decimal.NewFromInt(200), models.USD, a, b, userID).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectCommit()

	record := &models.Transaction{ID: uuid.New(), Type: models.Debit, Amount: decimal.NewFromInt(200),
		Currency: models.USD, FromAccount: &a, ToAccount: &b, UserID: userID}
	err := repo.WithTx(ctx, func(tx repository.LedgerTx) error {
		locked, err := tx.LockAccounts(ctx, b, a)
		if err != nil {
			return err
		}
		if len(locked) != 2 || !locked[a].Balance.Equal(decimal.NewFromInt(1000)) || locked[b].Currency != models.USD {
			t.Fatalf("locked=%+v", locked)
		}
		if err := tx.UpdateBalance(ctx, a, locked[a].Balance.Sub(record.Amount)); err != nil {
			return err
		}
		return tx.InsertTransaction(ctx, record)
	})
	if err != nil {
		t.Fatal(err)
	}
	if !record.CreatedAt.Equal(now) {
		t.Fatalf("created_at=%v want %v", record.CreatedAt, now)
	}
}

func TestWithTxRollsBackOnFailure(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()
	id := uuid.New()
	abort := errors.New("insufficient")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows(accountCols))
	mock.ExpectRollback()

	err := repo.WithTx(ctx, func(tx repository.LedgerTx) error {
		locked, err := tx.LockAccounts(ctx, id)
		if err != nil {
			return err
		}
		if len(locked) != 0 {
			t.Fatalf("locked=%+v", locked)
		}
		return abort
	})
	if !errors.Is(err, abort) {
		t.Fatalf("err=%v want %v", err, abort)
	}
}

func TestUpdateBalanceMissingAccount(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bank.accounts")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.WithTx(ctx, func(tx repository.LedgerTx) error {
		return tx.UpdateBalance(ctx, uuid.New(), decimal.NewFromInt(1))
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
}

func TestCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bank.users")).
		WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "users_email_key"})
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bank.accounts")).
		WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "accounts_user_id_currency_key"})

	err := repo.CreateUser(ctx, &models.User{ID: uuid.New(), Email: "jane@example.com"})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("user err=%v want ErrDuplicate", err)
	}
	err = repo.CreateAccount(ctx, &models.Account{ID: uuid.New(), UserID: uuid.New(), Currency: models.NGN})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("account err=%v want ErrDuplicate", err)
	}
}

func TestFindNotFound(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bank.users WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bank.accounts WHERE user_id = $1 AND id = $2")).
		WillReturnRows(sqlmock.NewRows(accountCols))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bank.transactions WHERE user_id = $1 AND id = $2")).
		WillReturnError(errors.New("connection reset"))

	if _, err := repo.FindUserByID(ctx, uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("user err=%v", err)
	}
	if _, err := repo.FindAccount(ctx, uuid.New(), uuid.New()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("account err=%v", err)
	}
	_, err := repo.FindTransaction(ctx, uuid.New(), uuid.New())
	if err == nil || errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("transaction err=%v want driver error", err)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()
	userID, accountID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM bank.transactions WHERE user_id = $1 AND type = $2 AND (from_account = $3 OR to_account = $3)")).
		WithArgs(userID, models.Credit, accountID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(15)))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5")).
		WithArgs(userID, models.Credit, accountID, 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "type", "amount", "currency", "from_account", "to_account", "user_id", "created_at"}).
			AddRow(uuid.NewString(), "credit", "10", "USD", nil, accountID.String(), userID.String(), now))

	got, total, err := repo.ListTransactions(ctx, models.TransactionFilter{
		UserID: userID, Type: models.Credit, AccountID: &accountID, Page: 2, Limit: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if total != 15 || len(got) != 1 {
		t.Fatalf("total=%d len=%d", total, len(got))
	}
	if got[0].FromAccount != nil || got[0].ToAccount == nil || *got[0].ToAccount != accountID || got[0].Type != models.Credit {
		t.Fatalf("record=%+v", got[0])
	}
}
