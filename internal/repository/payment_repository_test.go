package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/models"
)

func TestPaymentRepository_CreateForJob_CreditsBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	jobID := uuid.New()
	freelancerID := uuid.New()
	paymentID := uuid.New()
	amount := decimal.NewFromInt(100)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO payments \(job_id, amount, status, method\)\s+VALUES \(\$1, \$2, \$3, \$4\)\s+RETURNING id, job_id, amount, status, method, created_at`).
		WithArgs(jobID, amount, models.PaymentStatusCompleted, models.PaymentMethodBalance).
		WillReturnRows(sqlmock.NewRows([]string{"id", "job_id", "amount", "status", "method", "created_at"}).
			AddRow(paymentID.String(), jobID.String(), "100", models.PaymentStatusCompleted, models.PaymentMethodBalance, time.Now()))
	mock.ExpectExec(`UPDATE users SET balance = balance \+ \$2, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(freelancerID, amount).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment, err := repo.CreateForJob(context.Background(), jobID, freelancerID, amount)

	assert.NoError(t, err)
	assert.Equal(t, jobID, payment.JobID)
	assert.True(t, payment.Amount.Equal(amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_CreateForJob_DuplicateRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	jobID := uuid.New()
	freelancerID := uuid.New()
	amount := decimal.NewFromInt(100)

	// Конкурентная вторая выплата упирается в unique(job_id):
	// начисление на баланс до UPDATE не доходит, транзакция откатывается.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO payments \(job_id, amount, status, method\)`).
		WithArgs(jobID, amount, models.PaymentStatusCompleted, models.PaymentMethodBalance).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	payment, err := repo.CreateForJob(context.Background(), jobID, freelancerID, amount)

	assert.Nil(t, payment)
	assert.True(t, apperror.IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Withdraw_DebitsBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	userID := uuid.New()
	withdrawalID := uuid.New()
	amount := decimal.NewFromInt(40)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET balance = balance - \$2, updated_at = NOW\(\)\s+WHERE id = \$1 AND balance >= \$2`).
		WithArgs(userID, amount).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO withdrawals \(user_id, amount, status, card_last4\)\s+VALUES \(\$1, \$2, \$3, \$4\)\s+RETURNING id, user_id, amount, status, card_last4, created_at`).
		WithArgs(userID, amount, models.WithdrawalStatusCompleted, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "amount", "status", "card_last4", "created_at"}).
			AddRow(withdrawalID.String(), userID.String(), "40", models.WithdrawalStatusCompleted, nil, time.Now()))
	mock.ExpectCommit()

	withdrawal, err := repo.Withdraw(context.Background(), userID, amount, nil)

	assert.NoError(t, err)
	assert.Equal(t, userID, withdrawal.UserID)
	assert.True(t, withdrawal.Amount.Equal(amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepository_Withdraw_InsufficientFunds(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	userID := uuid.New()
	amount := decimal.NewFromInt(500)

	// Баланс меньше суммы: условие balance >= не пропускает UPDATE,
	// заявка на вывод не создаётся.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE users SET balance = balance - \$2, updated_at = NOW\(\)\s+WHERE id = \$1 AND balance >= \$2`).
		WithArgs(userID, amount).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	withdrawal, err := repo.Withdraw(context.Background(), userID, amount, nil)

	assert.Nil(t, withdrawal)
	assert.True(t, apperror.IsInsufficientFunds(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
