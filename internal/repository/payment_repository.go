package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/akazakov/workmarket-backend/internal/apperror"
	"github.com/akazakov/workmarket-backend/internal/models"
	"github.com/akazakov/workmarket-backend/internal/repository/common"
)

// PaymentRepository отвечает за платежи, выводы средств и балансы.
// Все денежные мутации — одиночные условные SQL-запросы либо короткие
// транзакции: никаких read-check-write последовательностей на уровне Go.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository создаёт новый экземпляр.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// CreateForJob проводит выплату по заданию: вставляет платёж и начисляет
// сумму на баланс исполнителя в одной транзакции. От двойной выплаты
// защищает unique(job_id): конкурентная вторая вставка завершается
// нарушением ограничения и откатывает и начисление.
func (r *PaymentRepository) CreateForJob(ctx context.Context, jobID, freelancerID uuid.UUID, amount decimal.Decimal) (*models.Payment, error) {
	var payment models.Payment

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &payment, `
			INSERT INTO payments (job_id, amount, status, method)
			VALUES ($1, $2, $3, $4)
			RETURNING id, job_id, amount, status, method, created_at
		`, jobID, amount, models.PaymentStatusCompleted, models.PaymentMethodBalance)
		if err != nil {
			if common.IsUniqueViolation(err) {
				return apperror.ErrPaymentExists
			}
			return fmt.Errorf("payment repository: insert payment %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE users SET balance = balance + $2, updated_at = NOW() WHERE id = $1
		`, freelancerID, amount); err != nil {
			return fmt.Errorf("payment repository: credit balance %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &payment, nil
}

// GetByJobID возвращает платёж по заданию.
func (r *PaymentRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*models.Payment, error) {
	return common.GetByField[models.Payment](ctx, r.db, "payments", "job_id", jobID, apperror.ErrPaymentNotFound)
}

// ListByUser возвращает платежи, полученные пользователем как исполнителем.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT p.* FROM payments p
		JOIN jobs j ON j.id = p.job_id
		WHERE j.freelancer_id = $1
		ORDER BY p.created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return payments, err
}

// GetBalance возвращает текущий баланс пользователя.
func (r *PaymentRepository) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.db.GetContext(ctx, &balance, `SELECT balance FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, apperror.ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("payment repository: get balance %w", err)
	}
	return balance, nil
}

// Withdraw атомарно списывает сумму с баланса и создаёт заявку на вывод.
// Проверка достаточности средств — условие самого UPDATE: при нулевом
// числе затронутых строк возвращается InsufficientFunds, и баланс никогда
// не уходит в минус даже под конкурентными списаниями.
func (r *PaymentRepository) Withdraw(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, cardLast4 *string) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE users SET balance = balance - $2, updated_at = NOW()
			WHERE id = $1 AND balance >= $2
		`, userID, amount)
		if err != nil {
			return fmt.Errorf("payment repository: debit balance %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperror.ErrInsufficientFunds
		}

		err = tx.GetContext(ctx, &withdrawal, `
			INSERT INTO withdrawals (user_id, amount, status, card_last4)
			VALUES ($1, $2, $3, $4)
			RETURNING id, user_id, amount, status, card_last4, created_at
		`, userID, amount, models.WithdrawalStatusCompleted, cardLast4)
		if err != nil {
			return fmt.Errorf("payment repository: insert withdrawal %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &withdrawal, nil
}

// ListWithdrawals возвращает заявки пользователя на вывод средств.
func (r *PaymentRepository) ListWithdrawals(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := r.db.SelectContext(ctx, &withdrawals, `
		SELECT * FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	return withdrawals, err
}
