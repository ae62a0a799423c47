package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLotLedger implements traceability.LotLedger on the lot_transactions
// table. The unique index on batch_code arbitrates concurrent claims.
type GormLotLedger struct {
	db *gorm.DB
}

// NewGormLotLedger creates a new GormLotLedger
func NewGormLotLedger(db *gorm.DB) *GormLotLedger {
	return &GormLotLedger{db: db}
}

// Claim inserts tx unless the batch is already held. The loser reads back the
// holding transaction.
func (l *GormLotLedger) Claim(ctx context.Context, tx *traceability.LotTransaction) (*traceability.LotTransaction, bool, error) {
	result := l.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "batch_code"}},
			DoNothing: true,
		}).
		Create(models.LotTransactionModelFromDomain(tx))
	if result.Error != nil {
		return nil, false, fmt.Errorf("claim lot %s: %w", tx.BatchCode, result.Error)
	}
	if result.RowsAffected == 1 {
		return tx, true, nil
	}

	winner, err := l.FindByBatchCode(ctx, tx.BatchCode)
	if err != nil {
		return nil, false, fmt.Errorf("read lot holder %s: %w", tx.BatchCode, err)
	}
	return winner, false, nil
}

// FindByBatchCode returns the transaction holding a batch
func (l *GormLotLedger) FindByBatchCode(ctx context.Context, batchCode string) (*traceability.LotTransaction, error) {
	return l.findOne(ctx, batchCode, "batch_code = ?", batchCode)
}

// FindByTransactionCode returns a ledger entry by its transaction code
func (l *GormLotLedger) FindByTransactionCode(ctx context.Context, transactionCode string) (*traceability.LotTransaction, error) {
	return l.findOne(ctx, transactionCode, "transaction_code = ?", transactionCode)
}

func (l *GormLotLedger) findOne(ctx context.Context, key, query string, args ...any) (*traceability.LotTransaction, error) {
	var model models.LotTransactionModel
	if err := l.db.WithContext(ctx).Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("lot transaction", key)
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuyer lists the lots a buyer holds
func (l *GormLotLedger) FindByBuyer(ctx context.Context, buyerID string, filter shared.Filter) ([]traceability.LotTransaction, int64, error) {
	query := l.db.WithContext(ctx).Model(&models.LotTransactionModel{}).Where("buyer_id = ?", buyerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.LotTransactionModel
	if err := applyPaging(query, filter, LotTransactionSortFields, "accepted_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	txs := make([]traceability.LotTransaction, len(rows))
	for i := range rows {
		txs[i] = *rows[i].ToDomain()
	}
	return txs, total, nil
}
