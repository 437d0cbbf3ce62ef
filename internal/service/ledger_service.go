package service

import (
	"context"
	"errors"

	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/metrics"
	"github.com/offset122/PubInventoryTracker/internal/model"
	"github.com/offset122/PubInventoryTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// LedgerService records purchases and sales. Each write and its stock
// movement commit together or not at all.
type LedgerService interface {
	RecordPurchase(ctx context.Context, owner uuid.UUID, req dto.RecordPurchaseRequest) (*dto.PurchaseResponse, error)
	RecordSale(ctx context.Context, owner uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error)
	ListPurchases(ctx context.Context, owner uuid.UUID) ([]dto.PurchaseResponse, error)
	ListSales(ctx context.Context, owner uuid.UUID) ([]dto.SaleResponse, error)
	// Recent* return rows joined to their current product, newest first.
	RecentPurchases(ctx context.Context, owner uuid.UUID, limit int) ([]model.Purchase, error)
	RecentSales(ctx context.Context, owner uuid.UUID, limit int) ([]model.Sale, error)
}

type ledgerService struct {
	products  repository.ProductRepository
	purchases repository.PurchaseRepository
	sales     repository.SaleRepository
}

func NewLedgerService(
	products repository.ProductRepository,
	purchases repository.PurchaseRepository,
	sales repository.SaleRepository,
) LedgerService {
	return &ledgerService{products: products, purchases: purchases, sales: sales}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RecordPurchase ───────────────────────────────────────────────────────────
//   1. lock the product row (owner scoped)
//   2. insert the purchase
//   3. current_stock += quantity

func (s *ledgerService) RecordPurchase(ctx context.Context, owner uuid.UUID, req dto.RecordPurchaseRequest) (*dto.PurchaseResponse, error) {
	purchase := model.Purchase{
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		UnitPrice:   *req.UnitPrice,
		TotalAmount: *req.TotalAmount,
		Supplier:    req.Supplier,
		Notes:       req.Notes,
		UserID:      owner,
	}

	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if _, err := s.products.FindByIDForUpdateTx(tx, owner, req.ProductID); err != nil {
			return notFound(err)
		}
		if err := s.purchases.CreateTx(tx, &purchase); err != nil {
			return err
		}
		return s.products.UpdateStockTx(tx, req.ProductID, req.Quantity)
	})
	if err != nil {
		return nil, err
	}

	metrics.PurchasesRecorded.Inc()
	log.Debug().
		Int64("product_id", req.ProductID).
		Str("user_id", owner.String()).
		Int("quantity", req.Quantity).
		Msg("purchase recorded")

	resp := purchaseToResponse(purchase)
	return &resp, nil
}

// ── RecordSale ───────────────────────────────────────────────────────────────
//   1. lock the product row (owner scoped)
//   2. reject when quantity > current_stock, nothing written
//   3. insert the sale
//   4. current_stock -= quantity

func (s *ledgerService) RecordSale(ctx context.Context, owner uuid.UUID, req dto.RecordSaleRequest) (*dto.SaleResponse, error) {
	sale := model.Sale{
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		UnitPrice:   *req.UnitPrice,
		TotalAmount: *req.TotalAmount,
		Customer:    req.Customer,
		Notes:       req.Notes,
		UserID:      owner,
	}

	err := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		product, err := s.products.FindByIDForUpdateTx(tx, owner, req.ProductID)
		if err != nil {
			return notFound(err)
		}
		if req.Quantity > product.CurrentStock {
			return &InsufficientStockError{
				ProductID: product.ID,
				Requested: req.Quantity,
				Available: product.CurrentStock,
			}
		}
		if err := s.sales.CreateTx(tx, &sale); err != nil {
			return err
		}
		return s.products.UpdateStockTx(tx, req.ProductID, -req.Quantity)
	})

	var stockErr *InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		metrics.RecordSaleRejected("insufficient_stock")
		log.Info().
			Int64("product_id", stockErr.ProductID).
			Str("user_id", owner.String()).
			Int("requested", stockErr.Requested).
			Int("available", stockErr.Available).
			Msg("sale rejected: insufficient stock")
		return nil, err
	case errors.Is(err, repository.ErrCheckViolation):
		// the stock CHECK constraint caught what the row lock should have;
		// the transaction rolled back, so report the committed stock
		metrics.RecordSaleRejected("check_violation")
		stockErr = &InsufficientStockError{ProductID: req.ProductID, Requested: req.Quantity}
		if current, ferr := s.products.FindByID(ctx, owner, req.ProductID); ferr == nil {
			stockErr.Available = current.CurrentStock
		}
		log.Warn().
			Int64("product_id", req.ProductID).
			Str("user_id", owner.String()).
			Int("requested", req.Quantity).
			Int("available", stockErr.Available).
			Msg("sale rejected by stock constraint")
		return nil, stockErr
	case err != nil:
		return nil, err
	}

	metrics.SalesRecorded.Inc()
	log.Debug().
		Int64("product_id", req.ProductID).
		Str("user_id", owner.String()).
		Int("quantity", req.Quantity).
		Msg("sale recorded")

	resp := saleToResponse(sale)
	return &resp, nil
}

func (s *ledgerService) ListPurchases(ctx context.Context, owner uuid.UUID) ([]dto.PurchaseResponse, error) {
	rows, err := s.purchases.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PurchaseResponse, len(rows))
	for i, p := range rows {
		resp[i] = purchaseToResponse(p)
	}
	return resp, nil
}

func (s *ledgerService) ListSales(ctx context.Context, owner uuid.UUID) ([]dto.SaleResponse, error) {
	rows, err := s.sales.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SaleResponse, len(rows))
	for i, sale := range rows {
		resp[i] = saleToResponse(sale)
	}
	return resp, nil
}

func (s *ledgerService) RecentPurchases(ctx context.Context, owner uuid.UUID, limit int) ([]model.Purchase, error) {
	return s.purchases.Recent(ctx, owner, limit)
}

func (s *ledgerService) RecentSales(ctx context.Context, owner uuid.UUID, limit int) ([]model.Sale, error) {
	return s.sales.Recent(ctx, owner, limit)
}
