package service

import (
	"context"
	"errors"

	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/model"
	"github.com/offset122/PubInventoryTracker/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService defines the business logic contract for the catalog.
type ProductService interface {
	Create(ctx context.Context, owner uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, owner uuid.UUID, id int64) (*dto.ProductResponse, error)
	List(ctx context.Context, owner uuid.UUID) ([]dto.ProductResponse, error)
	Update(ctx context.Context, owner uuid.UUID, id int64, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, owner uuid.UUID, id int64) error
	Profitability(ctx context.Context, owner uuid.UUID) (*dto.ProfitabilityResponse, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, owner uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		UserID:        owner,
		Name:          req.Name,
		Category:      req.Category,
		BuyingPrice:   *req.BuyingPrice,
		SellingPrice:  *req.SellingPrice,
		MinStockLevel: model.DefaultMinStockLevel,
	}
	if req.CurrentStock != nil {
		p.CurrentStock = *req.CurrentStock
	}
	if req.MinStockLevel != nil {
		p.MinStockLevel = *req.MinStockLevel
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	log.Debug().Int64("product_id", p.ID).Str("user_id", owner.String()).Msg("product created")
	resp := productToResponse(*p)
	return &resp, nil
}

func (s *productService) Get(ctx context.Context, owner uuid.UUID, id int64) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		return nil, notFound(err)
	}
	resp := productToResponse(*p)
	return &resp, nil
}

func (s *productService) List(ctx context.Context, owner uuid.UUID) ([]dto.ProductResponse, error) {
	products, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	return productsToResponse(products), nil
}

// Update writes only the fields present in req. A concurrent ledger write to
// current_stock survives unless req sets currentStock itself.
func (s *productService) Update(ctx context.Context, owner uuid.UUID, id int64, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if req.IsEmpty() {
		return s.Get(ctx, owner, id)
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.BuyingPrice != nil {
		fields["buying_price"] = *req.BuyingPrice
	}
	if req.SellingPrice != nil {
		fields["selling_price"] = *req.SellingPrice
	}
	if req.CurrentStock != nil {
		fields["current_stock"] = *req.CurrentStock
	}
	if req.MinStockLevel != nil {
		fields["min_stock_level"] = *req.MinStockLevel
	}

	if err := s.repo.Update(ctx, owner, id, fields); err != nil {
		return nil, notFound(err)
	}
	return s.Get(ctx, owner, id)
}

func (s *productService) Delete(ctx context.Context, owner uuid.UUID, id int64) error {
	if _, err := s.repo.FindByID(ctx, owner, id); err != nil {
		return notFound(err)
	}
	used, err := s.repo.HasLedgerHistory(ctx, owner, id)
	if err != nil {
		return err
	}
	if used {
		return ErrProductHasHistory
	}

	err = s.repo.Delete(ctx, owner, id)
	switch {
	case errors.Is(err, repository.ErrForeignKeyViolation):
		// a ledger row landed between the check and the delete
		return ErrProductHasHistory
	case err != nil:
		return notFound(err)
	}
	log.Info().Int64("product_id", id).Str("user_id", owner.String()).Msg("product deleted")
	return nil
}

func (s *productService) Profitability(ctx context.Context, owner uuid.UUID) (*dto.ProfitabilityResponse, error) {
	products, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	report := profitability(products)
	return &report, nil
}

var hundred = decimal.NewFromInt(100)

// profitability computes the price-spread view. Margin is relative to the
// buying price and is 0 when the buying price is 0.
func profitability(products []model.Product) dto.ProfitabilityResponse {
	report := dto.ProfitabilityResponse{Products: make([]dto.ProductProfitability, 0, len(products))}

	inventoryValue := decimal.Zero
	potential := decimal.Zero
	marginSum := decimal.Zero

	for _, p := range products {
		stock := decimal.NewFromInt(int64(p.CurrentStock))
		unit := p.SellingPrice.Sub(p.BuyingPrice)

		margin := decimal.Zero
		if !p.BuyingPrice.IsZero() {
			margin = unit.Div(p.BuyingPrice).Mul(hundred)
		}
		rowPotential := unit.Mul(stock)

		inventoryValue = inventoryValue.Add(p.BuyingPrice.Mul(stock))
		potential = potential.Add(rowPotential)
		marginSum = marginSum.Add(margin)

		report.Products = append(report.Products, dto.ProductProfitability{
			ProductID:       p.ID,
			Name:            p.Name,
			Category:        p.Category,
			BuyingPrice:     dto.Money(p.BuyingPrice),
			SellingPrice:    dto.Money(p.SellingPrice),
			CurrentStock:    p.CurrentStock,
			UnitProfit:      dto.Money(unit),
			ProfitMargin:    dto.Money(margin),
			PotentialProfit: dto.Money(rowPotential),
			NegativeMargin:  unit.IsNegative(),
		})
	}

	avg := decimal.Zero
	if len(products) > 0 {
		avg = marginSum.Div(decimal.NewFromInt(int64(len(products))))
	}
	report.TotalInventoryValue = dto.Money(inventoryValue)
	report.TotalPotentialProfit = dto.Money(potential)
	report.AverageMargin = dto.Money(avg)
	return report
}

// notFound folds a missing row into ErrProductNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return err
}
