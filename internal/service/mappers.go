package service

import (
	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/model"
)

func productToResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID,
		UserID:        p.UserID.String(),
		Name:          p.Name,
		Category:      p.Category,
		BuyingPrice:   dto.Money(p.BuyingPrice),
		SellingPrice:  dto.Money(p.SellingPrice),
		CurrentStock:  p.CurrentStock,
		MinStockLevel: p.MinStockLevel,
		CreatedAt:     p.CreatedAt.UTC().Format(dto.Timestamp),
		UpdatedAt:     p.UpdatedAt.UTC().Format(dto.Timestamp),
	}
}

func productsToResponse(products []model.Product) []dto.ProductResponse {
	resp := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		resp[i] = productToResponse(p)
	}
	return resp
}

func purchaseToResponse(p model.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:          p.ID,
		ProductID:   p.ProductID,
		Quantity:    p.Quantity,
		UnitPrice:   dto.Money(p.UnitPrice),
		TotalAmount: dto.Money(p.TotalAmount),
		Supplier:    p.Supplier,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt.UTC().Format(dto.Timestamp),
	}
}

func saleToResponse(s model.Sale) dto.SaleResponse {
	return dto.SaleResponse{
		ID:          s.ID,
		ProductID:   s.ProductID,
		Quantity:    s.Quantity,
		UnitPrice:   dto.Money(s.UnitPrice),
		TotalAmount: dto.Money(s.TotalAmount),
		Customer:    s.Customer,
		Notes:       s.Notes,
		CreatedAt:   s.CreatedAt.UTC().Format(dto.Timestamp),
	}
}

func userToResponse(u model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID.String(),
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ProfileImageURL: u.ProfileImageURL,
	}
}
