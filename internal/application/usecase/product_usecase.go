package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// ProductUseCase gestion du catalogue produits.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	defaultTax  decimal.Decimal
}

// NewProductUseCase construit le cas d'usage. defaultTax s'applique aux
// produits créés sans taux de TVA explicite.
func NewProductUseCase(productRepo repository.ProductRepository, defaultTax decimal.Decimal) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, defaultTax: defaultTax}
}

// CreateProduct crée un produit. Le stock initial n'est pas journalisé comme
// mouvement : le ledger synthétise l'entrée "initial" depuis InitialStock et
// CreatedAt du produit.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Reference == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialStock.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.productRepo.GetByReference(companyID, in.Reference)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	taxRate := uc.defaultTax
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Reference:    in.Reference,
		Name:         in.Name,
		Category:     in.Category,
		Unit:         in.Unit,
		Price:        in.Price,
		TaxRate:      taxRate,
		InitialStock: in.InitialStock,
		CurrentStock: in.InitialStock,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetProduct renvoie un produit de la société.
func (uc *ProductUseCase) GetProduct(ctx context.Context, companyID, productID string) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(companyID, productID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// ListProducts liste le catalogue de la société.
func (uc *ProductUseCase) ListProducts(ctx context.Context, companyID string) ([]*dto.ProductResponse, error) {
	products, err := uc.productRepo.List(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// UpdateProduct met à jour les champs descriptifs. Le stock courant n'est pas
// modifiable ici : il passe par les rectifications et les livraisons.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, companyID, productID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.getOwned(companyID, productID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Category != "" {
		product.Category = in.Category
	}
	if in.Unit != "" {
		product.Unit = in.Unit
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.TaxRate != nil {
		product.TaxRate = *in.TaxRate
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) getOwned(companyID, productID string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Reference:    p.Reference,
		Name:         p.Name,
		Category:     p.Category,
		Unit:         p.Unit,
		Price:        p.Price,
		TaxRate:      p.TaxRate,
		InitialStock: p.InitialStock,
		CurrentStock: p.CurrentStock,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}
