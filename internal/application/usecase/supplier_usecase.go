package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// SupplierUseCase gestion des fournisseurs.
type SupplierUseCase struct {
	supplierRepo repository.SupplierRepository
}

// NewSupplierUseCase construit le cas d'usage.
func NewSupplierUseCase(supplierRepo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{supplierRepo: supplierRepo}
}

// Create crée un fournisseur.
func (uc *SupplierUseCase) Create(ctx context.Context, companyID string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		ICE:       in.ICE,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		City:      in.City,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.supplierRepo.Create(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// Get renvoie un fournisseur de la société.
func (uc *SupplierUseCase) Get(ctx context.Context, companyID, supplierID string) (*dto.SupplierResponse, error) {
	supplier, err := uc.getOwned(companyID, supplierID)
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// List liste les fournisseurs de la société.
func (uc *SupplierUseCase) List(ctx context.Context, companyID string) ([]*dto.SupplierResponse, error) {
	suppliers, err := uc.supplierRepo.List(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplierResponse, 0, len(suppliers))
	for _, s := range suppliers {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

// Update met à jour les champs renseignés.
func (uc *SupplierUseCase) Update(ctx context.Context, companyID, supplierID string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	supplier, err := uc.getOwned(companyID, supplierID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		supplier.Name = in.Name
	}
	if in.ICE != "" {
		supplier.ICE = in.ICE
	}
	if in.Email != "" {
		supplier.Email = in.Email
	}
	if in.Phone != "" {
		supplier.Phone = in.Phone
	}
	if in.Address != "" {
		supplier.Address = in.Address
	}
	if in.City != "" {
		supplier.City = in.City
	}
	if in.Notes != "" {
		supplier.Notes = in.Notes
	}
	supplier.UpdatedAt = time.Now()
	if err := uc.supplierRepo.Update(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// Delete supprime un fournisseur.
func (uc *SupplierUseCase) Delete(ctx context.Context, companyID, supplierID string) error {
	if _, err := uc.getOwned(companyID, supplierID); err != nil {
		return err
	}
	return uc.supplierRepo.Delete(supplierID)
}

func (uc *SupplierUseCase) getOwned(companyID, supplierID string) (*entity.Supplier, error) {
	supplier, err := uc.supplierRepo.GetByID(supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return supplier, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:      s.ID,
		Name:    s.Name,
		ICE:     s.ICE,
		Email:   s.Email,
		Phone:   s.Phone,
		Address: s.Address,
		City:    s.City,
		Notes:   s.Notes,
	}
}
