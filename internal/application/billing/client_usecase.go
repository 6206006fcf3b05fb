package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// ClientUseCase gestion des clients.
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase construit le cas d'usage.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// Create crée un client. Le type par défaut est "particulier".
func (uc *ClientUseCase) Create(ctx context.Context, companyID string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	clientType := in.Type
	if clientType == "" {
		clientType = entity.ClientTypeParticulier
	}
	if clientType != entity.ClientTypeParticulier && clientType != entity.ClientTypeEntreprise {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Type:      clientType,
		Name:      in.Name,
		ICE:       in.ICE,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		City:      in.City,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Get renvoie un client de la société.
func (uc *ClientUseCase) Get(ctx context.Context, companyID, clientID string) (*dto.ClientResponse, error) {
	client, err := uc.getOwned(companyID, clientID)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// List liste les clients de la société.
func (uc *ClientUseCase) List(ctx context.Context, companyID string) ([]*dto.ClientResponse, error) {
	clients, err := uc.clientRepo.List(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Update met à jour les champs renseignés.
func (uc *ClientUseCase) Update(ctx context.Context, companyID, clientID string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.getOwned(companyID, clientID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		client.Name = in.Name
	}
	if in.Type != "" {
		client.Type = in.Type
	}
	if in.ICE != "" {
		client.ICE = in.ICE
	}
	if in.Email != "" {
		client.Email = in.Email
	}
	if in.Phone != "" {
		client.Phone = in.Phone
	}
	if in.Address != "" {
		client.Address = in.Address
	}
	if in.City != "" {
		client.City = in.City
	}
	client.UpdatedAt = time.Now()
	if err := uc.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Delete supprime un client.
func (uc *ClientUseCase) Delete(ctx context.Context, companyID, clientID string) error {
	if _, err := uc.getOwned(companyID, clientID); err != nil {
		return err
	}
	return uc.clientRepo.Delete(clientID)
}

func (uc *ClientUseCase) getOwned(companyID, clientID string) (*entity.Client, error) {
	client, err := uc.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if client.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return client, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:      c.ID,
		Type:    c.Type,
		Name:    c.Name,
		ICE:     c.ICE,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		City:    c.City,
	}
}
