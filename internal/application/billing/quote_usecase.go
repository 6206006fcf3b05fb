package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/facturati/facturati-api/internal/application/dto"
	"github.com/facturati/facturati-api/internal/domain"
	"github.com/facturati/facturati-api/internal/domain/entity"
	"github.com/facturati/facturati-api/internal/domain/repository"
)

// Transitions de statut autorisées pour un devis. "facture" n'est atteignable
// que par la conversion, jamais par changement de statut direct.
var quoteTransitions = map[string][]string{
	entity.QuoteStatusBrouillon: {entity.QuoteStatusEnvoye},
	entity.QuoteStatusEnvoye:    {entity.QuoteStatusAccepte, entity.QuoteStatusBrouillon},
	entity.QuoteStatusAccepte:   {},
}

// QuoteUseCase gestion des devis (création, consultation, statuts).
type QuoteUseCase struct {
	quoteRepo   repository.QuoteRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	cfg         Config
}

// NewQuoteUseCase construit le cas d'usage.
func NewQuoteUseCase(
	quoteRepo repository.QuoteRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	cfg Config,
) *QuoteUseCase {
	return &QuoteUseCase{quoteRepo: quoteRepo, clientRepo: clientRepo, productRepo: productRepo, cfg: cfg}
}

// CreateQuote valide le client et les lignes puis persiste le devis au statut
// brouillon.
func (uc *QuoteUseCase) CreateQuote(ctx context.Context, companyID string, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	if in.ClientID == "" {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil || client == nil {
		return nil, domain.ErrNotFound
	}
	if client.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	lines, totalHT, totalTVA, totalTTC, err := buildLines(in.Lines, uc.productRepo, companyID, uc.cfg.DefaultTaxRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	quote := &entity.Quote{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ClientID:   in.ClientID,
		Number:     fmt.Sprintf("DEV-%d-%s", now.Year(), uuid.New().String()[:8]),
		Status:     entity.QuoteStatusBrouillon,
		TotalHT:    totalHT,
		TotalTVA:   totalTVA,
		TotalTTC:   totalTTC,
		Date:       now,
		ValidUntil: in.ValidUntil,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, l := range lines {
		quote.Lines = append(quote.Lines, entity.QuoteLine{
			ID:          uuid.New().String(),
			QuoteID:     quote.ID,
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
		})
	}

	if err := uc.quoteRepo.Create(quote); err != nil {
		return nil, err
	}
	return toQuoteResponse(quote), nil
}

// GetQuote renvoie un devis de la société.
func (uc *QuoteUseCase) GetQuote(ctx context.Context, companyID, quoteID string) (*dto.QuoteResponse, error) {
	quote, err := uc.quoteRepo.GetByID(quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrNotFound
	}
	if quote.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toQuoteResponse(quote), nil
}

// ListQuotes liste les devis, filtrables par statut.
func (uc *QuoteUseCase) ListQuotes(ctx context.Context, companyID, status string) ([]*dto.QuoteResponse, error) {
	quotes, err := uc.quoteRepo.List(companyID, status)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, toQuoteResponse(q))
	}
	return out, nil
}

// UpdateStatus applique une transition de statut autorisée.
func (uc *QuoteUseCase) UpdateStatus(ctx context.Context, companyID, quoteID, status string) error {
	quote, err := uc.quoteRepo.GetByID(quoteID)
	if err != nil {
		return err
	}
	if quote == nil {
		return domain.ErrNotFound
	}
	if quote.CompanyID != companyID {
		return domain.ErrForbidden
	}
	allowed, ok := quoteTransitions[quote.Status]
	if !ok {
		return domain.ErrConflict
	}
	valid := false
	for _, s := range allowed {
		if s == status {
			valid = true
			break
		}
	}
	if !valid {
		return domain.ErrConflict
	}
	quote.Status = status
	quote.UpdatedAt = time.Now()
	return uc.quoteRepo.Update(quote)
}

func toQuoteResponse(q *entity.Quote) *dto.QuoteResponse {
	resp := &dto.QuoteResponse{
		ID:         q.ID,
		Number:     q.Number,
		Status:     q.Status,
		ClientID:   q.ClientID,
		Date:       q.Date,
		ValidUntil: q.ValidUntil,
		TotalHT:    q.TotalHT,
		TotalTVA:   q.TotalTVA,
		TotalTTC:   q.TotalTTC,
		InvoiceID:  q.InvoiceID,
		Lines:      make([]dto.InvoiceLineDTO, 0, len(q.Lines)),
	}
	for _, l := range q.Lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineDTO{
			ProductID:   l.ProductID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
			TotalHT:     l.Quantity.Mul(l.UnitPrice),
		})
	}
	return resp
}
