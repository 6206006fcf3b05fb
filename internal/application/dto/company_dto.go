package dto

// CreateCompanyRequest body pour POST /api/companies.
type CreateCompanyRequest struct {
	Name    string `json:"name"`
	ICE     string `json:"ice"` // identifiant fiscal (ICE au Maroc, SIREN en France)
	RC      string `json:"rc,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// CompanyResponse représentation publique d'une société.
type CompanyResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ICE     string `json:"ice"`
	RC      string `json:"rc,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}
