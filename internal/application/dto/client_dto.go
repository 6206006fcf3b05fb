package dto

// ClientRequest body pour POST/PUT /api/clients.
type ClientRequest struct {
	Type    string `json:"type"` // particulier | entreprise
	Name    string `json:"name"`
	ICE     string `json:"ice,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

// ClientResponse représentation d'un client.
type ClientResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	ICE     string `json:"ice,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

// SupplierRequest body pour POST/PUT /api/suppliers.
type SupplierRequest struct {
	Name    string `json:"name"`
	ICE     string `json:"ice,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// SupplierResponse représentation d'un fournisseur.
type SupplierResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ICE     string `json:"ice,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	Notes   string `json:"notes,omitempty"`
}
