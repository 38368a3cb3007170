package models

type Party struct {
	Name  string `json:"name,omitempty"`
	TaxID string `json:"tax_id,omitempty"`
}

type LineItem struct {
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  string `json:"quantity"`
	Amount    string `json:"amount"`
	TaxRate   string `json:"tax_rate"`
	Tax       string `json:"tax"`
}

// Total is the tax-inclusive amount as printed: digits and in Chinese capitals.
type Total struct {
	Figures string `json:"figures,omitempty"`
	Words   string `json:"words,omitempty"`
}

type TravelInfo struct {
	Traveler    string `json:"traveler"`
	IDNumber    string `json:"id_number"`
	Date        string `json:"date"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Vehicle     string `json:"vehicle"`
}

// Invoice holds the fields scraped from a Chinese e-invoice PDF. Empty fields
// were not found in the text.
type Invoice struct {
	Type        string      `json:"type,omitempty"`
	Number      string      `json:"number,omitempty"`
	IssueDate   string      `json:"issue_date,omitempty"`
	Buyer       Party       `json:"buyer"`
	Seller      Party       `json:"seller"`
	ServiceType string      `json:"service_type,omitempty"`
	Items       []LineItem  `json:"items,omitempty"`
	Amount      string      `json:"amount,omitempty"`
	Tax         string      `json:"tax,omitempty"`
	Total       Total       `json:"total"`
	Travel      *TravelInfo `json:"travel,omitempty"`
	Drawer      string      `json:"drawer,omitempty"`
	Remarks     string      `json:"remarks,omitempty"`
}
