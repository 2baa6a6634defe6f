package catalog

// PriceRecord is one entry of the Azure Retail Prices API response.
// Records are immutable once fetched; the engine copies them before applying
// any transform (see the discount pipeline).
type PriceRecord struct {
	CurrencyCode  string  `json:"currencyCode,omitempty"`
	RetailPrice   float64 `json:"retailPrice"`
	UnitPrice     float64 `json:"unitPrice,omitempty"`
	ArmRegionName string  `json:"armRegionName"`
	Location      string  `json:"location,omitempty"`
	MeterID       string  `json:"meterId,omitempty"`
	MeterName     string  `json:"meterName"`
	ProductID     string  `json:"productId,omitempty"`
	SkuID         string  `json:"skuId,omitempty"`
	ProductName   string  `json:"productName"`
	SkuName       string  `json:"skuName"`
	ServiceName   string  `json:"serviceName"`
	ServiceID     string  `json:"serviceId,omitempty"`
	ServiceFamily string  `json:"serviceFamily,omitempty"`
	UnitOfMeasure string  `json:"unitOfMeasure"`
	Type          string  `json:"type,omitempty"`
	ArmSkuName    string  `json:"armSkuName,omitempty"`

	// SavingsPlan lists commitment-based offers nested under this record.
	SavingsPlan []SavingsPlanOffer `json:"savingsPlan,omitempty"`

	// OriginalRetailPrice holds the pre-discount price when a discount
	// transform has been applied. Zero otherwise.
	OriginalRetailPrice float64 `json:"originalRetailPrice,omitempty"`
}

// SavingsPlanOffer is a commitment pricing tier nested under exactly one
// PriceRecord.
type SavingsPlanOffer struct {
	Term        string  `json:"term"`
	RetailPrice float64 `json:"retailPrice"`
	UnitPrice   float64 `json:"unitPrice,omitempty"`

	// OriginalRetailPrice holds the pre-discount price when a discount
	// transform has been applied. Zero otherwise.
	OriginalRetailPrice float64 `json:"originalRetailPrice,omitempty"`
}

// Page is the catalog's JSON response envelope for one fetch.
// NextPageLink is non-empty when the upstream has more results than the
// requested page; the client never follows it.
type Page struct {
	BillingCurrency string        `json:"BillingCurrency"`
	Items           []PriceRecord `json:"Items"`
	NextPageLink    string        `json:"NextPageLink"`
	Count           int           `json:"Count"`
}
