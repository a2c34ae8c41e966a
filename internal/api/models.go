// Package api contains models for API communication
package api

import (
	"encoding/json"
	"strings"
	"time"
)

// Collection paths, each with a trailing slash as the API expects
const (
	BrandPath            = "/api/brand/"
	CategoryPath         = "/api/category/"
	ProviderPath         = "/api/provider/"
	SanitaryRegistryPath = "/api/sanitary-registry/"
	ProductPath          = "/api/product/"
)

// APITime handles timestamp parsing from the API
type APITime time.Time

var apiTimeFormats = []string{
	"2006-01-02T15:04:05.000000",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler for APITime
func (t *APITime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	for _, format := range apiTimeFormats {
		if parsed, err := time.Parse(format, s); err == nil {
			*t = APITime(parsed)
			return nil
		}
	}

	// Unknown formats are tolerated rather than failing the whole list.
	return nil
}

// MarshalJSON implements json.Marshaler for APITime
func (t APITime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).Format(time.RFC3339))
}

// MarshalYAML implements yaml.Marshaler for APITime
func (t APITime) MarshalYAML() (interface{}, error) {
	return time.Time(t).Format(time.RFC3339), nil
}

// Time converts APITime to time.Time
func (t APITime) Time() time.Time {
	return time.Time(t)
}

// FlexBool decodes booleans the API sends either as JSON booleans or as
// strings such as "True"
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler for FlexBool
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = FlexBool(strings.EqualFold(strings.TrimSpace(s), "true"))
	return nil
}

// Ref is a denormalized association: the id is authoritative, the name is
// kept for display
type Ref struct {
	ID   string `json:"uuid"`
	Name string `json:"name"`
}

// Brand is a product brand
type Brand struct {
	ID        string   `json:"uuid,omitempty"`
	Name      string   `json:"name"`
	CreatedAt *APITime `json:"created_at,omitempty"`
	UpdatedAt *APITime `json:"updated_at,omitempty"`
	DeletedAt *APITime `json:"deleted_at,omitempty"`
}

// Category is a product category
type Category struct {
	ID        string   `json:"uuid,omitempty"`
	Name      string   `json:"name"`
	CreatedAt *APITime `json:"created_at,omitempty"`
	UpdatedAt *APITime `json:"updated_at,omitempty"`
	DeletedAt *APITime `json:"deleted_at,omitempty"`
}

// Person types accepted for a provider
const (
	PersonNatural = "Persona Natural"
	PersonLegal   = "Persona Jurídica"
)

// Provider is a supplier company and the brands it distributes
type Provider struct {
	ID         string `json:"uuid,omitempty"`
	Name       string `json:"name"`
	NIT        string `json:"nit"`
	PersonType string `json:"types_person"`
	Represent  string `json:"represent"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Brands     []Ref  `json:"brands"`
}

// SanitaryRegistry is a sanitary registration (INVIMA) with its PDF.
// FileName and FileContent are write-only: the API answers with URL.
type SanitaryRegistry struct {
	ID             string   `json:"uuid,omitempty"`
	URL            string   `json:"url,omitempty"`
	NumberRegistry string   `json:"number_registry"`
	ExpirationDate string   `json:"expiration_date"`
	Cluster        string   `json:"cluster"`
	Status         string   `json:"status"`
	TypeRisk       string   `json:"type_risk"`
	FileName       string   `json:"file_name,omitempty"`
	FileContent    string   `json:"file_content,omitempty"`
	CreatedAt      *APITime `json:"created_at,omitempty"`
	UpdatedAt      *APITime `json:"updated_at,omitempty"`
	DeletedAt      *APITime `json:"deleted_at,omitempty"`
}

// Characteristic is a named product attribute
type Characteristic struct {
	ID             string `json:"uuid"`
	Characteristic string `json:"characteristic"`
	Description    string `json:"description"`
}

// TechnicalSheet is a persisted technical-sheet document reference
type TechnicalSheet struct {
	ID        string `json:"uuid,omitempty"`
	Documents string `json:"documents"`
}

// Comment is a free-text note attached to a product
type Comment struct {
	ID      string `json:"uuid"`
	Comment string `json:"comment"`
}

// Product is the product detail as the API returns it
type Product struct {
	ID               string            `json:"uuid"`
	GenericName      string            `json:"generic_name"`
	CommercialName   string            `json:"commercial_name"`
	Description      string            `json:"description"`
	Measurement      string            `json:"measurement"`
	Formulation      string            `json:"formulation"`
	Composition      string            `json:"composition"`
	Reference        string            `json:"reference"`
	Use              string            `json:"use"`
	SanitizeMethod   string            `json:"sanitize_method"`
	Status           FlexBool          `json:"status"`
	IVA              bool              `json:"iva"`
	Brand            *Ref              `json:"brand"`
	Category         *Ref              `json:"category"`
	SanitaryRegistry *SanitaryRegistry `json:"sanitary_registry"`
	Characteristics  []Characteristic  `json:"characteristics"`
	Images           []string          `json:"images"`
	TechnicalSheets  []TechnicalSheet  `json:"technical_sheets"`
	Providers        []Provider        `json:"providers"`
	Comments         []Comment         `json:"comments"`
}

// FilePayload is an uploaded file: either base64 content of a new file or
// the URL of a persisted one passed through by reference
type FilePayload struct {
	FileName    string `json:"file_name"`
	FileContent string `json:"file_content"`
}

// ProductDraft is the body of product create and update requests
type ProductDraft struct {
	GenericName      string           `json:"generic_name"`
	CommercialName   string           `json:"commercial_name"`
	Description      string           `json:"description"`
	Measurement      string           `json:"measurement"`
	Formulation      string           `json:"formulation"`
	Composition      string           `json:"composition"`
	Reference        string           `json:"reference"`
	Use              string           `json:"use"`
	SanitizeMethod   string           `json:"sanitize_method"`
	Brand            string           `json:"brand"`
	Category         string           `json:"category"`
	SanitaryRegistry string           `json:"sanitary_register"`
	Status           bool             `json:"status"`
	IVA              bool             `json:"iva"`
	Characteristics  []Characteristic `json:"characteristics"`
	Providers        []Ref            `json:"providers"`
	Images           []FilePayload    `json:"images"`
	TechnicalSheet   *FilePayload     `json:"technical_sheet"`
}

// DraftFromProduct converts a fetched product into an editable draft.
// Images and the technical sheet are left to the attachment layer.
func DraftFromProduct(p *Product) ProductDraft {
	d := ProductDraft{
		GenericName:     p.GenericName,
		CommercialName:  p.CommercialName,
		Description:     p.Description,
		Measurement:     p.Measurement,
		Formulation:     p.Formulation,
		Composition:     p.Composition,
		Reference:       p.Reference,
		Use:             p.Use,
		SanitizeMethod:  p.SanitizeMethod,
		Status:          bool(p.Status),
		IVA:             p.IVA,
		Characteristics: append([]Characteristic(nil), p.Characteristics...),
	}
	if p.Brand != nil {
		d.Brand = p.Brand.ID
	}
	if p.Category != nil {
		d.Category = p.Category.ID
	}
	if p.SanitaryRegistry != nil {
		d.SanitaryRegistry = p.SanitaryRegistry.ID
	}
	for _, prov := range p.Providers {
		d.Providers = append(d.Providers, Ref{ID: prov.ID, Name: prov.Name})
	}
	return d
}
