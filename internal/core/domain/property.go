package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyTypeApartment PropertyType = "Apartment"
	PropertyTypeVilla     PropertyType = "Villa"
	PropertyTypeBungalow  PropertyType = "Bungalow"
	PropertyTypeStudio    PropertyType = "Studio"
	PropertyTypePenthouse PropertyType = "Penthouse"
)

func (t PropertyType) IsValid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeVilla, PropertyTypeBungalow, PropertyTypeStudio, PropertyTypePenthouse:
		return true
	}
	return false
}

type FurnishedStatus string

const (
	FurnishedFull FurnishedStatus = "Furnished"
	FurnishedNone FurnishedStatus = "Unfurnished"
	FurnishedSemi FurnishedStatus = "Semi"
)

func (f FurnishedStatus) IsValid() bool {
	switch f {
	case FurnishedFull, FurnishedNone, FurnishedSemi:
		return true
	}
	return false
}

type ListedBy string

const (
	ListedByOwner   ListedBy = "Owner"
	ListedByAgent   ListedBy = "Agent"
	ListedByBuilder ListedBy = "Builder"
)

func (l ListedBy) IsValid() bool {
	switch l {
	case ListedByOwner, ListedByAgent, ListedByBuilder:
		return true
	}
	return false
}

type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

func (l ListingType) IsValid() bool {
	return l == ListingTypeSale || l == ListingTypeRent
}

const (
	MinRating = 0.0
	MaxRating = 5.0
)

// Property - объявление о продаже или аренде недвижимости.
type Property struct {
	ID            uuid.UUID
	Title         string
	Type          PropertyType
	Price         float64
	State         string
	City          string
	AreaSqFt      float64
	Bedrooms      int
	Bathrooms     int
	Amenities     []string
	Furnished     FurnishedStatus
	AvailableFrom time.Time
	ListedBy      ListedBy
	Tags          []string
	ColorTheme    string
	Rating        float64
	IsVerified    bool
	ListingType   ListingType

	// OwnerID пустой только у демонстрационных объектов (IsSample).
	OwnerID  *uuid.UUID
	Owner    *UserSummary
	IsSample bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUserProperty готовит объект, созданный пользователем, к сохранению.
func NewUserProperty(p Property, ownerID uuid.UUID) (*Property, error) {
	now := time.Now().UTC()
	p.ID = uuid.New()
	p.OwnerID = &ownerID
	p.Owner = nil
	p.IsSample = false
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// NewSampleProperty готовит демонстрационный объект из импорта.
func NewSampleProperty(p Property) (*Property, error) {
	now := time.Now().UTC()
	p.ID = uuid.New()
	p.OwnerID = nil
	p.Owner = nil
	p.IsSample = true
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate проверяет инварианты объекта.
func (p *Property) Validate() error {
	switch {
	case p.Title == "":
		return NewValidationError("title is required")
	case !p.Type.IsValid():
		return NewValidationError("invalid property type")
	case !p.Furnished.IsValid():
		return NewValidationError("invalid furnished status")
	case !p.ListedBy.IsValid():
		return NewValidationError("invalid listed by value")
	case !p.ListingType.IsValid():
		return NewValidationError("invalid listing type")
	case p.Price <= 0:
		return NewValidationError("price must be positive")
	case p.AreaSqFt <= 0:
		return NewValidationError("areaSqFt must be positive")
	case p.Bedrooms < 0 || p.Bathrooms < 0:
		return NewValidationError("bedrooms and bathrooms must not be negative")
	case p.Rating < MinRating || p.Rating > MaxRating:
		return NewValidationError(fmt.Sprintf("rating must be between %.0f and %.0f", MinRating, MaxRating))
	case p.State == "" || p.City == "":
		return NewValidationError("state and city are required")
	case p.AvailableFrom.IsZero():
		return NewValidationError("availableFrom is required")
	case !p.IsSample && p.OwnerID == nil:
		return NewValidationError("owner is required")
	}
	return nil
}

// IsOwnedBy - true, если объект принадлежит пользователю.
func (p *Property) IsOwnedBy(userID uuid.UUID) bool {
	return p.OwnerID != nil && *p.OwnerID == userID
}

// PropertyPatch - частичное обновление. nil означает "не менять".
type PropertyPatch struct {
	Title         *string
	Type          *PropertyType
	Price         *float64
	State         *string
	City          *string
	AreaSqFt      *float64
	Bedrooms      *int
	Bathrooms     *int
	Amenities     *[]string
	Furnished     *FurnishedStatus
	AvailableFrom *time.Time
	ListedBy      *ListedBy
	Tags          *[]string
	ColorTheme    *string
	Rating        *float64
	IsVerified    *bool
	ListingType   *ListingType
}

// Apply применяет изменения к копии объекта и проверяет результат.
func (patch PropertyPatch) Apply(p Property) (*Property, error) {
	if patch.Type != nil && !patch.Type.IsValid() {
		return nil, NewValidationError("invalid property type")
	}
	if patch.Furnished != nil && !patch.Furnished.IsValid() {
		return nil, NewValidationError("invalid furnished status")
	}
	if patch.ListedBy != nil && !patch.ListedBy.IsValid() {
		return nil, NewValidationError("invalid listed by value")
	}
	if patch.ListingType != nil && !patch.ListingType.IsValid() {
		return nil, NewValidationError("invalid listing type")
	}

	setIfPresent(&p.Title, patch.Title)
	setIfPresent(&p.Type, patch.Type)
	setIfPresent(&p.Price, patch.Price)
	setIfPresent(&p.State, patch.State)
	setIfPresent(&p.City, patch.City)
	setIfPresent(&p.AreaSqFt, patch.AreaSqFt)
	setIfPresent(&p.Bedrooms, patch.Bedrooms)
	setIfPresent(&p.Bathrooms, patch.Bathrooms)
	setIfPresent(&p.Amenities, patch.Amenities)
	setIfPresent(&p.Furnished, patch.Furnished)
	setIfPresent(&p.AvailableFrom, patch.AvailableFrom)
	setIfPresent(&p.ListedBy, patch.ListedBy)
	setIfPresent(&p.Tags, patch.Tags)
	setIfPresent(&p.ColorTheme, patch.ColorTheme)
	setIfPresent(&p.Rating, patch.Rating)
	setIfPresent(&p.IsVerified, patch.IsVerified)
	setIfPresent(&p.ListingType, patch.ListingType)

	p.UpdatedAt = time.Now().UTC()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// PropertySummary - проекция объекта для ответов, где не нужна полная карточка.
type PropertySummary struct {
	ID    string
	Title string
	Price float64
	City  string
	State string
}

// DeletedPropertySummary подставляется вместо удаленного объекта.
var DeletedPropertySummary = PropertySummary{ID: "deleted", Title: "Property no longer available"}

func (p *Property) Summary() PropertySummary {
	return PropertySummary{
		ID:    p.ID.String(),
		Title: p.Title,
		Price: p.Price,
		City:  p.City,
		State: p.State,
	}
}
