package rest

import (
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port/usecases_port"
	"time"

	"github.com/google/uuid"
)

// dateLayout - формат дат (availableFrom) в запросах и ответах.
const dateLayout = "2006-01-02"

// ErrorResponse - стандартная структура для ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// --- Объекты недвижимости ---

// PropertyRequest - тело запроса на создание объекта.
type PropertyRequest struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Type          string   `json:"type" validate:"required,oneof=Apartment Villa Bungalow Studio Penthouse"`
	Price         float64  `json:"price" validate:"gt=0"`
	State         string   `json:"state" validate:"required"`
	City          string   `json:"city" validate:"required"`
	AreaSqFt      float64  `json:"areaSqFt" validate:"gt=0"`
	Bedrooms      int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms     int      `json:"bathrooms" validate:"gte=0"`
	Amenities     []string `json:"amenities" validate:"dive,required"`
	Furnished     string   `json:"furnished" validate:"required,oneof=Furnished Unfurnished Semi"`
	AvailableFrom string   `json:"availableFrom" validate:"required,datetime=2006-01-02"`
	ListedBy      string   `json:"listedBy" validate:"required,oneof=Owner Agent Builder"`
	Tags          []string `json:"tags" validate:"dive,required"`
	ColorTheme    string   `json:"colorTheme"`
	Rating        float64  `json:"rating" validate:"gte=0,lte=5"`
	IsVerified    bool     `json:"isVerified"`
	ListingType   string   `json:"listingType" validate:"required,oneof=sale rent"`
}

func (req PropertyRequest) toDomain() (domain.Property, error) {
	availableFrom, err := time.Parse(dateLayout, req.AvailableFrom)
	if err != nil {
		return domain.Property{}, domain.NewValidationError("availableFrom must be a YYYY-MM-DD date")
	}
	return domain.Property{
		Title:         req.Title,
		Type:          domain.PropertyType(req.Type),
		Price:         req.Price,
		State:         req.State,
		City:          req.City,
		AreaSqFt:      req.AreaSqFt,
		Bedrooms:      req.Bedrooms,
		Bathrooms:     req.Bathrooms,
		Amenities:     req.Amenities,
		Furnished:     domain.FurnishedStatus(req.Furnished),
		AvailableFrom: availableFrom,
		ListedBy:      domain.ListedBy(req.ListedBy),
		Tags:          req.Tags,
		ColorTheme:    req.ColorTheme,
		Rating:        req.Rating,
		IsVerified:    req.IsVerified,
		ListingType:   domain.ListingType(req.ListingType),
	}, nil
}

// PropertyPatchRequest - частичное обновление. Допускаются только перечисленные поля.
type PropertyPatchRequest struct {
	Title         *string   `json:"title" validate:"omitempty,min=1,max=200"`
	Type          *string   `json:"type"`
	Price         *float64  `json:"price" validate:"omitempty,gt=0"`
	State         *string   `json:"state" validate:"omitempty,min=1"`
	City          *string   `json:"city" validate:"omitempty,min=1"`
	AreaSqFt      *float64  `json:"areaSqFt" validate:"omitempty,gt=0"`
	Bedrooms      *int      `json:"bedrooms" validate:"omitempty,gte=0"`
	Bathrooms     *int      `json:"bathrooms" validate:"omitempty,gte=0"`
	Amenities     *[]string `json:"amenities"`
	Furnished     *string   `json:"furnished"`
	AvailableFrom *string   `json:"availableFrom" validate:"omitempty,datetime=2006-01-02"`
	ListedBy      *string   `json:"listedBy"`
	Tags          *[]string `json:"tags"`
	ColorTheme    *string   `json:"colorTheme"`
	Rating        *float64  `json:"rating"`
	IsVerified    *bool     `json:"isVerified"`
	ListingType   *string   `json:"listingType"`
}

// toDomain переносит поля в патч. Значения перечислений проверяет сам патч,
// чтобы текст ошибки совпадал с проверкой при создании.
func (req PropertyPatchRequest) toDomain() (domain.PropertyPatch, error) {
	patch := domain.PropertyPatch{
		Title:      req.Title,
		Price:      req.Price,
		State:      req.State,
		City:       req.City,
		AreaSqFt:   req.AreaSqFt,
		Bedrooms:   req.Bedrooms,
		Bathrooms:  req.Bathrooms,
		Amenities:  req.Amenities,
		Tags:       req.Tags,
		ColorTheme: req.ColorTheme,
		Rating:     req.Rating,
		IsVerified: req.IsVerified,
	}
	if req.Type != nil {
		v := domain.PropertyType(*req.Type)
		patch.Type = &v
	}
	if req.Furnished != nil {
		v := domain.FurnishedStatus(*req.Furnished)
		patch.Furnished = &v
	}
	if req.ListedBy != nil {
		v := domain.ListedBy(*req.ListedBy)
		patch.ListedBy = &v
	}
	if req.ListingType != nil {
		v := domain.ListingType(*req.ListingType)
		patch.ListingType = &v
	}
	if req.AvailableFrom != nil {
		t, err := time.Parse(dateLayout, *req.AvailableFrom)
		if err != nil {
			return domain.PropertyPatch{}, domain.NewValidationError("availableFrom must be a YYYY-MM-DD date")
		}
		patch.AvailableFrom = &t
	}
	return patch, nil
}

// PropertyResponse - карточка объекта в ответе.
type PropertyResponse struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Type          string               `json:"type"`
	Price         float64              `json:"price"`
	State         string               `json:"state"`
	City          string               `json:"city"`
	AreaSqFt      float64              `json:"areaSqFt"`
	Bedrooms      int                  `json:"bedrooms"`
	Bathrooms     int                  `json:"bathrooms"`
	Amenities     []string             `json:"amenities"`
	Furnished     string               `json:"furnished"`
	AvailableFrom string               `json:"availableFrom"`
	ListedBy      string               `json:"listedBy"`
	Tags          []string             `json:"tags"`
	ColorTheme    string               `json:"colorTheme,omitempty"`
	Rating        float64              `json:"rating"`
	IsVerified    bool                 `json:"isVerified"`
	ListingType   string               `json:"listingType"`
	Owner         *UserSummaryResponse `json:"owner"`
	IsSample      bool                 `json:"isSample"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

func toPropertyResponse(p *domain.Property) PropertyResponse {
	resp := PropertyResponse{
		ID:            p.ID,
		Title:         p.Title,
		Type:          string(p.Type),
		Price:         p.Price,
		State:         p.State,
		City:          p.City,
		AreaSqFt:      p.AreaSqFt,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		Amenities:     nonNil(p.Amenities),
		Furnished:     string(p.Furnished),
		AvailableFrom: p.AvailableFrom.Format(dateLayout),
		ListedBy:      string(p.ListedBy),
		Tags:          nonNil(p.Tags),
		ColorTheme:    p.ColorTheme,
		Rating:        p.Rating,
		IsVerified:    p.IsVerified,
		ListingType:   string(p.ListingType),
		IsSample:      p.IsSample,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Owner != nil {
		owner := toUserSummaryResponse(*p.Owner)
		resp.Owner = &owner
	}
	return resp
}

func toPropertyResponses(items []domain.Property) []PropertyResponse {
	out := make([]PropertyResponse, len(items))
	for i := range items {
		out[i] = toPropertyResponse(&items[i])
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type PaginationResponse struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// PaginatedPropertiesResponse - ответ каталога.
type PaginatedPropertiesResponse struct {
	Properties []PropertyResponse `json:"properties"`
	Pagination PaginationResponse `json:"pagination"`
}

func toPaginatedPropertiesResponse(page *domain.PropertyPage) PaginatedPropertiesResponse {
	return PaginatedPropertiesResponse{
		Properties: toPropertyResponses(page.Items),
		Pagination: PaginationResponse{
			Total: page.Total,
			Page:  page.Page,
			Limit: page.Limit,
			Pages: page.PageCount,
		},
	}
}

// --- Пользователи и аутентификация ---

type UserSummaryResponse struct {
	ID    *uuid.UUID `json:"id,omitempty"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
}

func toUserSummaryResponse(u domain.UserSummary) UserSummaryResponse {
	resp := UserSummaryResponse{Name: u.Name, Email: u.Email}
	if u.ID != uuid.Nil {
		id := u.ID
		resp.ID = &id
	}
	return resp
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	IsAdmin bool      `json:"isAdmin"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin}
}

// AuthResponse - ответ на регистрацию и вход.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type ProfileResponse struct {
	UserResponse
	Favorites []PropertyResponse `json:"favorites"`
}

func toProfileResponse(p *usecases_port.Profile) ProfileResponse {
	return ProfileResponse{
		UserResponse: toUserResponse(&p.User),
		Favorites:    toPropertyResponses(p.Favorites),
	}
}

// --- Рекомендации ---

// RecommendRequest не помечен тегами валидации: порядок проверок задает use case.
type RecommendRequest struct {
	PropertyID string `json:"propertyId"`
	ToEmail    string `json:"toEmail"`
	Message    string `json:"message"`
}

type PropertySummaryResponse struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price,omitempty"`
	City  string  `json:"city,omitempty"`
	State string  `json:"state,omitempty"`
}

type RecommendationResponse struct {
	ID        uuid.UUID               `json:"id"`
	Property  PropertySummaryResponse `json:"property"`
	FromUser  UserSummaryResponse     `json:"fromUser"`
	ToUser    *UserSummaryResponse    `json:"toUser,omitempty"`
	Message   string                  `json:"message"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"createdAt"`
}

func toRecommendationResponse(v *domain.RecommendationView) RecommendationResponse {
	resp := RecommendationResponse{
		ID: v.ID,
		Property: PropertySummaryResponse{
			ID:    v.Property.ID,
			Title: v.Property.Title,
			Price: v.Property.Price,
			City:  v.Property.City,
			State: v.Property.State,
		},
		FromUser:  toUserSummaryResponse(v.FromUser),
		Message:   v.Message,
		Read:      v.Read,
		CreatedAt: v.CreatedAt,
	}
	if v.ToUser != nil {
		to := toUserSummaryResponse(*v.ToUser)
		resp.ToUser = &to
	}
	return resp
}

// CreatedRecommendationResponse - только что созданная рекомендация с полным объектом.
type CreatedRecommendationResponse struct {
	ID        uuid.UUID            `json:"id"`
	Property  PropertyResponse     `json:"property"`
	FromUser  UserSummaryResponse  `json:"fromUser"`
	ToUser    *UserSummaryResponse `json:"toUser,omitempty"`
	Message   string               `json:"message"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"createdAt"`
}

func toCreatedRecommendationResponse(v *domain.RecommendationView) CreatedRecommendationResponse {
	summary := toRecommendationResponse(v)
	resp := CreatedRecommendationResponse{
		ID:        summary.ID,
		FromUser:  summary.FromUser,
		ToUser:    summary.ToUser,
		Message:   summary.Message,
		Read:      summary.Read,
		CreatedAt: summary.CreatedAt,
	}
	if v.PropertyDetails != nil {
		resp.Property = toPropertyResponse(v.PropertyDetails)
	}
	return resp
}

// RecommendResponse - ответ на создание рекомендации.
type RecommendResponse struct {
	Success bool                          `json:"success"`
	Data    CreatedRecommendationResponse `json:"data"`
	Message string                        `json:"message"`
}
