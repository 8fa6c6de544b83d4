package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	token_adapter "marketplace-service/internal/adapters/jwt"
	"marketplace-service/internal/adapters/memory"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t       *testing.T
	store   *memory.Store
	handler http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.NewStore()
	properties := store.Properties()
	users := store.Users()
	favorites := store.Favorites()
	recommendations := store.Recommendations()

	tokens, err := token_adapter.NewTokenService("test-signing-key-0123456789", "marketplace-test")
	require.NoError(t, err)

	handlers := Handlers{
		Auth: NewAuthHandler(
			usecase.NewRegisterUserUseCase(users, tokens, time.Hour),
			usecase.NewLoginUserUseCase(users, tokens, time.Hour),
			usecase.NewGetCurrentUserUseCase(users, favorites, properties),
		),
		Properties: NewPropertyHandler(
			usecase.NewQueryPropertiesUseCase(properties),
			usecase.NewCreatePropertyUseCase(properties),
			usecase.NewGetPropertyUseCase(properties),
			usecase.NewListOwnPropertiesUseCase(properties),
			usecase.NewUpdatePropertyUseCase(properties),
			usecase.NewDeletePropertyUseCase(properties),
		),
		Favorites: NewFavoritesHandler(
			usecase.NewAddToFavoritesUseCase(favorites, properties),
			usecase.NewRemoveFromFavoritesUseCase(favorites),
			usecase.NewGetUserFavoritesUseCase(favorites, properties),
		),
		Recommendations: NewRecommendationHandler(
			usecase.NewRecommendPropertyUseCase(properties, users, recommendations, nil),
			usecase.NewListReceivedRecommendationsUseCase(properties, users, recommendations),
			usecase.NewSearchCandidateUsersUseCase(users),
			usecase.NewMarkRecommendationReadUseCase(recommendations),
		),
	}
	authMW := NewAuthMiddleware(usecase.NewValidateTokenUseCase(tokens))

	cfg := ServerConfig{Port: "0", AllowedOrigins: []string{"http://localhost:5173"}}
	return &testAPI{
		t:       t,
		store:   store,
		handler: NewRouter(cfg, handlers, authMW, contextkeys.NoopLogger()),
	}
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// register создает пользователя через API и возвращает его токен.
func (a *testAPI) register(name, email string) (string, UserResponse) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: name, Email: email, Password: "password123"})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp AuthResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(a.t, resp.Token)
	return resp.Token, resp.User
}

func (a *testAPI) seedProperty(title, city string, price float64, sample bool, owner *uuid.UUID) *domain.Property {
	a.t.Helper()
	input := domain.Property{
		Title:         title,
		Type:          domain.PropertyTypeApartment,
		Price:         price,
		State:         "Maharashtra",
		City:          city,
		AreaSqFt:      900,
		Bedrooms:      2,
		Bathrooms:     1,
		Amenities:     []string{"gym", "pool"},
		Furnished:     domain.FurnishedSemi,
		AvailableFrom: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		ListedBy:      domain.ListedByAgent,
		Rating:        4,
		ListingType:   domain.ListingTypeSale,
	}
	var (
		p   *domain.Property
		err error
	)
	if sample {
		p, err = domain.NewSampleProperty(input)
	} else {
		p, err = domain.NewUserProperty(input, *owner)
	}
	require.NoError(a.t, err)
	require.NoError(a.t, a.store.Properties().Create(context.Background(), p))
	return p
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func validPropertyRequest() PropertyRequest {
	return PropertyRequest{
		Title:         "Lake view villa",
		Type:          "Villa",
		Price:         550000,
		State:         "Himachal Pradesh",
		City:          "Shimla",
		AreaSqFt:      2400,
		Bedrooms:      4,
		Bathrooms:     3,
		Amenities:     []string{"parking", "garden"},
		Furnished:     "Furnished",
		AvailableFrom: "2025-06-01",
		ListedBy:      "Owner",
		Tags:          []string{"lake-view"},
		Rating:        4.5,
		ListingType:   "sale",
	}
}

func TestHealthAndTraceID(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))

	traceID := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(traceIDHeader, traceID)
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.Equal(t, traceID, rec.Header().Get(traceIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(traceIDHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid", rec.Header().Get(traceIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodGet, "/api/v1/properties", "", nil)

	rec := api.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "marketplace_http_requests_total")
}

func TestAuthEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token, user := api.register("Alice Smith", "Alice@Example.com")
	assert.Equal(t, "alice@example.com", user.Email)

	t.Run("duplicate email", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: "Other", Email: "alice@example.com", Password: "password123"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{Name: "Bob", Email: "bob", Password: "123"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[ErrorResponse](t, rec).Error, "email")
	})

	t.Run("login", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "alice@example.com", Password: "password123"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, decode[AuthResponse](t, rec).Token)

		rec = api.do(http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("me", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		profile := decode[ProfileResponse](t, rec)
		assert.Equal(t, user.ID, profile.ID)
		assert.Empty(t, profile.Favorites)
	})

	t.Run("me without token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/auth/me", "", nil).Code)
		assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/auth/me", "garbage", nil).Code)
	})
}

func TestQueryPropertiesEndpoint(t *testing.T) {
	api := newTestAPI(t)
	_, owner := api.register("Owner", "owner@example.com")

	for i := 0; i < 7; i++ {
		api.seedProperty(fmt.Sprintf("Flat %d", i), "Navi Mumbai", float64(100000+i*10000), false, &owner.ID)
	}
	api.seedProperty("Sample flat", "Mumbai", 120000, true, nil)
	api.seedProperty("Pune flat", "Pune", 120000, false, &owner.ID)

	t.Run("filters and pagination", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/properties?city=mumbai&minPrice=110000&amenities=pool,gym&page=2&limit=3", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decode[PaginatedPropertiesResponse](t, rec)
		// 6 пользовательских объектов в Navi Mumbai + 1 демонстрационный в Mumbai
		assert.Equal(t, int64(7), resp.Pagination.Total)
		assert.Equal(t, 2, resp.Pagination.Page)
		assert.Equal(t, 3, resp.Pagination.Limit)
		assert.Equal(t, 3, resp.Pagination.Pages)
		assert.Len(t, resp.Properties, 3)
		for _, p := range resp.Properties {
			assert.Contains(t, p.City, "Mumbai")
			assert.GreaterOrEqual(t, p.Price, 110000.0)
		}
	})

	t.Run("samples go last by default", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/properties?limit=100", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[PaginatedPropertiesResponse](t, rec)
		require.Len(t, resp.Properties, 9)
		assert.True(t, resp.Properties[8].IsSample)
		assert.Nil(t, resp.Properties[8].Owner)
		require.NotNil(t, resp.Properties[0].Owner)
		assert.Equal(t, "Owner", resp.Properties[0].Owner.Name)
	})

	t.Run("explicit sort", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/properties?sortBy=price&sortOrder=asc&limit=2", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[PaginatedPropertiesResponse](t, rec)
		require.Len(t, resp.Properties, 2)
		assert.LessOrEqual(t, resp.Properties[0].Price, resp.Properties[1].Price)
	})

	t.Run("page past the end", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/properties?page=50", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[PaginatedPropertiesResponse](t, rec)
		assert.NotNil(t, resp.Properties)
		assert.Empty(t, resp.Properties)
		assert.Equal(t, int64(9), resp.Pagination.Total)
	})

	bad := []string{
		"minPrice=cheap",
		"bedrooms=two",
		"page=0",
		"limit=abc",
		"sortBy=owner",
		"sortBy=price&sortOrder=up",
		"availableFrom=yesterday",
	}
	for _, q := range bad {
		t.Run("rejects "+q, func(t *testing.T) {
			rec := api.do(http.MethodGet, "/api/v1/properties?"+q, "", nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPropertyCRUDEndpoints(t *testing.T) {
	api := newTestAPI(t)
	ownerToken, owner := api.register("Owner", "owner@example.com")
	otherToken, _ := api.register("Other", "other@example.com")

	rec := api.do(http.MethodPost, "/api/v1/properties", ownerToken, validPropertyRequest())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[PropertyResponse](t, rec)
	assert.False(t, created.IsSample)
	assert.Equal(t, "2025-06-01", created.AvailableFrom)

	path := "/api/v1/properties/" + created.ID.String()

	t.Run("create requires auth", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/v1/properties", "", validPropertyRequest()).Code)
	})

	t.Run("create rejects bad enum", func(t *testing.T) {
		req := validPropertyRequest()
		req.Type = "Castle"
		rec := api.do(http.MethodPost, "/api/v1/properties", ownerToken, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[ErrorResponse](t, rec).Error, "type")
	})

	t.Run("get is public", func(t *testing.T) {
		rec := api.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decode[PropertyResponse](t, rec)
		require.NotNil(t, got.Owner)
		require.NotNil(t, got.Owner.ID)
		assert.Equal(t, owner.ID, *got.Owner.ID)
		assert.Equal(t, "Owner", got.Owner.Name)
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/properties/"+uuid.NewString(), "", nil).Code)
		assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/v1/properties/not-an-id", "", nil).Code)
	})

	t.Run("mine", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/properties/mine", ownerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]PropertyResponse](t, rec), 1)

		rec = api.do(http.MethodGet, "/api/v1/properties/mine", otherToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]PropertyResponse](t, rec))
	})

	t.Run("patch", func(t *testing.T) {
		rec := api.do(http.MethodPatch, path, ownerToken, map[string]interface{}{"price": 600000, "furnished": "Semi"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		updated := decode[PropertyResponse](t, rec)
		assert.Equal(t, 600000.0, updated.Price)
		assert.Equal(t, "Semi", updated.Furnished)
		assert.Equal(t, created.Title, updated.Title)
	})

	t.Run("patch rejects unknown fields", func(t *testing.T) {
		rec := api.do(http.MethodPatch, path, ownerToken, map[string]interface{}{"isSample": true})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("patch rejects bad enum", func(t *testing.T) {
		rec := api.do(http.MethodPatch, path, ownerToken, map[string]interface{}{"listingType": "lease"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("patch by other user", func(t *testing.T) {
		rec := api.do(http.MethodPatch, path, otherToken, map[string]interface{}{"price": 1})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("sample is immutable", func(t *testing.T) {
		sample := api.seedProperty("Sample", "Pune", 1000, true, nil)
		samplePath := "/api/v1/properties/" + sample.ID.String()
		assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, samplePath, ownerToken, nil).Code)
		assert.Equal(t, http.StatusForbidden, api.do(http.MethodPatch, samplePath, ownerToken, map[string]interface{}{"price": 1}).Code)
	})

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, path, otherToken, nil).Code)
		assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, path, ownerToken, nil).Code)
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, "", nil).Code)
	})
}

func TestFavoritesEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token, user := api.register("Alice", "alice@example.com")
	p := api.seedProperty("Fav flat", "Mumbai", 100000, false, &user.ID)
	path := "/api/v1/favorites/" + p.ID.String()

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/favorites", "", nil).Code)

	assert.Equal(t, http.StatusOK, api.do(http.MethodPost, path, token, nil).Code)
	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/v1/favorites/"+uuid.NewString(), token, nil).Code)

	rec := api.do(http.MethodGet, "/api/v1/favorites", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	favs := decode[[]PropertyResponse](t, rec)
	require.Len(t, favs, 1)
	assert.Equal(t, p.ID, favs[0].ID)

	profile := decode[ProfileResponse](t, api.do(http.MethodGet, "/api/v1/auth/me", token, nil))
	assert.Len(t, profile.Favorites, 1)

	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, path, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, path, token, nil).Code)
}

func TestRecommendationEndpoints(t *testing.T) {
	api := newTestAPI(t)
	aliceToken, alice := api.register("Alice Jane", "alice@example.com")
	bobToken, _ := api.register("Bob Jones", "bob@example.com")
	api.register("Jane Smith", "jane@example.com")
	p := api.seedProperty("Shared flat", "Mumbai", 100000, false, &alice.ID)

	recommend := func(token string, body RecommendRequest) *httptest.ResponseRecorder {
		return api.do(http.MethodPost, "/api/v1/recommendations", token, body)
	}

	rec := recommend(aliceToken, RecommendRequest{PropertyID: p.ID.String(), ToEmail: "BOB@example.com", Message: "hi"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[RecommendResponse](t, rec)
	assert.True(t, created.Success)
	assert.Equal(t, "hi", created.Data.Message)
	assert.Equal(t, "Shared flat", created.Data.Property.Title)
	assert.Equal(t, p.ID, created.Data.Property.ID)
	assert.Equal(t, "Apartment", created.Data.Property.Type)
	assert.Equal(t, []string{"gym", "pool"}, created.Data.Property.Amenities)
	assert.Equal(t, "2025-04-01", created.Data.Property.AvailableFrom)
	require.NotNil(t, created.Data.Property.Owner)
	assert.Equal(t, "alice@example.com", created.Data.Property.Owner.Email)
	assert.Equal(t, "alice@example.com", created.Data.FromUser.Email)
	require.NotNil(t, created.Data.ToUser)
	assert.Equal(t, "bob@example.com", created.Data.ToUser.Email)

	errorCases := []struct {
		name   string
		body   RecommendRequest
		status int
		msg    string
	}{
		{"duplicate", RecommendRequest{PropertyID: p.ID.String(), ToEmail: "bob@example.com"}, http.StatusConflict, "duplicate"},
		{"missing fields", RecommendRequest{ToEmail: "bob@example.com"}, http.StatusBadRequest, "missing fields"},
		{"unknown property", RecommendRequest{PropertyID: uuid.NewString(), ToEmail: "bad"}, http.StatusNotFound, "property not found"},
		{"bad email", RecommendRequest{PropertyID: p.ID.String(), ToEmail: "bob"}, http.StatusBadRequest, "bad email"},
		{"unknown recipient", RecommendRequest{PropertyID: p.ID.String(), ToEmail: "ghost@nowhere.com"}, http.StatusNotFound, "recipient not found"},
		{"self", RecommendRequest{PropertyID: p.ID.String(), ToEmail: "alice@example.com"}, http.StatusBadRequest, "self-recommend"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := recommend(aliceToken, tc.body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.msg, decode[ErrorResponse](t, rec).Error)
		})
	}

	t.Run("received and mark read", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/recommendations/received", bobToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		received := decode[[]RecommendationResponse](t, rec)
		require.Len(t, received, 1)
		assert.False(t, received[0].Read)
		assert.Equal(t, "Alice Jane", received[0].FromUser.Name)

		readPath := "/api/v1/recommendations/" + received[0].ID.String() + "/read"
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodPatch, readPath, aliceToken, nil).Code)
		assert.Equal(t, http.StatusOK, api.do(http.MethodPatch, readPath, bobToken, nil).Code)
		assert.Equal(t, http.StatusOK, api.do(http.MethodPatch, readPath, bobToken, nil).Code)

		received = decode[[]RecommendationResponse](t, api.do(http.MethodGet, "/api/v1/recommendations/received", bobToken, nil))
		assert.True(t, received[0].Read)
	})

	t.Run("search users", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/recommendations/search-users?query=jane", aliceToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		users := decode[[]UserSummaryResponse](t, rec)
		require.Len(t, users, 1)
		assert.Equal(t, "jane@example.com", users[0].Email)

		assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/v1/recommendations/search-users", aliceToken, nil).Code)
	})
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrMissingFields, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrSampleImmutable, http.StatusForbidden},
		{domain.ErrRecipientNotFound, http.StatusNotFound},
		{domain.ErrDuplicateRecommendation, http.StatusConflict},
		{domain.NewInternalError("insert", fmt.Errorf("boom")), http.StatusInternalServerError},
		{fmt.Errorf("unexpected"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusForError(tt.err), tt.err.Error())
	}
}

func TestInternalErrorMessageIsGeneric(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, contextkeys.NoopLogger(), domain.NewInternalError("insert", fmt.Errorf("pq: connection refused")), "Failed to recommend property")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to recommend property", decode[ErrorResponse](t, rec).Error)
}
