package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryPropertiesPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 11; i++ {
		f.addProperty(t, "extra", f.bob.ID)
	}
	uc := NewQueryPropertiesUseCase(f.properties)

	page, err := uc.Execute(ctx, domain.PropertyQuery{Page: domain.PageRequest{Page: 2, Limit: 5}})
	require.NoError(t, err)
	assert.EqualValues(t, 12, page.Total)
	assert.Equal(t, 3, page.PageCount)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Items, 5)

	page, err = uc.Execute(ctx, domain.PropertyQuery{Page: domain.PageRequest{Page: 4, Limit: 5}})
	require.NoError(t, err)
	assert.EqualValues(t, 12, page.Total)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)

	page, err = uc.Execute(ctx, domain.PropertyQuery{})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLimit, page.Limit)
	assert.Len(t, page.Items, 10)

	page, err = uc.Execute(ctx, domain.PropertyQuery{Page: domain.PageRequest{Page: math.MaxInt / 10, Limit: domain.MaxLimit}})
	require.NoError(t, err)
	assert.EqualValues(t, 12, page.Total)
	assert.Empty(t, page.Items)

	_, err = uc.Execute(ctx, domain.PropertyQuery{Page: domain.PageRequest{Page: 0, Limit: 5}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestQueryPropertiesFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	villa := f.addProperty(t, "Hill villa", f.bob.ID)
	villa.Type = domain.PropertyTypeVilla
	villa.City = "Shimla"
	villa.Amenities = []string{"garden", "parking"}
	require.NoError(t, f.properties.Update(ctx, villa))

	page, err := NewQueryPropertiesUseCase(f.properties).Execute(ctx, domain.PropertyQuery{
		Filter: domain.PropertyFilter{Type: "Villa", City: "SHIM", Amenities: []string{"parking"}},
		Page:   domain.PageRequest{Page: 1, Limit: 10},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, villa.ID, page.Items[0].ID)
	require.NotNil(t, page.Items[0].Owner)
	assert.Equal(t, "Bob Jones", page.Items[0].Owner.Name)
}

func TestQueryPropertiesStoreFailure(t *testing.T) {
	f := newFixture(t)
	_, err := NewQueryPropertiesUseCase(failingPropertyRepo{f.properties}).Execute(context.Background(), domain.PropertyQuery{})
	assert.ErrorIs(t, err, domain.ErrInternal)
}

func TestCreateAndListOwnProperties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := NewCreatePropertyUseCase(f.properties).Execute(ctx, f.bob.ID, domain.Property{
		Title: "Penthouse", Type: domain.PropertyTypePenthouse, Price: 900000, State: "Delhi", City: "New Delhi",
		AreaSqFt: 3000, Bedrooms: 4, Bathrooms: 4, Furnished: domain.FurnishedFull,
		AvailableFrom: time.Now(), ListedBy: domain.ListedByBuilder, ListingType: domain.ListingTypeSale,
		IsSample: true,
	})
	require.NoError(t, err)
	assert.False(t, created.IsSample)
	assert.True(t, created.IsOwnedBy(f.bob.ID))

	_, err = NewCreatePropertyUseCase(f.properties).Execute(ctx, f.bob.ID, domain.Property{Title: "broken"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	own, err := NewListOwnPropertiesUseCase(f.properties).Execute(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, created.ID, own[0].ID)

	got, err := NewGetPropertyUseCase(f.properties).Execute(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Owner)
	assert.Equal(t, "bob@example.com", got.Owner.Email)

	_, err = NewGetPropertyUseCase(f.properties).Execute(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrPropertyNotFound)
}

func TestUpdatePropertyRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewUpdatePropertyUseCase(f.properties)
	newTitle := "Bright studio"

	_, err := uc.Execute(ctx, f.bob.ID, f.home.ID, domain.PropertyPatch{Title: &newTitle})
	assert.ErrorIs(t, err, domain.ErrPropertyNotOwned)

	updated, err := uc.Execute(ctx, f.alice.ID, f.home.ID, domain.PropertyPatch{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)

	stored, err := f.properties.GetByID(ctx, f.home.ID)
	require.NoError(t, err)
	assert.Equal(t, newTitle, stored.Title)

	sample, err := domain.NewSampleProperty(*stored)
	require.NoError(t, err)
	_, err = f.properties.ReplaceSamples(ctx, []domain.Property{*sample})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, f.alice.ID, sample.ID, domain.PropertyPatch{Title: &newTitle})
	assert.ErrorIs(t, err, domain.ErrSampleImmutable)
	assert.ErrorIs(t, NewDeletePropertyUseCase(f.properties).Execute(ctx, f.alice.ID, sample.ID), domain.ErrForbidden)
}

func TestDeleteProperty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewDeletePropertyUseCase(f.properties)

	assert.ErrorIs(t, uc.Execute(ctx, f.bob.ID, f.home.ID), domain.ErrNotFound)
	require.NoError(t, uc.Execute(ctx, f.alice.ID, f.home.ID))
	assert.ErrorIs(t, uc.Execute(ctx, f.alice.ID, f.home.ID), domain.ErrNotFound)
}

func TestImportSampleProperties(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewImportSamplePropertiesUseCase(f.properties)

	good := *f.home
	n, err := uc.Execute(ctx, []domain.Property{good, good})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	bad := good
	bad.Rating = 9
	_, err = uc.Execute(ctx, []domain.Property{good, bad})
	assert.ErrorIs(t, err, domain.ErrValidation)

	page, err := NewQueryPropertiesUseCase(f.properties).Execute(ctx, domain.PropertyQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total, "failed import must not touch stored samples")
	assert.False(t, page.Items[0].IsSample)
	assert.True(t, page.Items[2].IsSample)
}
