package importer

import (
	"strings"
	"testing"
	"time"

	"marketplace-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "id,title,type,price,state,city,areaSqFt,bedrooms,bathrooms,amenities,furnished,availableFrom,listedBy,tags,colorTheme,rating,isVerified,listingType\n"

func TestReadProperties(t *testing.T) {
	data := "\ufeff" + header +
		"PROP1000,Sea view flat,Apartment,250000,Maharashtra,Navi Mumbai,1200,2,2,pool|gym|,Semi,01-03-2025,Owner,sea-view|new,#6ab45e,4.2,TRUE,sale\n" +
		"\n" +
		"PROP1001,Hill villa,Villa,90000,Karnataka,Bangalore,3400,5,4,garden,Furnished,15-11-2024,Agent,,#ffffff,3,false,rent\n"

	props, err := ReadProperties(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, props, 2)

	first := props[0]
	assert.Equal(t, "Sea view flat", first.Title)
	assert.Equal(t, domain.PropertyType("Apartment"), first.Type)
	assert.Equal(t, 250000.0, first.Price)
	assert.Equal(t, "Navi Mumbai", first.City)
	assert.Equal(t, 1200.0, first.AreaSqFt)
	assert.Equal(t, 2, first.Bedrooms)
	assert.Equal(t, []string{"pool", "gym"}, first.Amenities)
	assert.Equal(t, []string{"sea-view", "new"}, first.Tags)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), first.AvailableFrom)
	assert.Equal(t, 4.2, first.Rating)
	assert.True(t, first.IsVerified)
	assert.Equal(t, domain.ListingType("sale"), first.ListingType)

	second := props[1]
	assert.Empty(t, second.Tags)
	assert.False(t, second.IsVerified)
	assert.Equal(t, time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC), second.AvailableFrom)
}

func TestReadPropertiesReportsRow(t *testing.T) {
	data := header +
		"PROP1000,Sea view flat,Apartment,250000,Maharashtra,Mumbai,1200,2,2,pool,Semi,01-03-2025,Owner,new,#fff,4.2,TRUE,sale\n" +
		"PROP1001,Castle,Castle,1,Maharashtra,Mumbai,1,1,1,pool,Semi,01-03-2025,Owner,new,#fff,4.2,TRUE,sale\n"

	_, err := ReadProperties(strings.NewReader(data))
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 2, rowErr.Row)
}

func TestReadPropertiesRejectsRaggedRows(t *testing.T) {
	_, err := ReadProperties(strings.NewReader(header + "PROP1,only,three\n"))
	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Row)
}

func TestReadPropertiesEmptyFile(t *testing.T) {
	_, err := ReadProperties(strings.NewReader(""))
	assert.Error(t, err)
}

func TestRecordToPropertyRejectsIsoDate(t *testing.T) {
	record := map[string]string{
		"title": "Flat", "type": "Studio", "price": "100", "state": "Goa", "city": "Panaji",
		"areaSqFt": "300", "bedrooms": "1", "bathrooms": "1", "amenities": "", "furnished": "Unfurnished",
		"availableFrom": "2025-03-01", "listedBy": "Builder", "tags": "", "colorTheme": "",
		"rating": "0", "isVerified": "FALSE", "listingType": "rent",
	}
	_, err := RecordToProperty(record)
	assert.Error(t, err)

	record["availableFrom"] = "01-03-2025"
	p, err := RecordToProperty(record)
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyType("Studio"), p.Type)
}
