package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InsertedAtLayout is the timestamp layout stored with every restaurant record.
const InsertedAtLayout = "2006-01-02 15:04:05"

// Business is a business directory record as fetched from the search API and
// persisted in the JSON snapshot. Cuisine is added by the scraper.
type Business struct {
	ID           string              `json:"id"`
	Alias        string              `json:"alias,omitempty"`
	Name         string              `json:"name"`
	ImageURL     string              `json:"image_url,omitempty"`
	IsClosed     bool                `json:"is_closed"`
	URL          string              `json:"url,omitempty"`
	ReviewCount  int                 `json:"review_count"`
	Categories   []BusinessCategory  `json:"categories,omitempty"`
	Rating       decimal.Decimal     `json:"rating"`
	Coordinates  BusinessCoordinates `json:"coordinates"`
	Transactions []string            `json:"transactions,omitempty"`
	Price        string              `json:"price,omitempty"`
	Location     BusinessLocation    `json:"location"`
	Phone        string              `json:"phone,omitempty"`
	DisplayPhone string              `json:"display_phone,omitempty"`
	Distance     float64             `json:"distance,omitempty"`
	Cuisine      []string            `json:"cuisine"`
}

// BusinessCategory is a directory category tag.
type BusinessCategory struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

// BusinessCoordinates holds the geo-coordinates reported by the directory.
type BusinessCoordinates struct {
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
}

// BusinessLocation holds the postal location reported by the directory.
type BusinessLocation struct {
	Address1       string   `json:"address1,omitempty"`
	Address2       string   `json:"address2,omitempty"`
	Address3       string   `json:"address3,omitempty"`
	City           string   `json:"city,omitempty"`
	ZipCode        string   `json:"zip_code"`
	Country        string   `json:"country,omitempty"`
	State          string   `json:"state,omitempty"`
	DisplayAddress []string `json:"display_address"`
}

// AddCuisine tags the business with cuisine unless it already carries it.
func (b *Business) AddCuisine(cuisine string) {
	for _, c := range b.Cuisine {
		if c == cuisine {
			return
		}
	}
	b.Cuisine = append(b.Cuisine, cuisine)
}

// ToRestaurant converts the directory record into a document store record.
func (b *Business) ToRestaurant(insertedAt time.Time) *Restaurant {
	return &Restaurant{
		BusinessID: b.ID,
		Name:       b.Name,
		Address:    strings.Join(b.Location.DisplayAddress, ", "),
		Coordinates: Coordinates{
			Latitude:  b.Coordinates.Latitude,
			Longitude: b.Coordinates.Longitude,
		},
		ReviewCount: b.ReviewCount,
		Rating:      b.Rating,
		ZipCode:     b.Location.ZipCode,
		Cuisines:    append([]string(nil), b.Cuisine...),
		InsertedAt:  insertedAt,
	}
}

// ToSearchDocument converts the directory record into its search index document.
func (b *Business) ToSearchDocument() *SearchDocument {
	return &SearchDocument{
		ID:       b.ID,
		Cuisines: append([]string(nil), b.Cuisine...),
	}
}

// Restaurant is the full record kept in the document store. Address is the
// directory display address joined with ", ".
type Restaurant struct {
	BusinessID  string          `json:"business_id" db:"business_id"`
	Name        string          `json:"name" db:"name"`
	Address     string          `json:"address" db:"address"`
	Coordinates Coordinates     `json:"coordinates"`
	ReviewCount int             `json:"num_of_reviews" db:"num_of_reviews"`
	Rating      decimal.Decimal `json:"rating" db:"rating"`
	ZipCode     string          `json:"zip_code" db:"zip_code"`
	Cuisines    []string        `json:"cuisine" db:"cuisine"`
	InsertedAt  time.Time       `json:"inserted_at_timestamp" db:"inserted_at"`
}

// Coordinates holds a latitude/longitude pair without floating point loss.
type Coordinates struct {
	Latitude  decimal.Decimal `json:"latitude"`
	Longitude decimal.Decimal `json:"longitude"`
}

// InCity reports whether the restaurant address mentions the city marker.
func (r *Restaurant) InCity(marker string) bool {
	return strings.Contains(r.Address, marker)
}

// SearchDocument is the lightweight document kept in the search index.
type SearchDocument struct {
	ID       string   `json:"id"`
	Cuisines []string `json:"cuisine"`
}
