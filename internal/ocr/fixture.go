package ocr

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vibefood/backend/internal/domain"
)

// fixtureItems is the canned Thai menu returned by FixtureExtractor.
// Item IDs here are placeholders; every extraction mints fresh ones.
var fixtureItems = []domain.MenuItem{
	{
		Name:        "Pad Thai",
		Description: "Stir-fried rice noodles with eggs, tofu, bean sprouts, and peanuts in tamarind sauce",
		Price:       12.99,
		Currency:    "USD",
		Category:    "Noodles",
		Tags:        []string{"popular", "signature"},
		Allergens:   []string{"peanuts", "eggs", "soy"},
		SpiceLevel:  1,
		Confidence:  0.95,
	},
	{
		Name:        "Green Curry",
		Description: "Creamy coconut curry with Thai basil, bamboo shoots, and your choice of protein",
		Price:       14.99,
		Currency:    "USD",
		Category:    "Curries",
		Tags:        []string{"spicy", "creamy"},
		Allergens:   []string{"coconut", "fish sauce"},
		SpiceLevel:  3,
		Confidence:  0.92,
	},
	{
		Name:        "Tom Yum Soup",
		Description: "Hot and sour soup with lemongrass, galangal, lime leaves, and mushrooms",
		Price:       8.99,
		Currency:    "USD",
		Category:    "Soups",
		Tags:        []string{"spicy", "healthy", "gluten-free"},
		Allergens:   []string{"shellfish", "fish sauce"},
		SpiceLevel:  4,
		Confidence:  0.94,
	},
	{
		Name:         "Mango Sticky Rice",
		Description:  "Sweet glutinous rice with fresh mango slices and coconut cream",
		Price:        7.99,
		Currency:     "USD",
		Category:     "Desserts",
		Tags:         []string{"sweet", "popular", "seasonal"},
		Allergens:    []string{"coconut"},
		SpiceLevel:   0,
		IsVegetarian: true,
		Confidence:   0.97,
	},
	{
		Name:         "Spring Rolls",
		Description:  "Crispy vegetable spring rolls served with sweet chili sauce",
		Price:        6.99,
		Currency:     "USD",
		Category:     "Appetizers",
		Tags:         []string{"vegetarian", "crispy", "sharing"},
		Allergens:    []string{"gluten", "soy"},
		SpiceLevel:   0,
		IsVegetarian: true,
		IsVegan:      true,
		Confidence:   0.96,
	},
	{
		Name:        "Massaman Curry",
		Description: "Rich and mild curry with potatoes, onions, and roasted peanuts",
		Price:       15.99,
		Currency:    "USD",
		Category:    "Curries",
		Tags:        []string{"mild", "comfort", "hearty"},
		Allergens:   []string{"peanuts", "coconut", "fish sauce"},
		SpiceLevel:  1,
		Confidence:  0.91,
	},
}

var fixtureRestaurant = domain.Restaurant{
	Name:        "Thai Orchid Kitchen",
	CuisineType: "Thai",
	Address:     "123 Food Street, Culinary City",
}

// FixtureExtractor is the stand-in for a real OCR integration.
type FixtureExtractor struct{}

func NewFixtureExtractor() *FixtureExtractor {
	return &FixtureExtractor{}
}

// ExtractMenu returns the fixed catalog with fresh item and menu IDs.
// imageData is accepted for interface compatibility and ignored.
func (e *FixtureExtractor) ExtractMenu(_ context.Context, sessionID string, _ []byte) (*domain.MenuData, error) {
	items := make([]domain.MenuItem, len(fixtureItems))
	for i, item := range fixtureItems {
		items[i] = item
		items[i].ID = uuid.NewString()
		items[i].Tags = append([]string(nil), item.Tags...)
		items[i].Allergens = append([]string(nil), item.Allergens...)
	}

	restaurant := fixtureRestaurant
	return &domain.MenuData{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		Items:            items,
		Restaurant:       &restaurant,
		ExtractionMethod: domain.ExtractionOCR,
		Confidence:       0.94,
		ExtractedAt:      time.Now().UTC(),
		RawText:          "[Fixture OCR text - Thai Orchid Kitchen Menu]",
		Warnings:         []string{},
	}, nil
}
