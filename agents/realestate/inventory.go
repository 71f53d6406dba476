package realestate

import (
	"fmt"
	"strconv"
	"strings"
)

// Property is one listing in the agency's inventory.
type Property struct {
	ID          string `yaml:"id"`
	Address     string `yaml:"address"`
	Price       int    `yaml:"price"`
	Bedrooms    int    `yaml:"bedrooms"`
	Bathrooms   int    `yaml:"bathrooms"`
	SquareFeet  int    `yaml:"sqft"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// Inventory is the sample listing database. A production deployment would
// back this with an MLS feed or listings API.
var Inventory = []Property{
	{
		ID:          "P001",
		Address:     "123 Main Street",
		Price:       350000,
		Bedrooms:    3,
		Bathrooms:   2,
		SquareFeet:  1800,
		Type:        "Single Family Home",
		Description: "Beautiful single-family home with a spacious backyard, updated kitchen, and hardwood floors throughout.",
	},
	{
		ID:          "P002",
		Address:     "456 Oak Avenue",
		Price:       275000,
		Bedrooms:    2,
		Bathrooms:   2,
		SquareFeet:  1200,
		Type:        "Condo",
		Description: "Modern condo in the heart of downtown with stunning city views, stainless steel appliances, and a fitness center in the building.",
	},
	{
		ID:          "P003",
		Address:     "789 Pine Road",
		Price:       425000,
		Bedrooms:    4,
		Bathrooms:   3,
		SquareFeet:  2400,
		Type:        "Single Family Home",
		Description: "Spacious family home in a quiet neighborhood with a two-car garage, finished basement, and newly renovated bathrooms.",
	},
	{
		ID:          "P004",
		Address:     "101 River Lane",
		Price:       550000,
		Bedrooms:    5,
		Bathrooms:   4,
		SquareFeet:  3200,
		Type:        "Luxury Home",
		Description: "Luxurious home with an open floor plan, gourmet kitchen, master suite with walk-in closet, and a private pool in the backyard.",
	},
}

// FindPropertyByAddress looks up a listing by street address, case-insensitive.
func FindPropertyByAddress(address string) (Property, bool) {
	for _, p := range Inventory {
		if strings.EqualFold(p.Address, address) {
			return p, true
		}
	}
	return Property{}, false
}

// Describe renders the listing block shown in search results.
func (p Property) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Price: $%s\n", groupThousands(p.Price))
	fmt.Fprintf(&b, "%d bed, %d bath, %d sq ft\n", p.Bedrooms, p.Bathrooms, p.SquareFeet)
	fmt.Fprintf(&b, "Type: %s\n", p.Type)
	fmt.Fprintf(&b, "Description: %s\n", p.Description)
	return b.String()
}

// groupThousands formats n with comma separators.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if n < 0 {
		return "-" + b.String()
	}
	return b.String()
}
