// Package seed generates demo catalogs for development stores.
package seed

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/app/catalog/domain"
)

// Price bounds in cents.
const (
	MinPriceCents = 20_00
	MaxPriceCents = 5000_00
)

var brandNames = []string{
	"Acme", "Globex", "Initech", "Umbrella", "Hooli",
	"Stark", "Wayne", "Wonka", "Tyrell", "Cyberdyne",
}

var categoryNames = []string{
	"Laptops", "Phones", "Audio", "Cameras", "Monitors",
	"Accessories", "Wearables", "Gaming", "Storage", "Networking",
}

var words = strings.Fields(`lorem ipsum dolor sit amet consectetur adipiscing elit
sed do eiusmod tempor incididunt ut labore et dolore magna aliqua enim ad minim
veniam quis nostrud exercitation ullamco laboris nisi aliquip ex ea commodo
consequat duis aute irure in reprehenderit voluptate velit esse cillum fugiat
nulla pariatur excepteur sint occaecat cupidatat non proident sunt culpa qui
officia deserunt mollit anim id est laborum`)

// Options controls the size and randomness of a generated catalog.
type Options struct {
	Brands     int
	Categories int
	Products   int
	// Seed makes generation repeatable: equal options yield equal catalogs.
	Seed uint64
	// Start is the creation time of the first product; later products are
	// one second apart.
	Start time.Time
}

// DefaultOptions returns 5 brands, 5 categories and 20 products.
func DefaultOptions() Options {
	return Options{
		Brands:     5,
		Categories: 5,
		Products:   20,
		Seed:       1,
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Generate builds a catalog. Every product gets a random brand and
// category, a capitalized two-word name, a lorem description and a price
// between 20.00 and 5000.00.
func Generate(opts Options) (*contracts.Catalog, error) {
	if opts.Brands < 1 || opts.Brands > len(brandNames) {
		return nil, fmt.Errorf("brands must be between 1 and %d, got %d", len(brandNames), opts.Brands)
	}
	if opts.Categories < 1 || opts.Categories > len(categoryNames) {
		return nil, fmt.Errorf("categories must be between 1 and %d, got %d", len(categoryNames), opts.Categories)
	}
	if opts.Products < 0 {
		return nil, fmt.Errorf("products must not be negative, got %d", opts.Products)
	}

	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], opts.Seed)
	src := rand.NewChaCha8(key)
	rng := rand.New(src)

	newID := func() (string, error) {
		id, err := uuid.NewRandomFromReader(src)
		if err != nil {
			return "", fmt.Errorf("failed to generate id: %w", err)
		}
		return id.String(), nil
	}

	catalog := &contracts.Catalog{}
	for _, name := range brandNames[:opts.Brands] {
		id, err := newID()
		if err != nil {
			return nil, err
		}
		catalog.Brands = append(catalog.Brands, domain.Reference{ID: id, Name: name})
	}
	for _, name := range categoryNames[:opts.Categories] {
		id, err := newID()
		if err != nil {
			return nil, err
		}
		catalog.Categories = append(catalog.Categories, domain.Reference{ID: id, Name: name})
	}

	for i := 0; i < opts.Products; i++ {
		id, err := newID()
		if err != nil {
			return nil, err
		}
		price, err := domain.NewMoney(MinPriceCents+rng.Int64N(MaxPriceCents-MinPriceCents+1), 100)
		if err != nil {
			return nil, err
		}
		brandID := catalog.Brands[rng.IntN(len(catalog.Brands))].ID
		categoryID := catalog.Categories[rng.IntN(len(catalog.Categories))].ID
		description := sentences(rng, 2)

		catalog.Products = append(catalog.Products, &domain.Product{
			ID:          id,
			Name:        capitalize(pickWords(rng, 2)),
			Description: &description,
			Price:       price,
			BrandID:     &brandID,
			CategoryID:  &categoryID,
			CreatedAt:   opts.Start.Add(time.Duration(i) * time.Second),
		})
	}

	return catalog, nil
}

func pickWords(rng *rand.Rand, n int) string {
	picked := make([]string, n)
	for i := range picked {
		picked[i] = words[rng.IntN(len(words))]
	}
	return strings.Join(picked, " ")
}

func sentences(rng *rand.Rand, n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = capitalize(pickWords(rng, 6+rng.IntN(6))) + "."
	}
	return strings.Join(out, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
