// Package catalog loads the discount list eggs are minted from.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"egg-hunt/internal/scene"
)

var (
	ErrEmptyCode     = errors.New("empty discount code")
	ErrDuplicateCode = errors.New("duplicate discount code")
	ErrBadRarity     = errors.New("unknown rarity")
	ErrBadSize       = errors.New("unknown size")
	ErrNoValue       = errors.New("missing display value")
)

// file is the on-disk YAML layout.
type file struct {
	SpoiledMessage string                   `yaml:"spoiled_message"`
	RedemptionLink string                   `yaml:"redemption_link"`
	Guaranteed     *scene.DiscountTemplate  `yaml:"guaranteed"`
	Discounts      []scene.DiscountTemplate `yaml:"discounts"`
}

// Load reads a YAML catalog from disk and validates it.
func Load(path string) (scene.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scene.Catalog{}, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog. Unknown fields are rejected.
func Parse(data []byte) (scene.Catalog, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return scene.Catalog{}, fmt.Errorf("parse catalog YAML: %w", err)
	}

	cat := scene.Catalog{
		Discounts:      f.Discounts,
		SpoiledMessage: f.SpoiledMessage,
	}
	if f.Guaranteed != nil {
		cat.Guaranteed = *f.Guaranteed
	}
	if f.RedemptionLink != "" {
		for i := range cat.Discounts {
			if cat.Discounts[i].RedemptionLink == "" {
				cat.Discounts[i].RedemptionLink = f.RedemptionLink
			}
		}
		if cat.Guaranteed.Code != "" && cat.Guaranteed.RedemptionLink == "" {
			cat.Guaranteed.RedemptionLink = f.RedemptionLink
		}
	}

	if err := Validate(cat); err != nil {
		return scene.Catalog{}, err
	}
	return cat, nil
}

// Validate checks every entry. Catalog codes must be unique among
// themselves; the guaranteed code may repeat one of them since generation
// re-mints collisions.
func Validate(cat scene.Catalog) error {
	seen := make(map[string]int, len(cat.Discounts))
	for i, d := range cat.Discounts {
		if err := validateEntry(d); err != nil {
			return fmt.Errorf("discount %d: %w", i, err)
		}
		if j, ok := seen[d.Code]; ok {
			return fmt.Errorf("discount %d: %w %q (first at %d)", i, ErrDuplicateCode, d.Code, j)
		}
		seen[d.Code] = i
	}
	if cat.Guaranteed.Code != "" {
		if err := validateEntry(cat.Guaranteed); err != nil {
			return fmt.Errorf("guaranteed: %w", err)
		}
	}
	return nil
}

func validateEntry(d scene.DiscountTemplate) error {
	switch {
	case d.Code == "":
		return ErrEmptyCode
	case d.DisplayValue == "":
		return fmt.Errorf("%q: %w", d.Code, ErrNoValue)
	case !d.Rarity.Valid():
		return fmt.Errorf("%q: %w %q", d.Code, ErrBadRarity, d.Rarity)
	case !d.Size.Valid():
		return fmt.Errorf("%q: %w %q", d.Code, ErrBadSize, d.Size)
	}
	return nil
}

// Default returns the built-in pottery studio catalog.
func Default() scene.Catalog {
	link := scene.DefaultRedemptionLink
	return scene.Catalog{
		Guaranteed:     scene.DefaultGuaranteed,
		SpoiledMessage: scene.DefaultSpoiledMessage,
		Discounts: []scene.DiscountTemplate{
			{Code: "POTTERY5", DisplayValue: "$5 off pottery wheel class", Rarity: scene.RarityCommon, Size: scene.SizeMedium, RedemptionLink: link},
			{Code: "MUG10", DisplayValue: "$10 off the perfect mug", Rarity: scene.RarityCommon, Size: scene.SizeMedium, RedemptionLink: link},
			{Code: "GLAZE60", DisplayValue: "60% off glazing", Rarity: scene.RarityRare, Size: scene.SizeSmall, RedemptionLink: link},
			{Code: "WHEEL10", DisplayValue: "$10 off pottery wheel class", Rarity: scene.RarityCommon, Size: scene.SizeMedium, RedemptionLink: link},
			{Code: "CLASS25", DisplayValue: "25% off any class", Rarity: scene.RarityUncommon, Size: scene.SizeSmall, RedemptionLink: link},
			{Code: "CLASS10", DisplayValue: "10% off any class", Rarity: scene.RarityCommon, Size: scene.SizeMedium, RedemptionLink: link},
			{Code: "HAND10", DisplayValue: "$10 off $25 Handbuilding class", Rarity: scene.RarityCommon, Size: scene.SizeMedium, RedemptionLink: link},
		},
	}
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist. Any other failure is returned.
func LoadOrDefault(path string) (scene.Catalog, bool, error) {
	cat, err := Load(path)
	if err == nil {
		return cat, false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return Default(), true, nil
	}
	return scene.Catalog{}, false, err
}
