package domain

import "strings"

// Category is the elemental type printed on a token card.
// Values are title-cased and compared case-sensitively.
type Category string

const (
	CategoryFire     Category = "Fire"
	CategoryWater    Category = "Water"
	CategoryElectric Category = "Electric"
	CategoryGrass    Category = "Grass"
	CategoryShadow   Category = "Shadow"
	CategoryMeme     Category = "Meme"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFire,
	CategoryWater,
	CategoryElectric,
	CategoryGrass,
	CategoryShadow,
	CategoryMeme,
}

// categoryKeys maps lowercase boundary keys to canonical categories.
var categoryKeys = map[string]Category{
	"fire":     CategoryFire,
	"water":    CategoryWater,
	"electric": CategoryElectric,
	"grass":    CategoryGrass,
	"shadow":   CategoryShadow,
	"meme":     CategoryMeme,
}

// String returns the string representation of Category.
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is exactly one of the fixed labels.
func (c Category) IsValid() bool {
	canonical, ok := categoryKeys[c.Key()]
	return ok && canonical == c
}

// Key returns the lowercase key used in filters and URLs.
func (c Category) Key() string {
	return strings.ToLower(string(c))
}

// ParseCategory resolves a label case-insensitively.
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryKeys[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// CategoryOrDefault resolves a label, falling back to Meme for anything unknown.
func CategoryOrDefault(s string) Category {
	if c, ok := ParseCategory(s); ok {
		return c
	}
	return CategoryMeme
}
