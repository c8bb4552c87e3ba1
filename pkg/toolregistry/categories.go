package toolregistry

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Category represents the kind of work a tool does
type Category string

const (
	CategorySearch        Category = "search"
	CategoryReports       Category = "reports"
	CategoryActions       Category = "actions"
	CategoryHelpers       Category = "helpers"
	CategoryCommunication Category = "communication"
)

// ErrInvalidCategory is returned when a string does not name a known category
var ErrInvalidCategory = errors.New("invalid category")

// AllCategories returns all valid tool categories
func AllCategories() []Category {
	return []Category{
		CategorySearch,
		CategoryReports,
		CategoryActions,
		CategoryHelpers,
		CategoryCommunication,
	}
}

// IsValidCategory checks if a category is valid
func IsValidCategory(category string) bool {
	_, err := ParseCategory(category)
	return err == nil
}

// ParseCategory converts a case-insensitive category name into a Category
func ParseCategory(category string) (Category, error) {
	cat := Category(strings.ToLower(strings.TrimSpace(category)))
	for _, valid := range AllCategories() {
		if cat == valid {
			return cat, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidCategory, "%q", category)
}

// String implements fmt.Stringer
func (c Category) String() string {
	return string(c)
}
