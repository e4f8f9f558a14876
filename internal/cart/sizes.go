package cart

import "strings"

var (
	shoeSizes     = []string{"6", "7", "8", "9", "10", "11"}
	clothingSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}
	pantSizes     = []string{"28", "30", "32", "34", "36"}
)

var sizeCharts = []struct {
	keywords []string
	sizes    []string
}{
	{[]string{"shoe", "sandal", "boot", "footwear"}, shoeSizes},
	{[]string{"shirt", "tshirt", "dress"}, clothingSizes},
	{[]string{"pant", "jean", "trouser"}, pantSizes},
}

// SizeChart returns the sizes offered for a category, or nil when the
// category is not sized.
func SizeChart(category string) []string {
	c := strings.ToLower(category)
	for _, chart := range sizeCharts {
		for _, kw := range chart.keywords {
			if strings.Contains(c, kw) {
				return chart.sizes
			}
		}
	}
	return nil
}

// NormalizeSize checks size against the category chart. Unsized categories
// drop the size; an empty size is allowed everywhere.
func NormalizeSize(category, size string) (*string, error) {
	size = strings.TrimSpace(size)
	chart := SizeChart(category)
	if chart == nil || size == "" {
		return nil, nil
	}
	for _, s := range chart {
		if strings.EqualFold(s, size) {
			return &s, nil
		}
	}
	return nil, ErrInvalidSize
}
