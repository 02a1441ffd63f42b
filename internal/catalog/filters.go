package catalog

// VisualFilter describes a pixel transform baked into a still at capture time.
// Transform is a descriptor consumed by the capture package; "none" is the
// identity filter.
type VisualFilter struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Transform string `json:"transform"`
}

var filters = []VisualFilter{
	{ID: "none", Label: "Original", Transform: "none"},
	{ID: "noir", Label: "Noir", Transform: "grayscale"},
	{ID: "sepia", Label: "Sepia", Transform: "sepia"},
	{ID: "vivid", Label: "Vivid", Transform: "saturate"},
	{ID: "invert", Label: "Negative", Transform: "invert"},
	{ID: "faded", Label: "Faded Film", Transform: "faded"},
}

// Filters returns all visual filters in display order.
func Filters() []VisualFilter {
	out := make([]VisualFilter, len(filters))
	copy(out, filters)
	return out
}

// FilterByID looks up a visual filter by identifier.
func FilterByID(id string) (VisualFilter, bool) {
	for _, f := range filters {
		if f.ID == id {
			return f, true
		}
	}
	return VisualFilter{}, false
}
