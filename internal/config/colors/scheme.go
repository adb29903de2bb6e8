package colors

// ColorScheme defines all configurable color values
type ColorScheme struct {
	// Preset name (e.g., "default", "monochrome")
	Preset string `yaml:"preset"`

	// Primary accent color (used for selections, titles, highlights)
	Accent string `yaml:"accent"`

	// UI element colors
	ColumnBorder   string `yaml:"column_border"`
	CardBorder     string `yaml:"card_border"`
	CardBackground string `yaml:"card_background"`
	SelectedBorder string `yaml:"selected_border"`
	DragBorder     string `yaml:"drag_border"`

	// Text colors
	Title  string `yaml:"title"`
	Subtle string `yaml:"subtle"` // Muted text and unconfirmed entities
	Normal string `yaml:"normal"`
	Amount string `yaml:"amount"`

	// Notification colors (foreground/background pairs)
	SuccessFg string `yaml:"success_fg"`
	SuccessBg string `yaml:"success_bg"`
	ErrorFg   string `yaml:"error_fg"`
	ErrorBg   string `yaml:"error_bg"`
}

// GetPreset returns a preset color scheme by name
func GetPreset(name string) *ColorScheme {
	switch name {
	case "monochrome":
		return Monochrome()
	default:
		return Default()
	}
}

// ApplyDefaults fills in missing color values using the preset as base
func (c *ColorScheme) ApplyDefaults() {
	preset := GetPreset(c.Preset)
	if c.Preset == "" {
		c.Preset = preset.Preset
	}
	c.MergeMissing(*preset)
}

// MergeMissing copies every color of other that c leaves empty
func (c *ColorScheme) MergeMissing(other ColorScheme) {
	for i, field := range c.fields() {
		if *field == "" {
			*field = *other.fields()[i]
		}
	}
}

// MergeFrom overrides c with every color other sets
func (c *ColorScheme) MergeFrom(other ColorScheme) {
	if other.Preset != "" {
		c.Preset = other.Preset
	}
	for i, field := range other.fields() {
		if *field != "" {
			*c.fields()[i] = *field
		}
	}
}

func (c *ColorScheme) fields() []*string {
	return []*string{
		&c.Accent,
		&c.ColumnBorder, &c.CardBorder, &c.CardBackground, &c.SelectedBorder, &c.DragBorder,
		&c.Title, &c.Subtle, &c.Normal, &c.Amount,
		&c.SuccessFg, &c.SuccessBg, &c.ErrorFg, &c.ErrorBg,
	}
}
