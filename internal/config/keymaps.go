package config

// KeyMappings defines all configurable key bindings of the terminal board
type KeyMappings struct {
	// Navigation
	PrevColumn string `yaml:"prev_column"`
	NextColumn string `yaml:"next_column"`
	PrevDeal   string `yaml:"prev_deal"`
	NextDeal   string `yaml:"next_deal"`

	// Drag and drop
	GrabDeal   string `yaml:"grab_deal"`
	GrabColumn string `yaml:"grab_column"`
	Drop       string `yaml:"drop"`
	Cancel     string `yaml:"cancel"`

	// Deals
	AddDeal    string `yaml:"add_deal"`
	DeleteDeal string `yaml:"delete_deal"`

	// Columns
	CreateColumn  string `yaml:"create_column"`
	RenameColumn  string `yaml:"rename_column"`
	ArchiveColumn string `yaml:"archive_column"`

	// Other
	Reload   string `yaml:"reload"`
	ShowHelp string `yaml:"show_help"`
	Quit     string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		PrevColumn: "h",
		NextColumn: "l",
		PrevDeal:   "k",
		NextDeal:   "j",

		GrabDeal:   "space",
		GrabColumn: "m",
		Drop:       "enter",
		Cancel:     "esc",

		AddDeal:    "a",
		DeleteDeal: "d",

		CreateColumn:  "C",
		RenameColumn:  "R",
		ArchiveColumn: "X",

		Reload:   "r",
		ShowHelp: "?",
		Quit:     "q",
	}
}

// applyDefaults fills in missing key mappings with defaults
func (k *KeyMappings) applyDefaults() {
	d := DefaultKeyMappings()

	setDefault(&k.PrevColumn, d.PrevColumn)
	setDefault(&k.NextColumn, d.NextColumn)
	setDefault(&k.PrevDeal, d.PrevDeal)
	setDefault(&k.NextDeal, d.NextDeal)
	setDefault(&k.GrabDeal, d.GrabDeal)
	setDefault(&k.GrabColumn, d.GrabColumn)
	setDefault(&k.Drop, d.Drop)
	setDefault(&k.Cancel, d.Cancel)
	setDefault(&k.AddDeal, d.AddDeal)
	setDefault(&k.DeleteDeal, d.DeleteDeal)
	setDefault(&k.CreateColumn, d.CreateColumn)
	setDefault(&k.RenameColumn, d.RenameColumn)
	setDefault(&k.ArchiveColumn, d.ArchiveColumn)
	setDefault(&k.Reload, d.Reload)
	setDefault(&k.ShowHelp, d.ShowHelp)
	setDefault(&k.Quit, d.Quit)
}

func setDefault(value *string, fallback string) {
	if *value == "" {
		*value = fallback
	}
}
