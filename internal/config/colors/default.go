package colors

// Default returns the default color scheme (purple theme)
func Default() *ColorScheme {
	return &ColorScheme{
		Preset: "default",
		Accent: "#874BFD",

		ColumnBorder:   "#5F87D7",
		CardBorder:     "#585858",
		CardBackground: "#262626",
		SelectedBorder: "#D75FD7",
		DragBorder:     "#FFD700",

		Title:  "#D75FD7",
		Subtle: "#585858",
		Normal: "#D0D0D0",
		Amount: "#5FD75F",

		SuccessFg: "#5FD75F",
		SuccessBg: "#005F00",
		ErrorFg:   "#FF0000",
		ErrorBg:   "#5F0000",
	}
}
