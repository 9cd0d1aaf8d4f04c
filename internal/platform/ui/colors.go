// internal/platform/ui/colors.go
package ui

import "github.com/pterm/pterm"

// Paleta de colores
var (
	// Ember cabeceras y valores destacados
	Ember = pterm.NewRGB(255, 107, 53)

	// Crimson fallos
	Crimson = pterm.NewRGB(215, 38, 56)

	// Gold avisos y conteos de omitidos
	Gold = pterm.NewRGB(255, 182, 39)

	// Ash texto secundario
	Ash = pterm.NewRGB(110, 110, 110)

	// Cyan éxitos y conteos de creados
	Cyan = pterm.NewRGB(0, 206, 209)
)

// Estilos preconfigurados.
var (
	StylePrimary   = Ember.ToRGBStyle()
	StyleSuccess   = Cyan.ToRGBStyle()
	StyleWarning   = Gold.ToRGBStyle()
	StyleError     = Crimson.ToRGBStyle()
	StyleSecondary = Ash.ToRGBStyle()
)
