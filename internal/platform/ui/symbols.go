// internal/platform/ui/symbols.go
package ui

import (
	"github.com/pterm/pterm"

	"oppsync/internal/core/domain"
)

// Status representa el estado visual de un source.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusSuccess
	StatusWarning
	StatusError
)

// StatusFor convierte el status final de un source en su estado visual.
func StatusFor(s domain.SourceStatus) Status {
	switch s {
	case domain.SourceStatusSuccess:
		return StatusSuccess
	case domain.SourceStatusNoItems:
		return StatusWarning
	case domain.SourceStatusError:
		return StatusError
	default:
		return StatusPending
	}
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Symbol retorna el símbolo Unicode que precede a cada línea de source.
func (s Status) Symbol() string {
	switch s {
	case StatusPending:
		return "⏸"
	case StatusRunning:
		return "⣾"
	case StatusSuccess:
		return "✓"
	case StatusWarning:
		return "⚠"
	case StatusError:
		return "✗"
	default:
		return "?"
	}
}

// Color retorna el color pterm para cada estado.
func (s Status) Color() pterm.Color {
	switch s {
	case StatusRunning:
		return pterm.FgCyan
	case StatusSuccess:
		return pterm.FgGreen
	case StatusWarning:
		return pterm.FgYellow
	case StatusError:
		return pterm.FgRed
	default:
		return pterm.FgGray
	}
}

// Style retorna un pterm.Style configurado para el estado.
func (s Status) Style() *pterm.Style {
	return pterm.NewStyle(s.Color())
}

// Icons globales para la UI
var (
	IconSources = "🔌"
	IconItems   = "📦"
	IconTime    = "⏱"
	IconLinks   = "🔗"
)

// Separadores y bordes
var (
	SeparatorHeavy = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	SeparatorLight = "────────────────────────────────────────────"
)
