package types

import (
	"time"

	"github.com/riordanpawley/sluse/internal/domain"
)

// Toast is a transient notice stacked above the status bar
type Toast struct {
	Level   ToastLevel
	Message string
	Periods []domain.Period // periods the notice is about, drawn in their panel colors
	Expires time.Time
}

// Active reports whether the toast is still shown at now
func (t Toast) Active(now time.Time) bool {
	return t.Expires.After(now)
}

// ToastLevel indicates the severity of a toast
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastWarning
	ToastError
)
