package statusbar

// GetHints returns the keybinding hints for the given state
func GetHints(s State) string {
	if s.Refreshing {
		return "q: quit"
	}
	return "r: refresh  q: quit"
}
