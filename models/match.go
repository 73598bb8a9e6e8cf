package models

// Match records a single finished game. Winner is always Host or Guest.
type Match struct {
	Host   int `json:"host"`
	Guest  int `json:"guest"`
	Winner int `json:"winner"`
}

// Loser returns the player who did not win.
func (m Match) Loser() int {
	if m.Winner == m.Host {
		return m.Guest
	}
	return m.Host
}
