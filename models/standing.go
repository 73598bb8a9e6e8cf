package models

// PlayerStanding is derived from players and matches on every query; it is never stored.
type PlayerStanding struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Wins    int    `json:"wins"`
	Matches int    `json:"matches"`
}

// Pairing is one head-to-head assignment for the next round.
type Pairing struct {
	ID1   int    `json:"id1"`
	Name1 string `json:"name1"`
	ID2   int    `json:"id2"`
	Name2 string `json:"name2"`
}
