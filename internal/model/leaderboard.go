package model

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	PlayerName string  `json:"player_name"`
	Score      int     `json:"score"`
	GamesWon   int     `json:"games_won"`
	WinRate    float64 `json:"win_rate"`
}
