package redis

// Key layout:
//   <prefix>:scores:<game>  sorted set, member = player, score = best points
//   <prefix>:times:<game>   sorted set, member = player, score = best completion time in ms

func (l *Leaderboard) scoresKey(gameID string) string {
	return l.cfg.KeyPrefix + ":scores:" + gameID
}

func (l *Leaderboard) timesKey(gameID string) string {
	return l.cfg.KeyPrefix + ":times:" + gameID
}
