package model

// RollStats 是按出目统计的掷骰次数，存储在 Redis 中。
type RollStats struct {
	Counts map[int]int64 `json:"counts"`
	Total  int64         `json:"total"`
}

// NewRollStats 创建一个各出目计数均为 0 的 RollStats。
func NewRollStats() RollStats {
	counts := make(map[int]int64, 6)
	for face := 1; face <= 6; face++ {
		counts[face] = 0
	}
	return RollStats{Counts: counts}
}
