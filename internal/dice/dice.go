// Package dice 提供掷骰子的随机数生成。
package dice

import "math/rand/v2"

const (
	// MinValue 是骰子的最小出目
	MinValue = 1
	// MaxValue 是骰子的最大出目
	MaxValue = 6
)

// Roller 生成一次骰子出目。
type Roller interface {
	Roll() int
}

type randomRoller struct{}

// NewRoller 创建一个基于 math/rand/v2 全局生成器的 Roller。
// 全局生成器可被多个 goroutine 并发使用，每次调用相互独立。
func NewRoller() Roller {
	return randomRoller{}
}

// Roll 在 [MinValue, MaxValue] 上均匀地返回一个出目。
func (randomRoller) Roll() int {
	return rand.IntN(MaxValue-MinValue+1) + MinValue
}

// Valid 判断给定值是否是合法的骰子出目。
func Valid(value int) bool {
	return value >= MinValue && value <= MaxValue
}
