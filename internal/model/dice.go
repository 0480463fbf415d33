// Package model 包含了应用的数据模型定义。
package model

import "time"

// Dice 对应数据库中的 dice 表，每次成功掷骰追加一行，之后不再修改。
type Dice struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Value     int       `gorm:"not null" json:"value"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;default:CURRENT_TIMESTAMP;autoUpdateTime:false" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Dice) TableName() string {
	return "dice"
}

// DiceValue 是掷骰 API 的请求体与响应体，例如 {"value": 3}。
// 作为请求体时 Value 可省略，省略时由服务端随机生成出目。
type DiceValue struct {
	Value *int `json:"value" binding:"omitempty,min=1,max=6"`
}

// NewDiceValue 用给定出目创建一个 DiceValue。
func NewDiceValue(value int) DiceValue {
	return DiceValue{Value: &value}
}

// DiceHistory 是出目履历 API 返回的单条记录。
type DiceHistory struct {
	ID        uint      `json:"id"`
	Value     int       `json:"value"`
	UpdatedAt LocalTime `json:"updatedAt"`
}

// NewDiceHistory 将数据库记录转换为 API 响应结构。
func NewDiceHistory(d Dice) DiceHistory {
	return DiceHistory{
		ID:        d.ID,
		Value:     d.Value,
		UpdatedAt: LocalTime(d.UpdatedAt),
	}
}
