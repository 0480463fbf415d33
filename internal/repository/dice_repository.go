// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"fmt"
	"rollingdice-go/internal/model"
	"rollingdice-go/pkg/log"

	"gorm.io/gorm"
)

const (
	insertDiceSQL = "INSERT INTO dice(value) VALUES(?)"
	listDiceSQL   = "SELECT id, value, updated_at FROM dice ORDER BY id DESC"
)

// DiceRepository 定义了出目履历的持久化操作。记录只追加和读取，不更新也不删除。
type DiceRepository interface {
	Insert(ctx context.Context, value int) error
	FindAllOrderByIDDesc(ctx context.Context) ([]model.Dice, error)
}

// diceRepository 是 DiceRepository 接口的 GORM 实现。
// id 与 updated_at 均由数据库在插入时赋值。
type diceRepository struct {
	db *gorm.DB
}

// NewDiceRepository 创建一个新的 DiceRepository 实例。
func NewDiceRepository(db *gorm.DB) DiceRepository {
	return &diceRepository{db: db}
}

// Insert 追加一条出目记录。
func (r *diceRepository) Insert(ctx context.Context, value int) error {
	log.Infof("[DiceRepository] The sql to execute is: '%s'. And the value to give is: '%d'", insertDiceSQL, value)
	result := r.db.WithContext(ctx).Exec(insertDiceSQL, value)
	if result.Error != nil {
		return fmt.Errorf("failed to insert dice: %w", result.Error)
	}
	log.Infof("[DiceRepository] The record count of the executed sql is: '%d'", result.RowsAffected)
	return nil
}

// FindAllOrderByIDDesc 按 id 降序返回全部出目记录，最新的在前。
func (r *diceRepository) FindAllOrderByIDDesc(ctx context.Context) ([]model.Dice, error) {
	log.Infof("[DiceRepository] The sql to execute is: '%s'", listDiceSQL)
	list := make([]model.Dice, 0)
	if err := r.db.WithContext(ctx).Raw(listDiceSQL).Scan(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list dice: %w", err)
	}
	log.Infof("[DiceRepository] The record count of the executed sql is: '%d'", len(list))
	return list, nil
}
