package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSelfBlock      = errors.New("cannot block yourself")
	ErrAlreadyBlocked = errors.New("already blocked")
)

// Block is a directional record: BlockerID blocked BlockedID. Lookups are
// symmetric; either direction counts as blocked.
type Block struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"id"`
	BlockerID uint      `gorm:"not null;index;uniqueIndex:idx_blocks_unique" json:"blocker_id"`
	BlockedID uint      `gorm:"not null;index;uniqueIndex:idx_blocks_unique" json:"blocked_id"`
	Blocked   User      `gorm:"foreignKey:BlockedID" json:"blocked"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// IsBlocked reports whether a block record exists in either direction.
// A zero identity never matches anything; anonymous viewers cannot be the
// subject of a stored block.
func IsBlocked(db *gorm.DB, userA, userB uint) (bool, error) {
	if userA == 0 || userB == 0 {
		return false, nil
	}
	var count int64
	err := db.Model(&Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SaveBlock creates the directional record. Blocking an already-blocked
// user is a conflict, not a duplicate row.
func (b *Block) SaveBlock(db *gorm.DB) error {
	if b.BlockerID == b.BlockedID {
		return ErrSelfBlock
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(b)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAlreadyBlocked
	}
	return nil
}

// DeleteBlock removes the blocker's own record. Unblocking a user who was
// never blocked is a no-op.
func (b *Block) DeleteBlock(db *gorm.DB) (int64, error) {
	result := db.Where("blocker_id = ? AND blocked_id = ?", b.BlockerID, b.BlockedID).
		Delete(&Block{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindBlockedUsers lists the accounts this user has blocked.
func (b *Block) FindBlockedUsers(db *gorm.DB, uid uint) (*[]Block, error) {
	blocks := []Block{}
	err := db.Preload("Blocked").Where("blocker_id = ?", uid).
		Order("created_at desc").Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return &blocks, nil
}

// DeleteUserBlocks removes all block records touching a user, for account
// deletion cleanup.
func (b *Block) DeleteUserBlocks(db *gorm.DB, uid uint) (int64, error) {
	result := db.Where("blocker_id = ? OR blocked_id = ?", uid, uid).Delete(&Block{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
