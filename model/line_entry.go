package model

import "gorm.io/plugin/soft_delete"

type LineEntry struct {
	ID int64 `gorm:"primarykey"`
	// 行内容, 超长会被截断
	Content string `json:"content"`
	// 32 位内容哈希, %08x
	Hash string `json:"hash" gorm:"index:idx_hash"`
	// 64 位 rapidhash 指纹, %016x
	Hash64 string `json:"hash64" gorm:"index:idx_hash64"`
	// 行号, 从 1 开始
	LineNo int64 `json:"line_no"`
	// 本行所属文件的ID
	PID int64 `json:"pid" gorm:"index:idx_pid"`
	/* 0 false 1 true */
	Deleted soft_delete.DeletedAt `gorm:"softDelete:flag;default:0"`
}

func (LineEntry) TableName() string {
	return "line_entry"
}
