package model

import "gorm.io/plugin/soft_delete"

type FileEntry struct {
	ID int64 `json:"id" gorm:"primarykey"`
	// 文件路径
	Path string `json:"path" gorm:"index:idx_path"`
	// 整个文件内容的 BLAKE3 摘要 /* index_digest,UNIQUE */
	Digest string `json:"digest" gorm:"index:idx_digest,unique"`
	// 行数
	LineCount int64 `json:"line_count"`
	// 字节数
	ByteCount int64 `json:"byte_count"`
	// 命名空间
	Instance string `json:"instance" gorm:"index:idx_instance"`
	//
	Lines []*LineEntry `json:"lines" gorm:"ForeignKey:PID;AssociationForeignKey:ID"`
	//
	CreatedAt       int64
	LastAccess      int64 /* index_last_access */
	ExpiredDuration int64 /* index_expired */
	/* 0 false 1 true */
	Deleted soft_delete.DeletedAt `gorm:"softDelete:flag;default:0"`
}

func (FileEntry) TableName() string {
	return "file_entry"
}
