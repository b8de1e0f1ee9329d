package main

import (
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"scopedstring-go/model"
)

var DB *gorm.DB = nil

func migrate() error {
	err := DB.AutoMigrate(&model.FileEntry{})
	if err != nil {
		return err
	}
	err = DB.AutoMigrate(&model.LineEntry{})
	if err != nil {
		return err
	}
	return nil
}

func OpenDb(dbPath string) (err error) {
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return err
	}
	err = migrate()
	return
}

func CloseDb() (err error) {
	return
}

// / SaveFileEntry stores a file record together with its per-line rows.
// / entry.Lines are rewired to the generated file id inside one transaction.
func SaveFileEntry(entry *model.FileEntry) error {
	err := DB.Transaction(func(tx *gorm.DB) error {
		lines := entry.Lines
		entry.Lines = nil
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		pid := entry.ID
		for i := range lines {
			lines[i].PID = pid
		}
		if len(lines) == 0 {
			return nil
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

func CheckFileExist(digest string) (bool, error) {
	var cnt int64 = 0
	if err := DB.Model(&model.FileEntry{}).Select("count(*)").
		Where("`digest`=?", digest).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func UpdateFileAccess(digest string) error {
	now := time.Now()
	if err := DB.Unscoped().Model(&model.FileEntry{}).Where("`digest`=?", digest).
		Update("last_access", now.Unix()).Error; err != nil {
		return err
	}
	return nil
}

func FindLinesByHash(hash string, limit int) ([]*model.LineEntry, error) {
	var items []*model.LineEntry
	if err := DB.Model(&model.LineEntry{}).
		Where("`hash`=?", hash).Order("id asc").
		Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, os.ErrNotExist
	}
	return items, nil
}

func FindLinesByHash64(hash64 string, limit int) ([]*model.LineEntry, error) {
	var items []*model.LineEntry
	if err := DB.Model(&model.LineEntry{}).
		Where("`hash64`=?", hash64).Order("id asc").
		Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, os.ErrNotExist
	}
	return items, nil
}

func FindLinesByPid(pid int64) ([]*model.LineEntry, error) {
	lines := make([]*model.LineEntry, 0)
	if err := DB.Where("pid = ?", pid).Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// / FindRecentFiles answers /search: newest archived files in an instance
// / whose path contains the query substring.
func FindRecentFiles(instance, pathQuery string, limit int) ([]*model.FileEntry, error) {
	var items []*model.FileEntry
	if err := DB.Model(&model.FileEntry{}).
		Where("`instance`=? and `path` like ?", instance, "%"+pathQuery+"%").
		Order("created_at desc").
		Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, os.ErrNotExist
	}
	return items, nil
}

func FindExpiredFilesWithLimit(limit int) ([]*model.FileEntry, error) {
	var expiredFiles []*model.FileEntry
	now := time.Now().Unix()
	if err := DB.Model(&model.FileEntry{}).Where("`last_access`+`expired_duration` < ?", now).
		Limit(limit).Find(&expiredFiles).Error; err != nil {
		return nil, err
	}
	return expiredFiles, nil
}

// / UpdateExpiredCleanResult soft-deletes the swept file rows and their lines.
func UpdateExpiredCleanResult(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.FileEntry{}).Delete(&model.FileEntry{}, ids).Error; err != nil {
			return err
		}
		if err := tx.Where("pid IN ?", ids).Delete(&model.LineEntry{}).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}
