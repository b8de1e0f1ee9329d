package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/tevino/abool/v2"
)

var cleanRunning = abool.NewBool(false)

// Cached lines colder than this are dropped on each sweep.
const kHotPruneMinHits = 2

func cleanTask() {
	if cleanRunning.IsSet() {
		return
	}
	cleanRunning.Set()
	defer cleanRunning.UnSet()
	expiredRecords, err := FindExpiredFilesWithLimit(2000)
	if err != nil {
		logrus.Errorf("find expired files: %v", err)
		return
	}
	if len(expiredRecords) == 0 {
		return
	}
	var successCleans []int64
	for _, expiredRecord := range expiredRecords {
		needDeletedPath := filepath.Join(fsRootDir, expiredRecord.Digest)
		err := os.RemoveAll(needDeletedPath)
		if err != nil {
			logrus.Errorf("remove %s: %v", needDeletedPath, err)
		} else {
			successCleans = append(successCleans, expiredRecord.ID)
		}
	}
	if len(successCleans) == 0 {
		return
	}
	if err = UpdateExpiredCleanResult(successCleans); err != nil {
		logrus.Errorf("mark swept files: %v", err)
		return
	}
	if err = PruneHotLines(kHotPruneMinHits, successCleans); err != nil {
		logrus.Errorf("prune hot cache: %v", err)
	}
	logrus.Infof("swept %d expired files", len(successCleans))
}
