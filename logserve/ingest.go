package main

import (
	"fmt"
	"time"

	"github.com/zeebo/blake3"
	"scopedstring-go/model"
	"scopedstring-go/scopedstring"
)

const kDefaultExpiredDuration = 24 * time.Hour

// / DigestBuffer returns the hex BLAKE3 digest of a whole upload. The digest
// / is the dedup key and the name the raw file is archived under.
func DigestBuffer(buf []byte) string {
	h := blake3.New()
	h.Write(buf)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// / ProcessBuffer splits an upload into lines and builds the archive record.
// / Line contents longer than the render cap are stored truncated, the full
// / text stays in the archived raw file.
func ProcessBuffer(path, instance string, buf []byte, expiredDuration time.Duration) *model.FileEntry {
	digest := DigestBuffer(buf)
	now := time.Now().Unix()
	entry := &model.FileEntry{
		Path:            path,
		Digest:          digest,
		ByteCount:       int64(len(buf)),
		Instance:        instance,
		CreatedAt:       now,
		LastAccess:      now,
		ExpiredDuration: int64(expiredDuration.Seconds()),
	}
	scanner := scopedstring.NewLineScanner(buf)
	for {
		line := scanner.Next()
		if line == nil {
			break
		}
		entry.Lines = append(entry.Lines, &model.LineEntry{
			Content: line.CStr(),
			Hash:    fmt.Sprintf("%08x", line.Hash()),
			Hash64:  fmt.Sprintf("%016x", scopedstring.Rapidhash64(line.Data())),
			LineNo:  int64(scanner.LineNo()),
		})
	}
	entry.LineCount = int64(len(entry.Lines))
	return entry
}

func ParseExpiredDuration(expiredDurationStr string) time.Duration {
	expiredDuration := kDefaultExpiredDuration
	if expiredDurationStr != "" {
		expiredDuration, _ = time.ParseDuration(expiredDurationStr)
	}
	return expiredDuration
}
