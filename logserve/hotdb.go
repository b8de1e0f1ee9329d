package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// The hot cache keeps recently looked-up lines in a side sqlite database so
// repeated fingerprint queries skip the archive store. A single connection
// serves all handlers, so every statement use holds hotMu.
var (
	hotMu       sync.Mutex
	hotConn     *sqlite.Conn = nil
	stmtHotPut  *sqlite.Stmt = nil
	stmtHotGet  *sqlite.Stmt = nil
	stmtHotBump *sqlite.Stmt = nil
)

type HotLine struct {
	Hash    string `json:"hash"`
	Hash64  string `json:"hash64"`
	Content string `json:"content"`
	PID     int64  `json:"pid"`
	LineNo  int64  `json:"line_no"`
	Hits    int64  `json:"hits"`
}

func OpenHotDb(dbPath string) (err error) {
	needCreateTable := false
	if dbPath == "" {
		dbPath = ":memory:"
		needCreateTable = true
	} else if _, err1 := os.Stat(dbPath); errors.Is(err1, os.ErrNotExist) {
		needCreateTable = true
	} else if err1 != nil {
		err = err1
		return
	}
	flag := sqlite.OpenReadWrite
	if needCreateTable {
		flag |= sqlite.OpenCreate
	}
	hotConn, err = sqlite.OpenConn(dbPath, flag)
	if err != nil {
		return err
	}
	if needCreateTable {
		stmt, err := hotConn.Prepare("CREATE TABLE IF NOT EXISTS hot_line (`id` INTEGER PRIMARY KEY, " +
			"`hash` TEXT, `hash64` TEXT, `content` TEXT, `pid` INTEGER, `line_no` INTEGER, `hits` INTEGER," +
			" UNIQUE (`hash64`) ON CONFLICT REPLACE " +
			");")
		if err != nil {
			return err
		}
		if _, err := stmt.Step(); err != nil {
			return err
		}
	}
	stmtHotPut, err = hotConn.Prepare("INSERT INTO hot_line (`hash`, `hash64`, `content`, `pid`, `line_no`, `hits`) VALUES" +
		" ($hash, $hash64, $content, $pid, $line_no, $hits);")
	if err != nil {
		return err
	}
	stmtHotGet, err = hotConn.Prepare("SELECT `hash`, `hash64`, `content`, `pid`, `line_no`, `hits` FROM hot_line " +
		"WHERE `hash64` = $hash64 LIMIT 1;")
	if err != nil {
		return err
	}
	stmtHotBump, err = hotConn.Prepare("UPDATE hot_line SET `hits` = `hits` + 1 WHERE `hash64` = $hash64;")
	if err != nil {
		return err
	}
	return
}

func CloseHotDb() (err error) {
	if hotConn == nil {
		return
	}
	err = hotConn.Close()
	return
}

func PutHotLine(line *HotLine) error {
	hotMu.Lock()
	defer hotMu.Unlock()
	defer stmtHotPut.Reset()
	stmtHotPut.SetText("$hash", line.Hash)
	stmtHotPut.SetText("$hash64", line.Hash64)
	stmtHotPut.SetText("$content", line.Content)
	stmtHotPut.SetInt64("$pid", line.PID)
	stmtHotPut.SetInt64("$line_no", line.LineNo)
	stmtHotPut.SetInt64("$hits", 1)
	_, err := stmtHotPut.Step()
	if err != nil {
		return err
	}
	return nil
}

// / GetHotLine looks the fingerprint up in the cache and bumps its hit count.
// / Returns nil without error when the line is not cached.
func GetHotLine(hash64 string) (*HotLine, error) {
	hotMu.Lock()
	defer hotMu.Unlock()
	defer stmtHotGet.Reset()
	stmtHotGet.SetText("$hash64", hash64)
	hasRow, err := stmtHotGet.Step()
	if err != nil {
		return nil, err
	}
	if !hasRow {
		return nil, nil
	}
	line := &HotLine{
		Hash:    stmtHotGet.GetText("hash"),
		Hash64:  stmtHotGet.GetText("hash64"),
		Content: stmtHotGet.GetText("content"),
		PID:     stmtHotGet.GetInt64("pid"),
		LineNo:  stmtHotGet.GetInt64("line_no"),
		Hits:    stmtHotGet.GetInt64("hits") + 1,
	}
	defer stmtHotBump.Reset()
	stmtHotBump.SetText("$hash64", hash64)
	if _, err := stmtHotBump.Step(); err != nil {
		return nil, err
	}
	return line, nil
}

// / PruneHotLines drops cached lines colder than minHits, plus any rows for
// / files that were swept from the archive.
func PruneHotLines(minHits int64, sweptPids []int64) error {
	hotMu.Lock()
	defer hotMu.Unlock()
	query := fmt.Sprintf("DELETE FROM hot_line WHERE `hits` < %d;", minHits)
	if len(sweptPids) > 0 {
		var ids []string
		for _, pid := range sweptPids {
			if pid > 0 {
				ids = append(ids, strconv.FormatInt(pid, 10))
			}
		}
		query = fmt.Sprintf("DELETE FROM hot_line WHERE `hits` < %d OR `pid` in (%s);",
			minHits, strings.Join(ids, ","))
	}
	err := sqlitex.ExecuteTransient(hotConn, query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			return nil
		},
	})
	if err != nil {
		return err
	}
	return nil
}
