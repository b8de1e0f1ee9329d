package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/expvarhandler"
	"scopedstring-go/model"
)

// Various counters - see https://pkg.go.dev/expvar for details.
var (
	// Counter for total number of fs calls
	fsCalls = expvar.NewInt("fsCalls")

	// Counters for various response status codes
	fsOKResponses          = expvar.NewInt("fsOKResponses")
	fsNotModifiedResponses = expvar.NewInt("fsNotModifiedResponses")
	fsNotFoundResponses    = expvar.NewInt("fsNotFoundResponses")
	fsOtherResponses       = expvar.NewInt("fsOtherResponses")

	// Total size in bytes for OK response bodies served.
	fsResponseBodyBytes = expvar.NewInt("fsResponseBodyBytes")

	// Domain counters for the line archive.
	ingestCalls   = expvar.NewInt("ingestCalls")
	lookupCalls   = expvar.NewInt("lookupCalls")
	searchCalls   = expvar.NewInt("searchCalls")
	linesCalls    = expvar.NewInt("linesCalls")
	hotHits       = expvar.NewInt("hotHits")
	hotMisses     = expvar.NewInt("hotMisses")
	linesIngested = expvar.NewInt("linesIngested")

	fsRootDir string
	fsServer  *fasthttp.Server
)

// / HandleIngest archives an uploaded text file. The upload lands under a
// / temporary name first so the content digest can decide between dedup and
// / a rename into place.
func HandleIngest(ctx *fasthttp.RequestCtx) {
	ctx.Response.Reset()
	ingestCalls.Add(1)
	path := string(ctx.FormValue("path"))
	instance := string(ctx.FormValue("instance"))
	expiredDuration := ParseExpiredDuration(string(ctx.FormValue("expired_duration")))
	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	tmpPath := filepath.Join(fsRootDir, fmt.Sprintf(".upload-%d", time.Now().UnixNano()))
	if err := fasthttp.SaveMultipartFile(header, tmpPath); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	buf, err := os.ReadFile(tmpPath)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	entry := ProcessBuffer(path, instance, buf, expiredDuration)
	exist, err := CheckFileExist(entry.Digest)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	if exist {
		os.Remove(tmpPath)
		if err := UpdateFileAccess(entry.Digest); err != nil {
			logrus.Errorf("refresh access for %s: %v", entry.Digest, err)
		}
		ctx.Success("plain/text", []byte("already exists."))
		return
	}
	if err := os.Rename(tmpPath, filepath.Join(fsRootDir, entry.Digest)); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	if err := SaveFileEntry(entry); err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	linesIngested.Add(entry.LineCount)
	ctx.Success("plain/text", []byte(entry.Digest))
}

func toHotLine(item *model.LineEntry) *HotLine {
	return &HotLine{
		Hash:    item.Hash,
		Hash64:  item.Hash64,
		Content: item.Content,
		PID:     item.PID,
		LineNo:  item.LineNo,
		Hits:    1,
	}
}

// / HandleLookup resolves a line fingerprint to its archived occurrences.
// / hash64 queries go through the hot cache, hash queries hit the store.
func HandleLookup(ctx *fasthttp.RequestCtx) {
	ctx.Response.Reset()
	lookupCalls.Add(1)
	hash64 := string(ctx.QueryArgs().Peek("hash64"))
	hash := string(ctx.QueryArgs().Peek("hash"))
	if hash64 == "" && hash == "" {
		ctx.Error("missing hash or hash64 query parameter", fasthttp.StatusBadRequest)
		return
	}
	var found []*HotLine
	if hash64 != "" {
		cached, err := GetHotLine(hash64)
		if err != nil {
			ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
			return
		}
		if cached != nil {
			hotHits.Add(1)
			found = append(found, cached)
		} else {
			hotMisses.Add(1)
			items, err := FindLinesByHash64(hash64, 20)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					ctx.Error("no line with that fingerprint", fasthttp.StatusNotFound)
					return
				}
				ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
				return
			}
			for _, item := range items {
				found = append(found, toHotLine(item))
			}
			if err := PutHotLine(found[0]); err != nil {
				logrus.Errorf("hot cache put for %s: %v", hash64, err)
			}
		}
	} else {
		items, err := FindLinesByHash(hash, 20)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				ctx.Error("no line with that hash", fasthttp.StatusNotFound)
				return
			}
			ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
			return
		}
		for _, item := range items {
			found = append(found, toHotLine(item))
		}
	}
	buf, err := json.Marshal(found)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.Success("application/json", buf)
}

// / HandleLines returns the parsed line records of one archived file.
// / A file with no stored lines answers an empty list, not an error.
func HandleLines(ctx *fasthttp.RequestCtx) {
	ctx.Response.Reset()
	linesCalls.Add(1)
	pid, err := strconv.ParseInt(string(ctx.QueryArgs().Peek("pid")), 10, 64)
	if err != nil || pid <= 0 {
		ctx.Error("missing or bad pid query parameter", fasthttp.StatusBadRequest)
		return
	}
	lines, err := FindLinesByPid(pid)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	buf, err := json.Marshal(lines)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.Success("application/json", buf)
}

func HandleSearch(ctx *fasthttp.RequestCtx) {
	ctx.Response.Reset()
	searchCalls.Add(1)
	instance := string(ctx.QueryArgs().Peek("instance"))
	pathQuery := string(ctx.QueryArgs().Peek("q"))
	files, err := FindRecentFiles(instance, pathQuery, 5)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			ctx.Error("no matching files", fasthttp.StatusNotFound)
			return
		}
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	buf, err := json.Marshal(files)
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.Success("application/json", buf)
}

// / Raw archived files are fetched by digest, so a served path marks the
// / matching record as recently used.
func UpdateRecordLastAccess(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	paths := strings.Split(path, "/")
	if len(paths) != 2 {
		return
	}
	digest := paths[1]
	if digest == "" {
		return
	}
	if err := UpdateFileAccess(digest); err != nil {
		logrus.Errorf("update access for %s: %v", digest, err)
	}
}

func updateFSCounters(ctx *fasthttp.RequestCtx) {
	// Increment the number of fsHandler calls.
	fsCalls.Add(1)

	// Update other stats counters
	resp := &ctx.Response
	switch resp.StatusCode() {
	case fasthttp.StatusOK:
		fsOKResponses.Add(1)
		fsResponseBodyBytes.Add(int64(resp.Header.ContentLength()))
	case fasthttp.StatusNotModified:
		fsNotModifiedResponses.Add(1)
	case fasthttp.StatusNotFound:
		fsNotFoundResponses.Add(1)
	default:
		fsOtherResponses.Add(1)
	}
}

func ServeArchive(addr, rootDir string, compress, byteRange, generateIndexPages, vhost bool) {
	// Setup FS handler
	fsRootDir = rootDir
	fs := &fasthttp.FS{
		Root:               rootDir,
		IndexNames:         []string{"index.html"},
		GenerateIndexPages: generateIndexPages,
		Compress:           compress,
		AcceptByteRange:    byteRange,
	}
	if vhost {
		fs.PathRewrite = fasthttp.NewVHostPathRewriter(0)
	}
	fsHandler := fs.NewRequestHandler()
	// Create RequestHandler serving server stats on /stats and archived
	// raw files on other requested paths.
	// /stats output may be filtered using regexps. For example:
	//
	//   * /stats?r=hot will show only stats (expvars) containing 'hot'
	//     in their names.
	requestHandler := func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/stats":
			expvarhandler.ExpvarHandler(ctx)
		case "/ingest":
			HandleIngest(ctx)
		case "/lookup":
			HandleLookup(ctx)
		case "/lines":
			HandleLines(ctx)
		case "/search":
			HandleSearch(ctx)
		default:
			fsHandler(ctx)
			UpdateRecordLastAccess(ctx)
			updateFSCounters(ctx)
		}
	}
	// Start HTTP server.
	if len(addr) > 0 {
		logrus.Infof("starting HTTP server on %q", addr)
		fsServer = &fasthttp.Server{
			Handler:      requestHandler,
			ReadTimeout:  15 * time.Minute,
			WriteTimeout: 15 * time.Minute,
			Concurrency:  256 * 1024,
		}
		if err := fsServer.ListenAndServe(addr); err != nil {
			logrus.Fatalf("error in ListenAndServe: %v", err)
		}
	}
	// Wait forever.
}

func ShutdownArchiveServer(ctx context.Context) error {
	if fsServer == nil {
		return nil
	}
	return fsServer.ShutdownWithContext(ctx)
}
