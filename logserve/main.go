package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	dbName             = flag.String("dbName", "logserve.db", "line archive db name.")
	hotDbName          = flag.String("hotDbName", "", "hot line cache db path, in-memory when empty")
	addr               = flag.String("addr", "localhost:8080", "TCP address to listen to")
	byteRange          = flag.Bool("byteRange", false, "Enables byte range requests if set to true")
	compress           = flag.Bool("compress", false, "Enables transparent response compression if set to true")
	dir                = flag.String("dir", "archive", "Directory archived text files are stored in and served from")
	generateIndexPages = flag.Bool("generateIndexPages", true, "Whether to generate directory index pages")
	vhost              = flag.Bool("vhost", false, "Enables virtual hosting by prepending the requested path with the requested hostname")
	cleanEvery         = flag.Duration("cleanEvery", 5*time.Minute, "Interval between expired entry sweeps")
)

func main() {
	// Parse command-line flags.
	flag.Parse()
	dbPath := filepath.Join(filepath.Dir(os.Args[0]), *dbName)
	if err := OpenDb(dbPath); err != nil {
		panic(err)
	}
	if err := OpenHotDb(*hotDbName); err != nil {
		panic(err)
	}
	if err := os.MkdirAll(*dir, 0755); err != nil {
		panic(err)
	}
	go StartExpiredCleanSchedule(*cleanEvery)
	go ServeArchive(*addr, *dir, *compress, *byteRange, *generateIndexPages, *vhost)
	// Make a signal channel. Register SIGINT.
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt)

	// Wait for the signal.
	<-sigch

	logrus.Infof("interrupted, exiting")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdown(ctx)
}

func shutdown(ctx context.Context) {
	if err := ShutdownArchiveServer(ctx); err != nil {
		logrus.Errorf("http shutdown: %v", err)
	}
	StopScheduler()
	if err := CloseHotDb(); err != nil {
		logrus.Errorf("hot db close: %v", err)
	}
	if err := CloseDb(); err != nil {
		logrus.Errorf("db close: %v", err)
	}
}
