package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
)

func Error(msg string, ap ...interface{}) {
	fmt.Fprintf(os.Stderr, "sstool: error: "+msg+"\n", ap...)
}

func Warning(msg string, ap ...interface{}) {
	fmt.Fprintf(os.Stderr, "sstool: warning: "+msg+"\n", ap...)
}

func Info(msg string, ap ...interface{}) {
	fmt.Fprintf(os.Stdout, "sstool: "+msg+"\n", ap...)
}

func GetWorkingDirectory() string {
	ret, err := os.Getwd()
	if err != nil {
		log.Fatalf("cannot determine working directory: %s", err)
	}
	return ret
}

func GetProcessorCount() int {
	return runtime.NumCPU()
}
