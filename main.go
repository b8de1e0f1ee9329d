package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func TerminateHandler() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	s := <-quit
	fmt.Println("terminate handler called:", s)
	os.Exit(int(ExitInterrupted))
}

func real_main(args []string) error {
	config := NewRunConfig()
	options := Options{}
	options.InputFile = "-"

	sstool_command := args[0]

	exit_code := ReadFlags(&args, &options, config)
	if exit_code >= 0 {
		os.Exit(exit_code)
	}

	if options.WorkingDir != "" {
		// The formatting of this string, complete with funny quotes, is
		// so Emacs can properly identify that the cwd has changed for
		// subsequent commands.
		// Don't print this if a tool is being used, so that tool output
		// can be piped into a file without this string showing up.
		if options.Tool == nil && config.Verbosity != NO_STATUS_UPDATE {
			Info("Entering directory `%s'", options.WorkingDir)
		}

		if err := os.Chdir(options.WorkingDir); err != nil {
			log.Fatalf("chdir to '%s' - %v", options.WorkingDir, err)
		}
		if config.Verbosity == VERBOSE {
			// -C takes a relative path; report where we ended up.
			Info("working directory is now %s", GetWorkingDirectory())
		}
	}

	sstool := NewSstoolMain(sstool_command, config)

	if options.Tool != nil && options.Tool.When == RUN_AFTER_FLAGS {
		args = append([]string{options.Tool.Name}, args...)
		os.Exit(options.Tool.Func1(sstool, &options, &args))
	}

	if !sstool.LoadInput(&options) {
		os.Exit(1)
	}

	tool := options.Tool
	if tool == nil {
		tool = DefaultTool()
	}

	// Tools parse their own flags and expect args[0] to contain the name
	// of the tool, the way getopt sees a program name.
	args = append([]string{tool.Name}, args...)
	result := tool.Func1(sstool, &options, &args)
	if GMetrics != nil {
		sstool.DumpMetrics()
	}
	os.Exit(result)
	return nil
}

func main() {
	go TerminateHandler()
	err := real_main(os.Args)
	if err != nil {
		log.Println(err)
		os.Exit(int(ExitFailure))
	}
}
