package main

// / Exit codes sstool reports to the shell.  Tools return plain ints that
// / become the process exit code directly; these names cover the codes the
// / outer harness itself produces.
type ExitStatus int8

const (
	ExitSuccess ExitStatus = 0

	/// A tool reported failure, or setup stopped the run.
	ExitFailure ExitStatus = 1

	/// Interrupted by SIGINT/SIGTERM before the tool finished.
	ExitInterrupted ExitStatus = 2
)
