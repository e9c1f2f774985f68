// Command citrace-wrapper is the single binary installed under every
// recognized tool name in a session's wrapper directory (§4.8). It reads
// its own invoked name, and re-execs into citrace-supervisor with that name
// and the original argument vector, so the supervisor can resolve and
// report the call exactly as the preload library's intercepted execs do.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

func main() {
	os.Exit(run())
}

func run() int {
	destination := os.Getenv("INTERCEPT_REPORT_DESTINATION")
	supervisor := os.Getenv("INTERCEPT_REPORT_COMMAND")
	if destination == "" || supervisor == "" {
		fmt.Fprintln(os.Stderr, "citrace-wrapper: not running under interception, refusing to guess the real tool")
		return 127
	}

	invokedAs := filepath.Base(os.Args[0])
	argv := append([]string{supervisor, "--destination", destination}, verboseFlag()...)
	argv = append(argv, "--execute", invokedAs, "--command")
	argv = append(argv, os.Args...)

	if err := syscall.Exec(supervisor, argv, os.Environ()); err != nil {
		fmt.Fprintln(os.Stderr, "citrace-wrapper: exec supervisor failed:", err)
		return 127
	}
	return 0
}

func verboseFlag() []string {
	if os.Getenv("INTERCEPT_VERBOSE") != "" {
		return []string{"--verbose"}
	}
	return nil
}
