// Command adeptc drives one semantic-resolution-and-lowering build: load
// a project file, construct a session, wait for the task graph to reach
// quiescence, and report whatever diagnostics accumulated.
//
// Argument parsing here is deliberately thin — the project file format
// and the build-command front end are spec non-goals; this main only
// supplies the handful of flags the Session constructor itself needs
// (project file path, target triple, worker count, cache path), plus an
// optional profile dump and a -version banner built from the host
// triple/CPU detection in internal/target.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"adeptc/internal/buildfile"
	"adeptc/internal/session"
	"adeptc/internal/target"
)

const (
	defaultIdleInterval = 500 * time.Millisecond
	defaultMaxIdleTime  = 30 * time.Second
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("adeptc: ")

	var (
		targetFlag = flag.String("target", "", "target triple, os/arch (defaults to the host's)")
		workers    = flag.Int("workers", runtime.NumCPU(), "executor worker count")
		cachePath  = flag.String("cache", "", "path to a persisted task cache (disabled if empty)")
		profPath   = flag.String("profile", "", "write an executor task-timing pprof profile here (disabled if empty)")
		version    = flag.Bool("version", false, "print the host target triple and CPU family and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("adeptc: host %s (%s)\n", target.HostTriple(), target.HostDescription())
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: adeptc [flags] <path to adept.build>")
		os.Exit(2)
	}
	buildPath := flag.Arg(0)

	os.Exit(run(buildPath, *targetFlag, *workers, *cachePath, *profPath))
}

func run(buildPath, targetStr string, workers int, cachePath, profPath string) int {
	data, err := os.ReadFile(buildPath)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	build, err := buildfile.Parse(buildPath, data)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	// An explicit -target overrides the host triple HostTriple detects;
	// absent one, building for the machine running adeptc is the only
	// sane default.
	triple := target.HostTriple()
	if targetStr != "" {
		triple, err = target.ParseTriple(targetStr)
		if err != nil {
			log.Printf("%v", err)
			return 2
		}
	}

	var opts []session.Option
	if cachePath != "" {
		opts = append(opts, session.WithCachePath(cachePath))
	}
	sess, err := session.New(build, triple, workers, opts...)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	defer sess.Close()

	sess.StartIdlePersist(defaultIdleInterval, defaultMaxIdleTime)

	cyclic := sess.Exec.Wait()
	for _, d := range sess.Sink.Sorted() {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if cyclic > 0 {
		log.Printf("%d task(s) left incomplete by a dependency cycle", cyclic)
	}

	if profPath != "" {
		if err := sess.Exec.DumpProfile(profPath); err != nil {
			log.Printf("writing profile: %v", err)
			return 1
		}
	}

	if sess.Sink.HasErrors() {
		return 1
	}
	return 0
}
