package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	cz "cfbzip"

	"github.com/dustin/go-humanize"
)

func fileExists(filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func removeExtension(filename string) string {
	extension := filepath.Ext(filename)
	return filename[:len(filename)-len(extension)]
}

func doLog(verbose bool, format string, args ...interface{}) {
	if toStdOut || quietMode || (!verboseMode && verbose) {
		return
	}

	var text string
	if args == nil {
		text = format
	} else {
		text = fmt.Sprintf(format, args...)
	}

	if verbose {
		ctime := time.Now()
		_, filename, line, _ := runtime.Caller(1)
		date := fmt.Sprintf("%2v:%2v.%2v", ctime.Hour(), ctime.Minute(), ctime.Second())
		fmt.Printf("%v: %15v:%5v: %v\n", date, filepath.Base(filename), line, text)
	} else {
		fmt.Println(text)
	}
}

// outputFor picks where the zip for input goes. Compression wrappers are
// stripped along with the container extension: a.cfb.gz becomes a.zip.
func outputFor(input, wrapper string, many bool) string {
	base := input
	if wrapper != cz.InputRaw {
		base = removeExtension(base)
	}
	base = removeExtension(base) + ".zip"
	if encode != "" {
		base += "." + encode
	}
	if outPath == "" {
		return base
	}
	if many || isDir(outPath) || strings.HasSuffix(outPath, string(os.PathSeparator)) {
		return filepath.Join(outPath, filepath.Base(base))
	}
	return outPath
}

// sessionConfig builds the library configuration from the command line.
func sessionConfig() (cz.Config, error) {
	cfg := cz.DefaultConfig()
	cfg.TopLevel = topLevel
	cfg.Level = level
	cfg.Features = features
	cfg.Verbose = verboseMode
	cfg.Quiet = toStdOut || quietMode

	sizes := []struct {
		name string
		in   string
		out  *int64
	}{
		{"max-size", maxArchive, &cfg.MaxArchiveSize},
		{"max-entry", maxEntry, &cfg.MaxEntrySize},
		{"max-input", maxInput, &cfg.MaxInputSize},
	}
	for _, s := range sizes {
		n, err := humanize.ParseBytes(s.in)
		if err != nil {
			return cfg, fmt.Errorf("-%s: %w", s.name, err)
		}
		*s.out = int64(n)
	}
	return cfg, nil
}
