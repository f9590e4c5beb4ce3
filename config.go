package cfbzip

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"
)

// Config controls a conversion session.
type Config struct {
	// TopLevel is the folder every archive path is rooted at.
	TopLevel string

	MaxArchiveSize     int64 // ceiling for the whole zip
	MaxEntrySize       int64 // ceiling for one stream
	MaxInputSize       int64 // ceiling for a decoded input file
	InitialArchiveSize int
	InitialScratchSize int

	// ProgressInterval is the minimum time between two size or two file
	// notifications.
	ProgressInterval time.Duration

	// Level is the deflate level, see github.com/klauspost/compress/flate.
	Level int

	// ModTime is stamped on every zip entry. Zero uses the session start.
	ModTime time.Time

	Features BitFlags

	// Clock returns the current time; nil means time.Now.
	Clock func() time.Time

	Verbose bool
	Quiet   bool
}

func (c *Config) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

func (c *Config) doLog(verbose bool, format string, args ...interface{}) {
	if c.Quiet || (!c.Verbose && verbose) {
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
