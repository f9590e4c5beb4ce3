package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

const (
	maxBarWidth  = 60
	updatePeriod = time.Second / 4
)

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

type rateSample struct {
	at    time.Time
	bytes int64
}

// progressData is shared by every conversion in a batch. read counts input
// bytes consumed, zipped counts compressed bytes reported by the sessions,
// stored counts bytes flushed to output files.
type progressData struct {
	read, zipped, stored atomic.Int64
	files                atomic.Int64
	inputBytes           int64
	window               time.Duration
	samples              []rateSample
	started              time.Time
	lastLine             string
	file                 atomic.Value
}

// sessionProgress turns one session's cumulative messages into deltas on
// the shared counters.
type sessionProgress struct {
	p         *progressData
	lastBytes int64
	lastFiles int
}

func (sp *sessionProgress) update(totalBytes int64, files int) {
	if totalBytes > sp.lastBytes {
		sp.p.zipped.Add(totalBytes - sp.lastBytes)
		sp.lastBytes = totalBytes
	}
	if files > sp.lastFiles {
		sp.p.files.Add(int64(files - sp.lastFiles))
		sp.lastFiles = files
	}
}

// progressTicker redraws the bar until done is closed, then closes
// finished. Nothing runs when the bar is disabled.
func progressTicker(p *progressData) (*progressData, chan struct{}, chan struct{}) {
	done := make(chan struct{})
	finished := make(chan struct{})
	if !progress {
		close(finished)
		return p, done, finished
	}
	p.started = time.Now()

	go func() {
		ticker := time.NewTicker(updatePeriod)
		defer ticker.Stop()
		defer close(finished)
		for {
			select {
			case <-ticker.C:
				p.draw(time.Now())
			case <-done:
				p.draw(time.Now())
				fmt.Print("\n")
				return
			}
		}
	}()
	return p, done, finished
}

func (p *progressData) draw(now time.Time) {
	line := p.render(now, terminalWidth())
	if line != p.lastLine {
		fmt.Printf("\r\033[K%s", line)
		p.lastLine = line
	}
}

// fraction is the share of input bytes read so far.
func (p *progressData) fraction() float64 {
	if p.inputBytes <= 0 {
		return 1
	}
	f := float64(p.read.Load()) / float64(p.inputBytes)
	if f > 1 {
		f = 1
	}
	return f
}

// rate is the zip output speed over the sliding window, or since the start
// once all input is read.
func (p *progressData) rate(now time.Time, done bool) float64 {
	zipped := p.zipped.Load()
	if done {
		if p.started.IsZero() {
			return 0
		}
		if secs := now.Sub(p.started).Seconds(); secs > 0 {
			return float64(zipped) / secs
		}
		return 0
	}

	p.samples = append(p.samples, rateSample{at: now, bytes: zipped})
	cutoff := now.Add(-p.window)
	drop := 0
	for drop < len(p.samples) && !p.samples[drop].at.After(cutoff) {
		drop++
	}
	p.samples = p.samples[drop:]
	if len(p.samples) < 2 {
		return 0
	}
	first, last := p.samples[0], p.samples[len(p.samples)-1]
	secs := last.at.Sub(first.at).Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(last.bytes-first.bytes) / secs
}

func (p *progressData) render(now time.Time, width int) string {
	frac := p.fraction()
	speed := p.rate(now, frac >= 1)
	name, _ := p.file.Load().(string)

	info := fmt.Sprintf(" %3.2f%% %v/s %d files, %v zipped %s", frac*100,
		humanize.Bytes(uint64(speed)), p.files.Load(), humanize.Bytes(uint64(p.zipped.Load())), filepath.Base(name))
	barWidth := min(width-len(info)-2, maxBarWidth)
	if barWidth < 0 {
		barWidth = 0
	}
	filled := min(int(frac*float64(barWidth)), barWidth)
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "]" + info
}

// progressReader counts input bytes as they are read.
type progressReader struct {
	r io.Reader
	p *progressData
}

func (pr progressReader) Read(b []byte) (int, error) {
	n, err := pr.r.Read(b)
	if pr.p != nil {
		pr.p.read.Add(int64(n))
	}
	return n, err
}
