package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	cz "cfbzip"

	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"
)

func convertInputs(inputs []string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files specified")
	}
	if toStdOut && len(inputs) > 1 {
		return fmt.Errorf("-stdout takes a single input, got %d", len(inputs))
	}
	cfg, err := sessionConfig()
	if err != nil {
		return err
	}
	if toStdOut {
		progress = false
	}

	var totalBytes int64
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return err
		}
		totalBytes += info.Size()
	}

	p, done, finished := progressTicker(&progressData{inputBytes: totalBytes, window: 5 * time.Second})
	defer func() {
		close(done)
		<-finished
	}()

	var failed atomic.Int64
	many := len(inputs) > 1
	wg := sizedwaitgroup.New(threads)
	for _, in := range inputs {
		wg.Add()
		go func(in string) {
			defer wg.Done()
			if err := convertFile(in, many, cfg, p); err != nil {
				failed.Add(1)
				if !toStdOut {
					fmt.Print("\n")
				}
				log.Printf("%v: %v", in, err)
			}
		}(in)
	}
	wg.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d of %d conversions failed", n, len(inputs))
	}
	return nil
}

func convertFile(in string, many bool, cfg cz.Config, p *progressData) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	p.file.Store(in)
	raw, wrapper, err := cz.DecodeInput(progressReader{r: f, p: p}, in, cfg.MaxInputSize)
	f.Close()
	if err != nil {
		return err
	}
	doLog(true, "%v: %v input, %v", in, wrapper, humanize.Bytes(uint64(len(raw))))

	sp := &sessionProgress{p: p}
	var archive []byte
	var files int
	err = cz.Convert(raw, cfg, func(m cz.OutMessage) {
		switch m.Kind {
		case cz.KindSize:
			sp.update(m.TotalBytes, sp.lastFiles)
		case cz.KindFile:
			files = m.FilesCompleted
			sp.update(sp.lastBytes, m.FilesCompleted)
		case cz.KindDone:
			archive = m.Payload
		}
	})
	if err != nil {
		return err
	}

	dest := "-"
	if !toStdOut {
		dest = outputFor(in, wrapper, many)
	}
	if err := writeArchive(dest, archive, p); err != nil {
		return err
	}

	if features.IsSet(cz.FeatureChecksums) {
		t, _ := cz.ParseSum(sumName)
		doLog(false, "%v %v: %x", cz.SumName(t), dest, cz.Checksum(t, archive))
		doLog(true, "%v: %v", dest, cz.Digest(archive))
	}
	doLog(false, "\nWrote %v, %v containing %v files.", dest, humanize.Bytes(uint64(len(archive))), files)
	return nil
}

func writeArchive(dest string, archive []byte, p *progressData) error {
	if toStdOut {
		return cz.EncodeArchive(os.Stdout, archive, encode, fecDataShards, fecParityShards)
	}

	if !doForce {
		found, _ := fileExists(dest)
		if found {
			return fmt.Errorf("zip %v already exists", dest)
		}
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if spaceCheck {
		if err := checkSpace(dir, uint64(len(archive))); err != nil {
			return err
		}
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	bf := NewBufferedFile(out, writeBuffer, p)
	if err := cz.EncodeArchive(bf, archive, encode, fecDataShards, fecParityShards); err != nil {
		bf.Close()
		return err
	}
	return bf.Close()
}

// checkSpace fails when dir cannot hold need more bytes. A failed probe
// only warns.
func checkSpace(dir string, need uint64) error {
	free, err := availableBytes(dir)
	if err != nil {
		doLog(false, "warning: free space check failed: %v", err)
		return nil
	}
	if need > free {
		return fmt.Errorf("insufficient disk space in %v: need %v, available %v", dir, humanize.Bytes(need), humanize.Bytes(free))
	}
	return nil
}
