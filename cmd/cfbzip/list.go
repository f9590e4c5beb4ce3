package main

import (
	"encoding/json"
	"fmt"
	"os"

	cz "cfbzip"

	"github.com/dustin/go-humanize"
)

// ListingOut is the JSON form of one listed input.
type ListingOut struct {
	Input     string         `json:"input"`
	Wrapper   string         `json:"wrapper"`
	Flags     []string       `json:"flags,omitempty"`
	TotalSize uint64         `json:"totalSize"`
	Files     []cz.EntryInfo `json:"files"`
}

func listInputs(inputs []string, jsonList bool) error {
	if len(inputs) == 0 {
		return fmt.Errorf("no input files specified")
	}
	cfg, err := sessionConfig()
	if err != nil {
		return err
	}

	var out []ListingOut
	for _, in := range inputs {
		f, err := os.Open(in)
		if err != nil {
			return err
		}
		raw, wrapper, err := cz.DecodeInput(f, in, cfg.MaxInputSize)
		f.Close()
		if err != nil {
			return fmt.Errorf("%v: %w", in, err)
		}
		entries, err := cz.List(raw, cfg)
		if err != nil {
			return fmt.Errorf("%v: %w", in, err)
		}

		listing := ListingOut{Input: in, Wrapper: wrapper, Flags: cz.FlagNames(features), Files: entries}
		for _, e := range entries {
			listing.TotalSize += e.Size
		}
		if jsonList {
			out = append(out, listing)
			continue
		}
		for _, e := range entries {
			fmt.Printf("%v\n", e.Path)
		}
		fmt.Printf("%v files, %v\n", len(entries), humanize.Bytes(listing.TotalSize))
	}

	if jsonList {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
	}
	return nil
}
