package main

import (
	"runtime"

	cz "cfbzip"
)

var (
	outPath                                        string
	verboseMode, doForce, toStdOut, progress       bool
	quietMode, spaceCheck                          bool
	features                                       cz.BitFlags
	topLevel, sumName, encode                      string
	maxArchive, maxEntry, maxInput                 string
	level, threads, fecDataShards, fecParityShards int
)

func init() {
	resetGlobals()
}

// resetGlobals resets global configuration variables to their default values.
func resetGlobals() {
	def := cz.DefaultConfig()
	outPath = ""
	verboseMode = false
	doForce = false
	toStdOut = false
	progress = false
	quietMode = false
	spaceCheck = true
	features = def.Features
	topLevel = def.TopLevel
	sumName = ""
	encode = ""
	maxArchive = "500MiB"
	maxEntry = "50MiB"
	maxInput = "1GiB"
	level = def.Level
	threads = runtime.NumCPU()
	fecDataShards = cz.DefaultFECDataShards
	fecParityShards = cz.DefaultFECParityShards
}
