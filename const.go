package cfbzip

import "time"

const (
	defaultTopLevel         = "emotes"
	defaultMaxArchiveSize   = 500 * 1024 * 1024 // 500MiB
	defaultMaxEntrySize     = 50 * 1024 * 1024  // 50MiB
	defaultInitialArchive   = 1024
	defaultInitialScratch   = 1 * 1024 * 1024
	defaultMaxInputSize     = 1024 * 1024 * 1024 // 1GiB
	defaultProgressInterval = 100 * time.Millisecond

	// rootEntryID is the directory id of the root storage.
	rootEntryID = 0
)

// Features
const (
	FeatureNone BitFlags = 1 << iota
	FeatureSniff
	FeatureVerify
	FeatureChecksums

	featureTop //Do not use, move or delete
)

var (
	flagNames = []string{"None", "Sniff", "Verify", "Checksums", "Unknown"}
)
