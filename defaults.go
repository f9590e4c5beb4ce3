package cfbzip

import "github.com/klauspost/compress/flate"

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		TopLevel:           defaultTopLevel,
		MaxArchiveSize:     defaultMaxArchiveSize,
		MaxEntrySize:       defaultMaxEntrySize,
		MaxInputSize:       defaultMaxInputSize,
		InitialArchiveSize: defaultInitialArchive,
		InitialScratchSize: defaultInitialScratch,
		ProgressInterval:   defaultProgressInterval,
		Level:              flate.DefaultCompression,
		Features:           FeatureSniff,
	}
}
