package cfbzip

import "errors"

var (
	// ErrInvalidContainer is returned when the input is not a compound file.
	ErrInvalidContainer = errors.New("invalid CFB file")

	// ErrCodec is returned when the zip encoder fails.
	ErrCodec = errors.New("zip encoder failed")

	// ErrEntryTooLarge is returned when a stream exceeds the per-entry ceiling.
	ErrEntryTooLarge = errors.New("stream exceeds entry size limit")

	// ErrArchiveTooLarge is returned when the output exceeds the archive ceiling.
	ErrArchiveTooLarge = errors.New("archive exceeds size limit")

	// ErrInputTooLarge is returned when a decoded input exceeds MaxInputSize.
	ErrInputTooLarge = errors.New("input exceeds size limit")

	// ErrMalformedTree is returned when a directory entry is reached twice.
	ErrMalformedTree = errors.New("malformed directory tree")

	// ErrScratchBusy is returned when the scratch buffer is checked out twice.
	ErrScratchBusy = errors.New("scratch buffer already in use")

	// ErrSealed is returned when writing to a sealed output buffer.
	ErrSealed = errors.New("output buffer sealed")

	// ErrReleased is returned when the output buffer was already handed off.
	ErrReleased = errors.New("output buffer already released")

	// ErrUnknownMessage is returned for inbound messages the worker cannot handle.
	ErrUnknownMessage = errors.New("unknown message kind")
)
