// Package cfb reads Compound File Binary (OLE2) containers held in memory.
//
// Only what a one-pass extraction needs is exposed: directory entries by id
// and stream content by starting sector. Sector chains are followed through
// the FAT and mini FAT; everything else in the header is validated just
// enough to locate those tables.
package cfb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"
)

var (
	// ErrFormat is returned when the input is not a compound file.
	ErrFormat = errors.New("cfb: not a valid compound file")

	// ErrNoEntry is returned for a directory id outside the directory stream.
	ErrNoEntry = errors.New("cfb: no such directory entry")

	// ErrShortBuffer is returned when the destination cannot hold the stream.
	ErrShortBuffer = errors.New("cfb: destination buffer too small")
)

var signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Special sector and directory ids.
const (
	MaxRegSect uint32 = 0xFFFFFFFA
	DifSect    uint32 = 0xFFFFFFFC
	FatSect    uint32 = 0xFFFFFFFD
	EndOfChain uint32 = 0xFFFFFFFE
	FreeSect   uint32 = 0xFFFFFFFF

	MaxRegSID uint32 = 0xFFFFFFFA
	NoStream  uint32 = 0xFFFFFFFF
)

const (
	headerSize    = 512
	dirEntrySize  = 128
	headerDifat   = 109
	miniSectorLen = 64
)

// ObjectType is the type byte of a directory entry.
type ObjectType uint8

const (
	Unknown     ObjectType = 0
	Storage     ObjectType = 1
	Stream      ObjectType = 2
	RootStorage ObjectType = 5
)

func (t ObjectType) String() string {
	switch t {
	case Storage:
		return "storage"
	case Stream:
		return "stream"
	case RootStorage:
		return "root"
	default:
		return "unknown"
	}
}

// ValidID reports whether id refers to an entry rather than a sentinel.
func ValidID(id uint32) bool {
	return id <= MaxRegSID
}

// DirEntry is one node of the directory tree.
type DirEntry struct {
	ID           uint32
	Name         string
	Type         ObjectType
	LeftSibling  uint32
	RightSibling uint32
	Child        uint32
	StartSector  uint32
	StreamSize   uint64
}

// File is an opened compound file. It keeps a reference to the input bytes
// and never copies stream content except into caller buffers.
type File struct {
	data        []byte
	major       uint16
	sectorSize  int
	miniCutoff  uint64
	fat         []uint32
	miniFat     []uint32
	dirSectors  []uint32
	miniSectors []uint32 // sectors of the mini stream, in order
	miniSize    uint64
}

// Open parses the header and sector tables of b.
func Open(b []byte) (*File, error) {
	if len(b) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than a header", ErrFormat, len(b))
	}
	if !bytes.Equal(b[:8], signature) {
		return nil, fmt.Errorf("%w: bad signature", ErrFormat)
	}
	le := binary.LittleEndian
	if le.Uint16(b[28:]) != 0xFFFE {
		return nil, fmt.Errorf("%w: bad byte order mark", ErrFormat)
	}

	f := &File{data: b, major: le.Uint16(b[26:])}
	shift := le.Uint16(b[30:])
	switch {
	case f.major == 3 && shift == 9:
	case f.major == 4 && shift == 12:
	default:
		return nil, fmt.Errorf("%w: version %d with sector shift %d", ErrFormat, f.major, shift)
	}
	if le.Uint16(b[32:]) != 6 {
		return nil, fmt.Errorf("%w: mini sector shift %d", ErrFormat, le.Uint16(b[32:]))
	}
	f.sectorSize = 1 << shift
	f.miniCutoff = uint64(le.Uint32(b[56:]))

	numFat := le.Uint32(b[44:])
	firstDir := le.Uint32(b[48:])
	firstMiniFat := le.Uint32(b[60:])
	numMiniFat := le.Uint32(b[64:])
	firstDifat := le.Uint32(b[68:])
	numDifat := le.Uint32(b[72:])

	// Every FAT and DIFAT sector has to fit in the file.
	maxSectors := uint64(len(b) / f.sectorSize)
	if uint64(numFat) > maxSectors {
		return nil, fmt.Errorf("%w: %d FAT sectors in a %d byte file", ErrFormat, numFat, len(b))
	}
	if uint64(numDifat) > maxSectors {
		return nil, fmt.Errorf("%w: %d DIFAT sectors in a %d byte file", ErrFormat, numDifat, len(b))
	}

	fatSectors, err := f.readDifat(b[76:76+headerDifat*4], firstDifat, numDifat, numFat)
	if err != nil {
		return nil, err
	}
	if f.fat, err = f.readTable(fatSectors); err != nil {
		return nil, fmt.Errorf("FAT: %w", err)
	}

	if f.dirSectors, err = f.chain(firstDir); err != nil {
		return nil, fmt.Errorf("directory chain: %w", err)
	}
	if len(f.dirSectors) == 0 {
		return nil, fmt.Errorf("%w: empty directory", ErrFormat)
	}

	if numMiniFat > 0 && firstMiniFat != EndOfChain {
		mfSectors, err := f.chain(firstMiniFat)
		if err != nil {
			return nil, fmt.Errorf("mini FAT chain: %w", err)
		}
		if f.miniFat, err = f.readTable(mfSectors); err != nil {
			return nil, fmt.Errorf("mini FAT: %w", err)
		}
	}

	root, err := f.Entry(0)
	if err != nil {
		return nil, err
	}
	f.miniSize = root.StreamSize
	if f.miniSize > 0 {
		if f.miniSectors, err = f.chain(root.StartSector); err != nil {
			return nil, fmt.Errorf("mini stream chain: %w", err)
		}
	}
	return f, nil
}

func (f *File) readDifat(head []byte, next, count, numFat uint32) ([]uint32, error) {
	le := binary.LittleEndian
	out := make([]uint32, 0, numFat)
	for i := 0; i < headerDifat && uint32(len(out)) < numFat; i++ {
		out = append(out, le.Uint32(head[i*4:]))
	}
	perSector := f.sectorSize/4 - 1
	for n := uint32(0); n < count && uint32(len(out)) < numFat; n++ {
		sec, err := f.sector(next)
		if err != nil {
			return nil, fmt.Errorf("DIFAT sector: %w", err)
		}
		for i := 0; i < perSector && uint32(len(out)) < numFat; i++ {
			out = append(out, le.Uint32(sec[i*4:]))
		}
		next = le.Uint32(sec[perSector*4:])
	}
	if uint32(len(out)) < numFat {
		return nil, fmt.Errorf("%w: DIFAT lists %d of %d FAT sectors", ErrFormat, len(out), numFat)
	}
	return out, nil
}

// readTable concatenates the little-endian uint32 tables stored in sectors.
func (f *File) readTable(sectors []uint32) ([]uint32, error) {
	per := f.sectorSize / 4
	out := make([]uint32, 0, len(sectors)*per)
	for _, s := range sectors {
		sec, err := f.sector(s)
		if err != nil {
			return nil, err
		}
		for i := 0; i+4 <= len(sec) && i < per*4; i += 4 {
			out = append(out, binary.LittleEndian.Uint32(sec[i:]))
		}
	}
	return out, nil
}

func (f *File) sector(id uint32) ([]byte, error) {
	if id > MaxRegSect {
		return nil, fmt.Errorf("%w: sector id %#x", ErrFormat, id)
	}
	off := (int64(id) + 1) * int64(f.sectorSize)
	if off+int64(f.sectorSize) > int64(len(f.data)) {
		// The final sector of a file may be truncated.
		if off < int64(len(f.data)) {
			return f.data[off:], nil
		}
		return nil, fmt.Errorf("%w: sector %d beyond end of file", ErrFormat, id)
	}
	return f.data[off : off+int64(f.sectorSize)], nil
}

// chain follows the FAT from start until ENDOFCHAIN.
func (f *File) chain(start uint32) ([]uint32, error) {
	return followChain(f.fat, start)
}

func followChain(table []uint32, start uint32) ([]uint32, error) {
	var out []uint32
	for cur := start; cur != EndOfChain; {
		if cur > MaxRegSect || int(cur) >= len(table) {
			return nil, fmt.Errorf("%w: chain reaches sector %#x", ErrFormat, cur)
		}
		if len(out) >= len(table) {
			return nil, fmt.Errorf("%w: sector chain loops", ErrFormat)
		}
		out = append(out, cur)
		cur = table[cur]
	}
	return out, nil
}

// NumEntries is the number of directory slots, used or not.
func (f *File) NumEntries() int {
	return len(f.dirSectors) * f.sectorSize / dirEntrySize
}

// Entry decodes directory entry id.
func (f *File) Entry(id uint32) (DirEntry, error) {
	if int64(id) >= int64(f.NumEntries()) {
		return DirEntry{}, fmt.Errorf("%w: id %d", ErrNoEntry, id)
	}
	perSector := uint32(f.sectorSize / dirEntrySize)
	sec, err := f.sector(f.dirSectors[id/perSector])
	if err != nil {
		return DirEntry{}, err
	}
	off := int(id%perSector) * dirEntrySize
	if off+dirEntrySize > len(sec) {
		return DirEntry{}, fmt.Errorf("%w: directory entry %d truncated", ErrFormat, id)
	}
	raw := sec[off : off+dirEntrySize]

	le := binary.LittleEndian
	e := DirEntry{
		ID:           id,
		Type:         ObjectType(raw[66]),
		LeftSibling:  le.Uint32(raw[68:]),
		RightSibling: le.Uint32(raw[72:]),
		Child:        le.Uint32(raw[76:]),
		StartSector:  le.Uint32(raw[116:]),
		StreamSize:   le.Uint64(raw[120:]),
	}
	if f.major == 3 {
		// Version 3 writers may leave garbage in the high half.
		e.StreamSize &= 0xFFFFFFFF
	}
	e.Name = decodeName(raw[:64], le.Uint16(raw[64:]))
	return e, nil
}

func decodeName(raw []byte, nameLen uint16) string {
	n := int(nameLen) / 2
	if n > 32 {
		n = 32
	}
	units := make([]uint16, 0, n)
	for i := 0; i < n; i++ {
		u := binary.LittleEndian.Uint16(raw[i*2:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}

// ReadStreamInto copies size bytes of the stream starting at start into dst
// and returns dst[:size]. Streams shorter than the mini stream cutoff are
// read from the mini stream.
func (f *File) ReadStreamInto(start uint32, size uint64, dst []byte) ([]byte, error) {
	if uint64(len(dst)) < size {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrShortBuffer, size, len(dst))
	}
	dst = dst[:size]
	if size == 0 {
		return dst, nil
	}
	if size < f.miniCutoff {
		return dst, f.readMini(start, dst)
	}

	secs, err := f.chain(start)
	if err != nil {
		return nil, err
	}
	pos := 0
	for _, s := range secs {
		if pos == len(dst) {
			break
		}
		sec, err := f.sector(s)
		if err != nil {
			return nil, err
		}
		pos += copy(dst[pos:], sec)
	}
	if pos < len(dst) {
		return nil, fmt.Errorf("%w: stream truncated at %d of %d bytes", ErrFormat, pos, len(dst))
	}
	return dst, nil
}

func (f *File) readMini(start uint32, dst []byte) error {
	secs, err := followChain(f.miniFat, start)
	if err != nil {
		return fmt.Errorf("mini chain: %w", err)
	}
	pos := 0
	for _, ms := range secs {
		if pos == len(dst) {
			break
		}
		off := uint64(ms) * miniSectorLen
		if off >= f.miniSize {
			return fmt.Errorf("%w: mini sector %d outside mini stream", ErrFormat, ms)
		}
		// The mini stream may end inside its last mini sector.
		span := min(uint64(miniSectorLen), f.miniSize-off)
		// A mini sector never straddles regular sectors.
		idx := off / uint64(f.sectorSize)
		if idx >= uint64(len(f.miniSectors)) {
			return fmt.Errorf("%w: mini stream truncated", ErrFormat)
		}
		sec, err := f.sector(f.miniSectors[idx])
		if err != nil {
			return err
		}
		inner := off % uint64(f.sectorSize)
		if inner >= uint64(len(sec)) {
			return fmt.Errorf("%w: mini stream truncated", ErrFormat)
		}
		end := inner + span
		if end > uint64(len(sec)) {
			end = uint64(len(sec))
		}
		pos += copy(dst[pos:], sec[inner:end])
	}
	if pos < len(dst) {
		return fmt.Errorf("%w: mini stream truncated at %d of %d bytes", ErrFormat, pos, len(dst))
	}
	return nil
}
