// Package testutil builds small compound files for tests.
package testutil

import (
	"encoding/binary"
	"unicode/utf16"
)

const (
	sectorSize = 512
	miniSector = 64
	miniCutoff = 4096
	perFat     = sectorSize / 4
	perDir     = sectorSize / 128

	endOfChain = 0xFFFFFFFE
	fatSect    = 0xFFFFFFFD
	freeSect   = 0xFFFFFFFF
	noStream   = 0xFFFFFFFF
)

// Node is a storage (Storage set) or a stream in a container under test.
type Node struct {
	Name     string
	Data     []byte
	Storage  bool
	Children []Node
}

// Stream returns a stream node.
func Stream(name string, data []byte) Node {
	return Node{Name: name, Data: data}
}

// Dir returns a storage node holding children.
func Dir(name string, children ...Node) Node {
	return Node{Name: name, Storage: true, Children: children}
}

// PNG returns n bytes starting with the PNG signature.
func PNG(n int) []byte {
	b := make([]byte, n)
	copy(b, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	for i := 8; i < n; i++ {
		b[i] = byte(i)
	}
	return b
}

type entry struct {
	name               string
	typ                byte
	left, right, child uint32
	start              uint32
	size               uint64
	data               []byte
	big                bool
}

type builder struct {
	entries  []entry
	miniData []byte
	miniFat  []uint32
}

// BuildCFB lays out a version 3 compound file whose root storage holds
// children. Siblings are stored as a balanced binary tree so both left and
// right links are exercised. Streams under 4096 bytes live in the mini
// stream.
func BuildCFB(children ...Node) []byte {
	b := &builder{}
	b.entries = append(b.entries, entry{name: "Root Entry", typ: 5, left: noStream, right: noStream, child: noStream})
	b.addChildren(0, children)

	var bigSectors uint32
	for i := range b.entries {
		if b.entries[i].big {
			bigSectors += sectorsFor(len(b.entries[i].data), sectorSize)
		}
	}
	nDir := sectorsFor(len(b.entries), perDir)
	nMiniFat := sectorsFor(len(b.miniFat), perFat)
	nMini := sectorsFor(len(b.miniData), sectorSize)
	rest := nDir + nMiniFat + nMini + bigSectors
	nFat := uint32(1)
	for nFat*perFat < nFat+rest {
		nFat++
	}
	total := nFat + rest

	fat := make([]uint32, nFat*perFat)
	for i := range fat {
		fat[i] = freeSect
	}
	for i := uint32(0); i < nFat; i++ {
		fat[i] = fatSect
	}
	next := nFat
	link := func(n uint32) uint32 {
		if n == 0 {
			return endOfChain
		}
		start := next
		for i := uint32(0); i < n; i++ {
			if i == n-1 {
				fat[next] = endOfChain
			} else {
				fat[next] = next + 1
			}
			next++
		}
		return start
	}
	dirStart := link(nDir)
	miniFatStart := link(nMiniFat)
	miniStart := link(nMini)
	b.entries[0].start = miniStart
	b.entries[0].size = uint64(len(b.miniData))
	for i := range b.entries {
		if b.entries[i].big {
			b.entries[i].start = link(sectorsFor(len(b.entries[i].data), sectorSize))
		}
	}

	out := make([]byte, sectorSize*(int(total)+1))
	writeHeader(out[:sectorSize], nFat, dirStart, miniFatStart, nMiniFat)

	le := binary.LittleEndian
	for i, v := range fat {
		le.PutUint32(out[sectorSize+i*4:], v)
	}
	dirOff := offset(dirStart)
	for i := 0; i < int(nDir*perDir); i++ {
		raw := out[dirOff+i*128 : dirOff+(i+1)*128]
		if i < len(b.entries) {
			b.entries[i].encode(raw)
		} else {
			le.PutUint32(raw[68:], noStream)
			le.PutUint32(raw[72:], noStream)
			le.PutUint32(raw[76:], noStream)
		}
	}
	if nMiniFat > 0 {
		mf := offset(miniFatStart)
		for i := 0; i < int(nMiniFat*perFat); i++ {
			v := uint32(freeSect)
			if i < len(b.miniFat) {
				v = b.miniFat[i]
			}
			le.PutUint32(out[mf+i*4:], v)
		}
	}
	if nMini > 0 {
		copy(out[offset(miniStart):], b.miniData)
	}
	for i := range b.entries {
		if b.entries[i].big {
			copy(out[offset(b.entries[i].start):], b.entries[i].data)
		}
	}
	return out
}

func (b *builder) add(n Node) uint32 {
	id := uint32(len(b.entries))
	e := entry{name: n.Name, left: noStream, right: noStream, child: noStream, start: endOfChain}
	if n.Storage {
		e.typ = 1
	} else {
		e.typ = 2
		e.size = uint64(len(n.Data))
		e.data = n.Data
		switch {
		case len(n.Data) == 0:
		case len(n.Data) >= miniCutoff:
			e.big = true
		default:
			e.start = b.addMini(n.Data)
		}
	}
	b.entries = append(b.entries, e)
	return id
}

func (b *builder) addMini(data []byte) uint32 {
	start := uint32(len(b.miniFat))
	n := sectorsFor(len(data), miniSector)
	for i := uint32(0); i < n; i++ {
		if i == n-1 {
			b.miniFat = append(b.miniFat, endOfChain)
		} else {
			b.miniFat = append(b.miniFat, start+i+1)
		}
	}
	padded := make([]byte, n*miniSector)
	copy(padded, data)
	b.miniData = append(b.miniData, padded...)
	return start
}

func (b *builder) addChildren(parent uint32, nodes []Node) {
	ids := make([]uint32, len(nodes))
	for i, n := range nodes {
		ids[i] = b.add(n)
	}
	b.entries[parent].child = b.balance(ids)
	for i, n := range nodes {
		if n.Storage {
			b.addChildren(ids[i], n.Children)
		}
	}
}

func (b *builder) balance(ids []uint32) uint32 {
	if len(ids) == 0 {
		return noStream
	}
	m := len(ids) / 2
	left := b.balance(ids[:m])
	right := b.balance(ids[m+1:])
	b.entries[ids[m]].left = left
	b.entries[ids[m]].right = right
	return ids[m]
}

func (e *entry) encode(raw []byte) {
	le := binary.LittleEndian
	units := utf16.Encode([]rune(e.name))
	if len(units) > 31 {
		units = units[:31]
	}
	for i, u := range units {
		le.PutUint16(raw[i*2:], u)
	}
	le.PutUint16(raw[64:], uint16((len(units)+1)*2))
	raw[66] = e.typ
	raw[67] = 1
	le.PutUint32(raw[68:], e.left)
	le.PutUint32(raw[72:], e.right)
	le.PutUint32(raw[76:], e.child)
	le.PutUint32(raw[116:], e.start)
	le.PutUint64(raw[120:], e.size)
}

func writeHeader(h []byte, nFat, dirStart, miniFatStart, nMiniFat uint32) {
	le := binary.LittleEndian
	copy(h, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	le.PutUint16(h[24:], 0x003E)
	le.PutUint16(h[26:], 3)
	le.PutUint16(h[28:], 0xFFFE)
	le.PutUint16(h[30:], 9)
	le.PutUint16(h[32:], 6)
	le.PutUint32(h[44:], nFat)
	le.PutUint32(h[48:], dirStart)
	le.PutUint32(h[56:], miniCutoff)
	le.PutUint32(h[60:], miniFatStart)
	le.PutUint32(h[64:], nMiniFat)
	le.PutUint32(h[68:], endOfChain)
	for i := 0; i < 109; i++ {
		v := uint32(freeSect)
		if uint32(i) < nFat {
			v = uint32(i)
		}
		le.PutUint32(h[76+i*4:], v)
	}
}

func offset(sector uint32) int {
	return (int(sector) + 1) * sectorSize
}

func sectorsFor(n, per int) uint32 {
	return uint32((n + per - 1) / per)
}
