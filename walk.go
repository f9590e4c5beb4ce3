package cfbzip

import (
	"fmt"

	"cfbzip/internal/cfb"
)

// entrySource is the part of *cfb.File the walker needs.
type entrySource interface {
	Entry(id uint32) (cfb.DirEntry, error)
	ReadStreamInto(start uint32, size uint64, dst []byte) ([]byte, error)
}

type walkFrame struct {
	id     uint32
	prefix string
}

// walker visits every stream reachable from a starting entry. Streams are
// read one at a time into the shared scratch buffer.
type walker struct {
	src     entrySource
	scratch *Scratch
	sniff   bool
	visit   func(path string, e cfb.DirEntry, data []byte) error
	seen    map[uint32]struct{}
}

func newWalker(src entrySource, scratch *Scratch, sniff bool, visit func(string, cfb.DirEntry, []byte) error) *walker {
	return &walker{
		src:     src,
		scratch: scratch,
		sniff:   sniff,
		visit:   visit,
		seen:    make(map[uint32]struct{}),
	}
}

// walk visits start and everything linked from it: the entry itself, its
// left sibling subtree, its right sibling subtree, then its children. An
// entry reached twice means the tree has a cycle or a shared node.
func (w *walker) walk(start uint32, prefix string) error {
	if !cfb.ValidID(start) {
		return nil
	}
	stack := []walkFrame{{id: start, prefix: prefix}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, dup := w.seen[f.id]; dup {
			return fmt.Errorf("%w: entry %d reached twice under %q", ErrMalformedTree, f.id, f.prefix)
		}
		w.seen[f.id] = struct{}{}

		e, err := w.src.Entry(f.id)
		if err != nil {
			return fmt.Errorf("%w: entry %d: %w", ErrInvalidContainer, f.id, err)
		}
		if e.Type == cfb.Stream {
			if err := w.stream(e, f.prefix); err != nil {
				return err
			}
		}

		// LIFO: push in reverse visiting order.
		if e.Type == cfb.Storage && cfb.ValidID(e.Child) {
			stack = append(stack, walkFrame{id: e.Child, prefix: f.prefix + "/" + e.Name})
		}
		if cfb.ValidID(e.RightSibling) {
			stack = append(stack, walkFrame{id: e.RightSibling, prefix: f.prefix})
		}
		if cfb.ValidID(e.LeftSibling) {
			stack = append(stack, walkFrame{id: e.LeftSibling, prefix: f.prefix})
		}
	}
	return nil
}

func (w *walker) stream(e cfb.DirEntry, prefix string) error {
	lease, err := w.scratch.Checkout(int64(e.StreamSize))
	if err != nil {
		return fmt.Errorf("%s/%s: %w", prefix, e.Name, err)
	}
	defer lease.Release()

	data, err := w.src.ReadStreamInto(e.StartSector, e.StreamSize, lease.Bytes())
	if err != nil {
		return fmt.Errorf("%w: stream %s/%s: %w", ErrInvalidContainer, prefix, e.Name, err)
	}
	name := e.Name
	if w.sniff {
		name = Normalize(data, name)
	}
	return w.visit(prefix+"/"+name, e, data)
}
