package cfbzip

import (
	"fmt"

	"cfbzip/internal/cfb"

	"github.com/dustin/go-humanize"
)

// session converts one container. It owns its scratch and output buffers
// and is used for exactly one traversal.
type session struct {
	cfg     Config
	src     entrySource
	root    cfb.DirEntry
	post    PostFunc
	out     *OutputBuffer
	scratch *Scratch
	enc     *Encoder

	sizeGate *Gate
	fileGate *Gate
	files    int
	done     bool
}

func openContainer(raw []byte) (*cfb.File, cfb.DirEntry, error) {
	doc, err := cfb.Open(raw)
	if err != nil {
		return nil, cfb.DirEntry{}, fmt.Errorf("%w: %w", ErrInvalidContainer, err)
	}
	root, err := doc.Entry(rootEntryID)
	if err != nil {
		return nil, cfb.DirEntry{}, fmt.Errorf("%w: %w", ErrInvalidContainer, err)
	}
	if root.Type != cfb.RootStorage {
		return nil, cfb.DirEntry{}, fmt.Errorf("%w: entry %d is a %v, not the root storage", ErrInvalidContainer, rootEntryID, root.Type)
	}
	return doc, root, nil
}

// Convert zips every stream of the container in raw. Progress and the
// final archive are delivered through post: size and file messages are
// throttled to cfg.ProgressInterval, then a last size, a last file and one
// done message follow. On error no done message is sent.
func Convert(raw []byte, cfg Config, post PostFunc) error {
	doc, root, err := openContainer(raw)
	if err != nil {
		return err
	}
	if post == nil {
		post = func(OutMessage) {}
	}
	s := &session{
		cfg:      cfg,
		src:      doc,
		root:     root,
		post:     post,
		out:      NewOutputBuffer(cfg.InitialArchiveSize, cfg.MaxArchiveSize),
		scratch:  NewScratch(cfg.InitialScratchSize, cfg.MaxEntrySize),
		sizeGate: NewGate(cfg.Clock),
		fileGate: NewGate(cfg.Clock),
	}
	return s.run()
}

// ConvertBytes is Convert returning the archive and the number of files in
// it instead of posting messages.
func ConvertBytes(raw []byte, cfg Config) ([]byte, int, error) {
	var archive []byte
	var files int
	err := Convert(raw, cfg, func(m OutMessage) {
		switch m.Kind {
		case KindFile:
			files = m.FilesCompleted
		case KindDone:
			archive = m.Payload
		}
	})
	if err != nil {
		return nil, 0, err
	}
	return archive, files, nil
}

func (s *session) gateOptions() GateOptions {
	return GateOptions{MinDelta: s.cfg.ProgressInterval, AutoMark: true}
}

func (s *session) run() error {
	s.cfg.showFeatures()
	modTime := s.cfg.ModTime
	if modTime.IsZero() {
		modTime = s.cfg.now()
	}
	enc, err := NewEncoder(s.cfg.Level, modTime, s.onChunk)
	if err != nil {
		return err
	}
	s.enc = enc

	w := newWalker(s.src, s.scratch, s.cfg.Features.IsSet(FeatureSniff), s.add)
	w.seen[rootEntryID] = struct{}{}
	if err := w.walk(s.root.Child, s.cfg.TopLevel); err != nil {
		return err
	}
	if err := s.enc.Finish(); err != nil {
		return err
	}
	if !s.done {
		return fmt.Errorf("%w: no final chunk", ErrCodec)
	}
	return nil
}

func (s *session) add(path string, _ cfb.DirEntry, data []byte) error {
	if err := s.enc.Push(path, data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	s.files++
	s.cfg.doLog(true, "%v (%v)", path, humanize.Bytes(uint64(len(data))))
	s.fileGate.RunIfElapsed(func() {
		s.post(OutMessage{Kind: KindFile, FilesCompleted: s.files})
	}, s.gateOptions())
	return nil
}

func (s *session) onChunk(chunk []byte, final bool) error {
	if err := s.out.Append(chunk); err != nil {
		return err
	}
	total := int64(s.out.Len())
	if !final {
		s.sizeGate.RunIfElapsed(func() {
			s.post(OutMessage{Kind: KindSize, TotalBytes: total})
		}, s.gateOptions())
		return nil
	}

	s.out.Seal()
	if s.cfg.Features.IsSet(FeatureVerify) {
		n, err := Verify(s.out.Bytes())
		if err != nil {
			return err
		}
		if n != s.files {
			return fmt.Errorf("%w: archive holds %d entries, wrote %d", ErrCodec, n, s.files)
		}
	}
	s.post(OutMessage{Kind: KindSize, TotalBytes: total})
	s.post(OutMessage{Kind: KindFile, FilesCompleted: s.files})
	buf, err := s.out.Release()
	if err != nil {
		return err
	}
	s.done = true
	s.cfg.doLog(true, "Sealed archive: %v files, %v", s.files, humanize.Bytes(uint64(len(buf))))
	s.post(OutMessage{Kind: KindDone, Payload: buf})
	return nil
}
