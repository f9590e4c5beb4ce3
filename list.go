package cfbzip

import "cfbzip/internal/cfb"

// EntryInfo describes one stream as it would be archived.
type EntryInfo struct {
	Path   string `json:"path"`
	Name   string `json:"name"`
	Size   uint64 `json:"size"`
	Format string `json:"format,omitempty"`
}

// List walks the container in raw like Convert does, without compressing,
// and returns the streams in archive order.
func List(raw []byte, cfg Config) ([]EntryInfo, error) {
	doc, root, err := openContainer(raw)
	if err != nil {
		return nil, err
	}
	var out []EntryInfo
	scratch := NewScratch(cfg.InitialScratchSize, cfg.MaxEntrySize)
	w := newWalker(doc, scratch, cfg.Features.IsSet(FeatureSniff), func(path string, e cfb.DirEntry, data []byte) error {
		info := EntryInfo{Path: path, Name: e.Name, Size: e.StreamSize}
		if f, ok := Sniff(data); ok {
			info.Format = f.Name
		}
		out = append(out, info)
		return nil
	})
	w.seen[rootEntryID] = struct{}{}
	if err := w.walk(root.Child, cfg.TopLevel); err != nil {
		return nil, err
	}
	return out, nil
}
