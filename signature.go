package cfbzip

import "strings"

// wild matches any byte in a signature.
const wild = -1

// Format is an image format recognised by its leading bytes.
type Format struct {
	Name       string
	Extensions []string // accepted name suffixes, with the dot
	Magic      []int16  // expected bytes from offset 0, wild for any
}

// Formats are tried in order; the first match wins.
var Formats = []Format{
	{Name: "jpg", Extensions: []string{".jpg", ".jpeg"}, Magic: []int16{0xFF, 0xD8, 0xFF}},
	{Name: "gif", Extensions: []string{".gif"}, Magic: []int16{0x47, 0x49, 0x46, 0x38}},
	{Name: "png", Extensions: []string{".png"}, Magic: []int16{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{Name: "webp", Extensions: []string{".webp"}, Magic: []int16{0x52, 0x49, 0x46, 0x46, wild, wild, wild, wild, 0x57, 0x45, 0x42, 0x50}},
	{Name: "bmp", Extensions: []string{".bmp"}, Magic: []int16{0x42, 0x4D}},
}

func (f *Format) matches(data []byte) bool {
	for i, want := range f.Magic {
		if want == wild {
			continue
		}
		if i >= len(data) || int16(data[i]) != want {
			return false
		}
	}
	return true
}

func (f *Format) hasExtension(name string) bool {
	for _, ext := range f.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Sniff returns the first format whose signature matches data.
func Sniff(data []byte) (*Format, bool) {
	for i := range Formats {
		if Formats[i].matches(data) {
			return &Formats[i], true
		}
	}
	return nil, false
}

// Normalize appends the sniffed format's extension to name unless name
// already carries one of that format's extensions. Unrecognised data leaves
// name untouched.
func Normalize(data []byte, name string) string {
	f, ok := Sniff(data)
	if !ok || f.hasExtension(name) {
		return name
	}
	return name + "." + f.Name
}
