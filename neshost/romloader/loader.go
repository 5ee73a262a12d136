// Package romloader reads NES cartridge images from disk, unpacking them from
// ZIP, gzip, tar.gz, 7z or RAR archives when needed.
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extension is the file extension of raw cartridge images.
const Extension = ".nes"

// maxROMSize bounds how much is read from a file or archive entry.
const maxROMSize = 4 * 1024 * 1024

var (
	ErrNoROMFile         = errors.New("no .nes file found in archive")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrFileTooLarge      = errors.New("file exceeds maximum size limit")
)

type format int

const (
	formatUnknown format = iota
	formatRaw
	formatZIP
	format7z
	formatGzip
	formatRAR
)

func (f format) String() string {
	return [...]string{"unknown", "raw", "zip", "7z", "gzip", "rar"}[f]
}

var magics = []struct {
	prefix []byte
	format format
}{
	{[]byte{0x50, 0x4B, 0x03, 0x04}, formatZIP},
	{[]byte{0x50, 0x4B, 0x05, 0x06}, formatZIP},
	{[]byte{0x52, 0x61, 0x72, 0x21}, formatRAR},
	{[]byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}, format7z},
	{[]byte{0x1F, 0x8B}, formatGzip},
	{inesMagic, formatRaw},
}

var extensions = map[string]format{
	".zip": formatZIP,
	".7z":  format7z,
	".gz":  formatGzip,
	".tgz": formatGzip,
	".rar": formatRAR,
	".nes": formatRaw,
}

// ROM is a cartridge image read from disk.
type ROM struct {
	// Name is the base name of the image file, inside the archive if there was one.
	Name   string
	Data   []byte
	Header Header
}

// Load reads the cartridge image at path. Archives are recognised by their magic
// bytes first and their extension second; the first .nes entry is extracted.
// The image must carry a valid iNES header.
func Load(path string) (*ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	head := make([]byte, 16)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}

	var (
		data []byte
		name string
	)
	switch kind := detectFormat(head[:n], path); kind {
	case formatRaw:
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to seek file: %w", err)
		}
		data, err = limitedRead(f)
		name = filepath.Base(path)
	case formatZIP:
		data, name, err = extractFromZIP(path)
	case format7z:
		data, name, err = extractFrom7z(path)
	case formatGzip:
		data, name, err = extractFromGzip(path)
	case formatRAR:
		data, name, err = extractFromRAR(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, err
	}

	header, err := ParseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &ROM{Name: name, Data: data, Header: header}, nil
}

func detectFormat(head []byte, path string) format {
	for _, m := range magics {
		if bytes.HasPrefix(head, m.prefix) {
			return m.format
		}
	}
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") {
		return formatGzip
	}
	if f, ok := extensions[filepath.Ext(lower)]; ok {
		return f
	}
	return formatUnknown
}

func isROMFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), Extension)
}

func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxROMSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
