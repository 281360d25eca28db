// Package savefile reads save containers: a fixed-size opaque header
// followed by a zlib or raw-deflate compressed UTF-8 JSON payload.
package savefile

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"golang.org/x/text/encoding/unicode"

	"github.com/starford/savscan/internal/apperr"
	"github.com/starford/savscan/internal/checksum"
	"github.com/starford/savscan/internal/document"
)

// DefaultHeaderSize is the length of the tag that precedes the payload.
const DefaultHeaderSize = 4

// Framing names the compression wrapper the payload was stored with.
type Framing string

const (
	FramingZlib    Framing = "zlib"
	FramingDeflate Framing = "deflate"
)

// Save is a decoded save container.
type Save struct {
	Path     string
	Header   []byte
	Framing  Framing
	Checksum string
	Size     int
	Root     *document.Node
}

// HeaderHex is the header rendered as lowercase hex.
func (s *Save) HeaderHex() string { return hex.EncodeToString(s.Header) }

// Loader decodes save containers.
type Loader struct {
	headerSize int
	logger     *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHeaderSize overrides the number of leading bytes to discard.
func WithHeaderSize(n int) LoaderOption {
	return func(l *Loader) {
		l.headerSize = n
	}
}

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader with a 4-byte header and a discarding logger
// unless overridden.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		headerSize: DefaultHeaderSize,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the save at path with default settings and returns its
// document root.
func Load(path string) (*document.Node, error) {
	s, err := NewLoader().Load(path)
	if err != nil {
		return nil, err
	}
	return s.Root, nil
}

// Load reads and decodes the save at path.
func (l *Loader) Load(path string) (*Save, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s, err := l.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// Decode decodes an in-memory save container.
func (l *Loader) Decode(raw []byte) (*Save, error) {
	if len(raw) < l.headerSize {
		return nil, fmt.Errorf("%w: %d bytes, header needs %d", apperr.ErrTooSmall, len(raw), l.headerSize)
	}
	header := bytes.Clone(raw[:l.headerSize])

	data, framing, err := Inflate(raw[l.headerSize:])
	if err != nil {
		return nil, err
	}
	l.logger.Debug("payload inflated",
		slog.String("framing", string(framing)),
		slog.Int("compressed_bytes", len(raw)-l.headerSize),
		slog.Int("decompressed_bytes", len(data)))

	root, err := document.Parse(DecodeText(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrParse, err)
	}
	return &Save{
		Header:   header,
		Framing:  framing,
		Checksum: checksum.Sum(raw),
		Size:     len(raw),
		Root:     root,
	}, nil
}

// Inflate decompresses payload as zlib, falling back to raw deflate when the
// zlib attempt fails. The error wraps apperr.ErrDecompress and both causes.
func Inflate(payload []byte) ([]byte, Framing, error) {
	data, zerr := inflateZlib(payload)
	if zerr == nil {
		return data, FramingZlib, nil
	}
	data, ferr := inflateDeflate(payload)
	if ferr == nil {
		return data, FramingDeflate, nil
	}
	return nil, "", fmt.Errorf("%w: %w", apperr.ErrDecompress,
		errors.Join(fmt.Errorf("zlib: %w", zerr), fmt.Errorf("raw deflate: %w", ferr)))
}

func inflateZlib(payload []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func inflateDeflate(payload []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(payload))
	defer r.Close()
	return io.ReadAll(r)
}

// DecodeText returns data as valid UTF-8, replacing every invalid byte
// sequence with U+FFFD.
func DecodeText(data []byte) []byte {
	out, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return bytes.ToValidUTF8(data, []byte("�"))
	}
	return out
}
