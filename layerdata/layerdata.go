// Package layerdata decodes the tile data of a Tiled layer into a flat,
// row-major sequence of raw GIDs.
//
// Each encoding is an independent strategy selected by the encoding and
// compression tags of the <data> element.
package layerdata

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	EncodingXML    = "xml"
	EncodingCSV    = "csv"
	EncodingBase64 = "base64"

	CompressionNone = ""
	CompressionZlib = "zlib"
	CompressionGzip = "gzip"
)

var ErrMalformed = errors.New("layerdata: malformed layer data")

// Data is the content of a <data> element. Tiles holds the gid attributes of
// <tile> children and is only used by the xml encoding.
type Data struct {
	Encoding    string
	Compression string
	Text        string
	Tiles       []uint32
}

// decoder returns the raw GIDs of d. want is the expected count, used to
// bound decompression.
type decoder func(d Data, want int) ([]uint32, error)

var decoders = map[string]decoder{
	"":             decodeXML,
	EncodingXML:    decodeXML,
	EncodingCSV:    decodeCSV,
	EncodingBase64: decodeBase64,
}

// Decode returns exactly want raw GIDs or an error wrapping ErrMalformed.
func Decode(d Data, want int) ([]uint32, error) {
	dec, ok := decoders[d.Encoding]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported encoding %q", ErrMalformed, d.Encoding)
	}
	if d.Compression != CompressionNone && d.Encoding != EncodingBase64 {
		return nil, fmt.Errorf("%w: compression %q requires base64 encoding", ErrMalformed, d.Compression)
	}
	gids, err := dec(d, want)
	if err != nil {
		return nil, err
	}
	if len(gids) != want {
		return nil, fmt.Errorf("%w: got %d gids, want %d", ErrMalformed, len(gids), want)
	}
	return gids, nil
}

func decodeXML(d Data, _ int) ([]uint32, error) {
	out := make([]uint32, len(d.Tiles))
	copy(out, d.Tiles)
	return out, nil
}

func decodeCSV(d Data, _ int) ([]uint32, error) {
	fields := strings.FieldsFunc(d.Text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]uint32, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseUint(f, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: csv token %q: %v", ErrMalformed, f, err)
		}
		out = append(out, uint32(v))
	}
	return out, nil
}

func decodeBase64(d Data, want int) ([]uint32, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(d.Text), ""))
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrMalformed, err)
	}
	b, err := inflate(raw, d.Compression, want*4)
	if err != nil {
		return nil, err
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of gids", ErrMalformed, len(b))
	}
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out, nil
}

// inflate decompresses raw, failing once the output passes limit bytes.
func inflate(raw []byte, compression string, limit int) ([]byte, error) {
	var r io.ReadCloser
	var err error
	switch compression {
	case CompressionNone:
		return raw, nil
	case CompressionZlib:
		r, err = zlibOrRaw(raw)
	case CompressionGzip:
		r, err = gzip.NewReader(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("%w: unsupported compression %q", ErrMalformed, compression)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, compression, err)
	}
	defer r.Close()
	b, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, compression, err)
	}
	if len(b) > limit {
		return nil, fmt.Errorf("%w: %s: inflates past %d bytes", ErrMalformed, compression, limit)
	}
	return b, nil
}

// zlibOrRaw accepts zlib-wrapped streams and bare deflate streams; some
// exporters omit the zlib header.
func zlibOrRaw(raw []byte) (io.ReadCloser, error) {
	r, err := zlib.NewReader(bytes.NewReader(raw))
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, zlib.ErrHeader) {
		return nil, err
	}
	return flate.NewReader(bytes.NewReader(raw)), nil
}
