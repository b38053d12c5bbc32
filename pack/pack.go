// Package pack handles compressed archive export and import of family
// trees, for moving a tree between hosts as a single checksummed blob.
package pack

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"kintree/cas"
	"kintree/graph"
	"kintree/nodelink"
)

// Archive format (whole stream zstd-compressed):
// [4 bytes: header length (big-endian)]
// [header JSON: Header]
// [node-link JSON document]
//
// The header carries a BLAKE3 checksum of the document bytes; import
// fails if they disagree.

const (
	headerLengthSize = 4
	maxHeaderSize    = 1 << 20 // 1MB max header

	// FormatVersion is the current archive version.
	FormatVersion = 1
)

// Header describes the archived document.
type Header struct {
	Version   int    `json:"version"`
	Checksum  string `json:"checksum"` // hex BLAKE3 of the document bytes
	Persons   int    `json:"persons"`
	Relations int    `json:"relations"`
	CreatedAt int64  `json:"createdAt"` // unix milliseconds
}

// Export writes g to w as a zstd-compressed archive.
func Export(w io.Writer, g *graph.Graph) error {
	doc := nodelink.FromGraph(g)
	data, err := nodelink.Encode(doc)
	if err != nil {
		return err
	}

	header := Header{
		Version:   FormatVersion,
		Checksum:  cas.Blake3HashHex(data),
		Persons:   len(doc.Nodes),
		Relations: len(doc.Links),
		CreatedAt: cas.NowMs(),
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("marshaling archive header: %w", err)
	}

	encoder, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating zstd encoder: %w", err)
	}

	var lenBuf [headerLengthSize]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(headerJSON)))
	for _, chunk := range [][]byte{lenBuf[:], headerJSON, data} {
		if _, err := encoder.Write(chunk); err != nil {
			encoder.Close()
			return fmt.Errorf("writing archive: %w", err)
		}
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("flushing archive: %w", err)
	}
	return nil
}

// Import reads a zstd-compressed archive from r, verifies version and
// checksum, and reconstructs the family graph.
func Import(r io.Reader) (*graph.Graph, error) {
	decoder, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	decompressed, err := io.ReadAll(decoder)
	if err != nil {
		return nil, fmt.Errorf("decompressing archive: %w", err)
	}
	if len(decompressed) < headerLengthSize {
		return nil, fmt.Errorf("archive too small: %d bytes", len(decompressed))
	}

	headerLen := binary.BigEndian.Uint32(decompressed[:headerLengthSize])
	if headerLen > maxHeaderSize {
		return nil, fmt.Errorf("archive header too large: %d bytes", headerLen)
	}
	if int(headerLengthSize+headerLen) > len(decompressed) {
		return nil, fmt.Errorf("archive truncated: header claims %d bytes", headerLen)
	}

	var header Header
	if err := json.Unmarshal(decompressed[headerLengthSize:headerLengthSize+headerLen], &header); err != nil {
		return nil, fmt.Errorf("parsing archive header: %w", err)
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported archive version %d", header.Version)
	}

	data := decompressed[headerLengthSize+headerLen:]
	if cas.Blake3HashHex(data) != header.Checksum {
		return nil, fmt.Errorf("archive checksum mismatch")
	}

	doc, err := nodelink.Decode(data)
	if err != nil {
		return nil, err
	}
	return doc.Graph()
}
