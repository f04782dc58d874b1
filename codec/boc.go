// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math/bits"

	"github.com/ava-labs/avalanchego/ids"
)

var (
	bocMagic = []byte{0xb5, 0xee, 0x9c, 0x72}

	castagnoli = crc32.MakeTable(crc32.Castagnoli)
)

// ToBOC serializes the tree rooted at c as a single-root bag of cells with
// a CRC32C trailer. Identical subtrees are stored once.
func ToBOC(c *Cell) ([]byte, error) {
	if c == nil {
		return nil, ErrNilCell
	}
	order := topoSort(c)
	index := make(map[ids.ID]int, len(order))
	for i, cell := range order {
		index[cell.hash] = i
	}

	sizeBytes := byteWidth(uint64(len(order)))
	var body []byte
	for _, cell := range order {
		d1, d2 := cell.descriptors()
		body = append(body, d1, d2)
		body = append(body, cell.paddedData()...)
		for _, r := range cell.refs {
			body = appendUint(body, uint64(index[r.hash]), sizeBytes)
		}
	}
	offBytes := byteWidth(uint64(len(body)))

	out := make([]byte, 0, len(bocMagic)+6+3*sizeBytes+offBytes+len(body)+4)
	out = append(out, bocMagic...)
	out = append(out, 1<<6|byte(sizeBytes)) // has_crc32c, size
	out = append(out, byte(offBytes))
	out = appendUint(out, uint64(len(order)), sizeBytes) // cells
	out = appendUint(out, 1, sizeBytes)                  // roots
	out = appendUint(out, 0, sizeBytes)                  // absent
	out = appendUint(out, uint64(len(body)), offBytes)
	out = appendUint(out, 0, sizeBytes) // root index
	out = append(out, body...)
	return binary.LittleEndian.AppendUint32(out, crc32.Checksum(out, castagnoli)), nil
}

// topoSort returns the unique cells of the tree with every parent placed
// before its children and the root first.
func topoSort(root *Cell) []*Cell {
	var (
		visited = make(map[ids.ID]bool)
		post    []*Cell
		visit   func(*Cell)
	)
	visit = func(c *Cell) {
		if visited[c.hash] {
			return
		}
		visited[c.hash] = true
		for _, r := range c.refs {
			visit(r)
		}
		post = append(post, c)
	}
	visit(root)
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

type rawCell struct {
	data []byte
	bits int
	refs []int
}

// FromBOC parses a bag of cells and returns its first root.
func FromBOC(b []byte) (*Cell, error) {
	r := &bocReader{b: b}
	if magic := r.bytes(4); r.err != nil || string(magic) != string(bocMagic) {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidBOC)
	}
	flags := r.byte()
	var (
		hasIdx    = flags&0x80 != 0
		hasCRC    = flags&0x40 != 0
		sizeBytes = int(flags & 0x07)
	)
	if sizeBytes == 0 || sizeBytes > 4 {
		return nil, fmt.Errorf("%w: ref size %d", ErrInvalidBOC, sizeBytes)
	}
	offBytes := int(r.byte())
	if offBytes == 0 || offBytes > 8 {
		return nil, fmt.Errorf("%w: offset size %d", ErrInvalidBOC, offBytes)
	}
	var (
		cellCount = int(r.uint(sizeBytes))
		rootCount = int(r.uint(sizeBytes))
		_         = r.uint(sizeBytes) // absent
		totalSize = r.uint(offBytes)
	)
	if r.err != nil {
		return nil, r.err
	}
	if rootCount < 1 || rootCount > cellCount {
		return nil, fmt.Errorf("%w: %d roots for %d cells", ErrInvalidBOC, rootCount, cellCount)
	}
	roots := make([]int, rootCount)
	for i := range roots {
		roots[i] = int(r.uint(sizeBytes))
	}
	if hasIdx {
		r.bytes(cellCount * offBytes)
	}
	if r.err != nil {
		return nil, r.err
	}
	if totalSize > uint64(len(b)-r.pos) {
		return nil, fmt.Errorf("%w: truncated cell data", ErrInvalidBOC)
	}
	if hasCRC {
		if len(b) < 4 {
			return nil, ErrInvalidBOC
		}
		payload := b[:len(b)-4]
		if crc32.Checksum(payload, castagnoli) != binary.LittleEndian.Uint32(b[len(b)-4:]) {
			return nil, ErrChecksumMismatch
		}
	}

	raws := make([]rawCell, cellCount)
	for i := range raws {
		d1, d2 := r.byte(), r.byte()
		if d1&0x08 != 0 || d1>>5 != 0 {
			return nil, ErrUnsupportedCell
		}
		refCount := int(d1 & 0x07)
		if refCount > 4 {
			return nil, fmt.Errorf("%w: %d refs", ErrInvalidBOC, refCount)
		}
		dataLen := (int(d2) + 1) / 2
		data := r.bytes(dataLen)
		if r.err != nil {
			return nil, r.err
		}
		raw := rawCell{data: data, bits: dataLen * 8}
		if d2%2 == 1 {
			last := data[dataLen-1]
			if last == 0 {
				return nil, fmt.Errorf("%w: missing completion tag", ErrInvalidBOC)
			}
			tz := bits.TrailingZeros8(last)
			raw.bits = dataLen*8 - tz - 1
			data[dataLen-1] &^= 1 << tz
		}
		for j := 0; j < refCount; j++ {
			idx := int(r.uint(sizeBytes))
			if idx <= i || idx >= cellCount {
				return nil, fmt.Errorf("%w: ref %d from cell %d", ErrInvalidBOC, idx, i)
			}
			raw.refs = append(raw.refs, idx)
		}
		if r.err != nil {
			return nil, r.err
		}
		raws[i] = raw
	}

	cells := make([]*Cell, cellCount)
	for i := cellCount - 1; i >= 0; i-- {
		refs := make([]*Cell, len(raws[i].refs))
		for j, idx := range raws[i].refs {
			refs[j] = cells[idx]
		}
		c, err := newCell(raws[i].data, raws[i].bits, refs)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBOC, err)
		}
		cells[i] = c
	}
	if roots[0] >= cellCount {
		return nil, fmt.Errorf("%w: root index %d", ErrInvalidBOC, roots[0])
	}
	return cells[roots[0]], nil
}

// ToBase64 is ToBOC encoded with the standard base64 alphabet.
func ToBase64(c *Cell) (string, error) {
	b, err := ToBOC(c)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func FromBase64(s string) (*Cell, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBOC, err)
	}
	return FromBOC(b)
}

type bocReader struct {
	b   []byte
	pos int
	err error
}

func (r *bocReader) bytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.pos+n > len(r.b) {
		r.err = fmt.Errorf("%w: unexpected end of input", ErrInvalidBOC)
		return nil
	}
	out := make([]byte, n)
	copy(out, r.b[r.pos:r.pos+n])
	r.pos += n
	return out
}

func (r *bocReader) byte() byte {
	b := r.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *bocReader) uint(n int) uint64 {
	var v uint64
	for _, x := range r.bytes(n) {
		v = v<<8 | uint64(x)
	}
	return v
}

func appendUint(dst []byte, v uint64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*uint(i))))
	}
	return dst
}

func byteWidth(v uint64) int {
	n := (bits.Len64(v) + 7) / 8
	if n == 0 {
		return 1
	}
	return n
}
