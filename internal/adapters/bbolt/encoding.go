// Binary encoding for index blobs.
//
// Posting lists are compact little-endian arrays; stored documents use gob.
//
// Posting list format (little-endian):
//
//	idCount: uint32
//	ids:     [idCount]uint32 (ascending)
//
// Document keys are big-endian uint32 so that bbolt's byte ordering matches
// document ID ordering.
package bbolt

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
)

// idSize is the byte size of a single encoded document ID.
const idSize = 4

// encodePostings encodes ascending document IDs. A single buffer is
// pre-allocated to avoid repeated growth.
func encodePostings(ids []uint32) []byte {
	buf := make([]byte, 4+len(ids)*idSize)
	binary.LittleEndian.PutUint32(buf, uint32(len(ids)))
	offset := 4
	for _, id := range ids {
		binary.LittleEndian.PutUint32(buf[offset:], id)
		offset += idSize
	}
	return buf
}

// decodePostings decodes a posting list. Every read is bounds-checked to
// avoid panics on corrupt data.
func decodePostings(data []byte) ([]uint32, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("posting list too short: %d bytes", len(data))
	}
	count := binary.LittleEndian.Uint32(data)
	need := 4 + int(count)*idSize
	if len(data) < need {
		return nil, fmt.Errorf("posting list truncated: have %d bytes, need %d", len(data), need)
	}

	ids := make([]uint32, count)
	offset := 4
	for i := range ids {
		ids[i] = binary.LittleEndian.Uint32(data[offset:])
		offset += idSize
	}
	return ids, nil
}

// encodeCount encodes a single little-endian uint32.
func encodeCount(n uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], n)
	return b[:]
}

func decodeCount(data []byte) (uint32, error) {
	if len(data) != 4 {
		return 0, fmt.Errorf("bad count: %d bytes", len(data))
	}
	return binary.LittleEndian.Uint32(data), nil
}

// docKey encodes a document ID as a bbolt key.
func docKey(id uint32) []byte {
	var k [4]byte
	binary.BigEndian.PutUint32(k[:], id)
	return k[:]
}

// encodeGob encodes a value using gob. Used for stored document fields,
// which are small string maps.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob decodes gob-encoded data into target. Target must be a pointer.
func decodeGob(data []byte, target interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(target)
}
