package incremental

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion is bumped whenever a cached model or facts layout changes.
const SchemaVersion uint16 = 1

// Key is a content address.
type Key [32]byte

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// IsZero reports whether k was never computed.
func (k Key) IsZero() bool { return k == Key{} }

// Encode produces the canonical msgpack encoding of v. The value is first
// encoded as is, decoded back into generic maps and slices, and encoded
// again with sorted map keys, so map iteration order never reaches the
// bytes. Map keys must be strings.
func Encode(v any) ([]byte, error) {
	raw, err := encode(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	var generic any
	if err := msgpack.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("canonicalize %T: %w", v, err)
	}
	out, err := encode(generic)
	if err != nil {
		return nil, fmt.Errorf("canonicalize %T: %w", v, err)
	}
	return out, nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode is the inverse of Encode.
func Decode(data []byte, out any) error {
	if err := msgpack.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %T: %w", out, err)
	}
	return nil
}

// KeyOf hashes (stage, SchemaVersion, msgpack(input)).
func KeyOf(stage string, input any) (Key, error) {
	data, err := Encode(input)
	if err != nil {
		return Key{}, err
	}
	return KeyOfBytes(stage, data), nil
}

// KeyOfBytes hashes an already encoded input.
func KeyOfBytes(stage string, data []byte) Key {
	h := sha256.New()
	var hdr [2]byte
	binary.BigEndian.PutUint16(hdr[:], SchemaVersion)
	h.Write([]byte(stage))
	h.Write([]byte{0})
	h.Write(hdr[:])
	h.Write(data)
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}
