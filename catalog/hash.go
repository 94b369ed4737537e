package catalog

import (
	"crypto/md5" //nolint:gosec // content-addressing, not a security boundary
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
)

// hashWriter streams an entity's content-relevant fields into a digest.
// Every string is written length-prefixed (4-byte big-endian length
// followed by the bytes) so that two adjacent fields can never alias
// (`"ab"+"c"` cannot collide with `"a"+"bc"`); every optional field is
// preceded by a 1-byte presence tag; booleans are a single byte; numbers
// use their natural big-endian width. This mirrors the streaming digest
// contract in the migration spec (§4.2) verbatim.
type hashWriter struct {
	h hash.Hash
}

// newHash256 returns a 256-bit (SHA-256) hash writer, used for entities
// whose re-introduction must match byte-for-byte across a large number of
// content-relevant fields (types, tables) where collision resistance
// matters most.
func newHash256() *hashWriter {
	return &hashWriter{h: sha256.New()}
}

// newHash128 returns a 128-bit (MD5) hash writer for simpler entities
// (schemas, extensions, sequences, views) where the content space is
// small and collision resistance requirements are correspondingly lower.
// MD5 is used here purely as a fast, stable, non-adversarial
// content-addressing digest — never as a security primitive.
func newHash128() *hashWriter {
	return &hashWriter{h: md5.New()} //nolint:gosec
}

func (w *hashWriter) str(s string) *hashWriter {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
	w.h.Write(lenBuf[:])
	w.h.Write([]byte(s))
	return w
}

func (w *hashWriter) optStr(s *string) *hashWriter {
	if s == nil {
		w.h.Write([]byte{0})
		return w
	}
	w.h.Write([]byte{1})
	return w.str(*s)
}

func (w *hashWriter) boolean(b bool) *hashWriter {
	if b {
		w.h.Write([]byte{1})
	} else {
		w.h.Write([]byte{0})
	}
	return w
}

func (w *hashWriter) u32(v uint32) *hashWriter {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	w.h.Write(buf[:])
	return w
}

func (w *hashWriter) i64(v int64) *hashWriter {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	w.h.Write(buf[:])
	return w
}

func (w *hashWriter) optI64(v *int64) *hashWriter {
	if v == nil {
		w.h.Write([]byte{0})
		return w
	}
	w.h.Write([]byte{1})
	return w.i64(*v)
}

func (w *hashWriter) optI32(v *int32) *hashWriter {
	if v == nil {
		w.h.Write([]byte{0})
		return w
	}
	w.h.Write([]byte{1})
	return w.u32(uint32(*v))
}

func (w *hashWriter) sum() string {
	return hex.EncodeToString(w.h.Sum(nil))
}
