// CLAUDE:SUMMARY Embedding wire codec (little-endian float32 blobs) plus dot/cosine/norm helpers for the linear scan.
// Package vec is the storage codec for embedding vectors: little-endian
// IEEE-754 float32, 4 bytes per value, no header or length prefix. The
// dimension of a stored vector is len(blob)/4.
package vec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ErrBadLength is returned by Decode when the blob length is not a
// multiple of 4 and therefore cannot hold whole float32 values.
var ErrBadLength = fmt.Errorf("vec: blob length not a multiple of 4")

// Encode converts a float32 slice to its byte representation.
func Encode(values []float32) []byte {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// Decode converts bytes back to a float32 slice. The round trip through
// Encode is exact for every float32 bit pattern, including NaN and Inf.
func Decode(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBadLength, len(blob))
	}
	values := make([]float32, len(blob)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return values, nil
}

// Dot computes the dot product of two vectors. Mismatched lengths score 0.
// For unit-normalized vectors this equals cosine similarity.
func Dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// CosineSimilarity computes cosine similarity between two vectors.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Norm computes the L2 norm of a vector.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// Normalize scales v to unit length in place and returns it.
// A zero vector is returned unchanged.
func Normalize(v []float32) []float32 {
	n := Norm(v)
	if n == 0 {
		return v
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / n)
	}
	return v
}
