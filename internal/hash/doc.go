// Package hash provides the CRC32-Castagnoli checksum used to verify copies.
//
// One-shot:
//
//	sum := hash.CRC32C(data)
//
// Streaming, one batch at a time:
//
//	h := hash.NewCRC32C()
//	h.Write(batch1)
//	h.Write(batch2)
//	sum := h.Sum32()
package hash
