package info

import (
	"encoding/hex"
	"strconv"

	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns hex encoded content digest
func Hash(data []byte) string {
	sum := highwayhash.Sum(data, key)
	return hex.EncodeToString(sum[:])
}

// NodeID returns stable node identifier for a position within a file
func NodeID(file string, line, col, ordinal int) string {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return file + ":" + strconv.Itoa(line) + ":" + strconv.Itoa(col) + ":" + strconv.Itoa(ordinal)
	}
	buf := make([]byte, 0, len(file)+32)
	buf = append(buf, file...)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(line), 10)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(col), 10)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(ordinal), 10)
	_, _ = hash.Write(buf)
	return strconv.FormatUint(hash.Sum64(), 16)
}
