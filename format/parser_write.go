package format

import (
	"encoding/binary"
)

func AppendUint24(b []byte, v uint32) []byte {
	if v > 0xFFFFFF {
		panic("AppendUint24 value out of range")
	}
	return append(b, byte(v>>16), byte(v>>8), byte(v))
}

func AppendUint48(b []byte, v uint64) []byte {
	if v > 0xFFFFFFFFFFFF {
		panic("AppendUint48 value out of range")
	}
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(b, tmp[2:]...)
}

func MarkByteOffset(body []byte) ([]byte, int) {
	body = append(body, 0)
	return body, len(body)
}

func FillByteOffset(body []byte, mark int) {
	if len(body)-mark > 0xFF {
		panic("FillByteOffset value out of range")
	}
	body[mark-1] = byte(len(body) - mark)
}

func MarkUint16Offset(body []byte) ([]byte, int) {
	body = append(body, 0, 0)
	return body, len(body)
}

func FillUint16Offset(body []byte, mark int) {
	if len(body)-mark > 0xFFFF {
		panic("FillUint16Offset value out of range")
	}
	binary.BigEndian.PutUint16(body[mark-2:], uint16(len(body)-mark))
}
