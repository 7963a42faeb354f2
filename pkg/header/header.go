// Package header defines the fixed-layout header exchanged by both ends of
// the simulated handshake, and its wire encoding.
package header

import (
	"encoding/binary"
	"fmt"
)

// Size is the length in bytes of an encoded Header.
const Size = 20

// 0                   1                   2                   3
// 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |          Source Port          |       Destination Port        |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                        Sequence Number                        |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |                    Acknowledgment Number                      |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |    Offset     |     Flags     |            Window             |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
// |           Checksum            |            Urgent             |
// +-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
//
// Every multi-byte field is big-endian on the wire.

type Header struct {
	SrcPort uint16
	DstPort uint16
	SeqNum  uint32
	AckNum  uint32
	// Offset is carried opaquely: data offset in the high nibble,
	// reserved bits in the low one.
	Offset   uint8
	Flags    Flags
	Window   uint16
	Checksum uint16 // never computed
	Urgent   uint16
}

func New(seqNum uint32, srcPort, dstPort uint16) Header {
	return Header{
		SrcPort: srcPort,
		DstPort: dstPort,
		SeqNum:  seqNum,
	}
}

// Snapshot returns a copy of h by value. Later changes to h are not
// visible through the copy.
func (h *Header) Snapshot() Header {
	return *h
}

func (h *Header) Marshal() []byte {
	return h.AppendBinary(make([]byte, 0, Size))
}

func (h *Header) AppendBinary(b []byte) []byte {
	b = binary.BigEndian.AppendUint16(b, h.SrcPort)
	b = binary.BigEndian.AppendUint16(b, h.DstPort)
	b = binary.BigEndian.AppendUint32(b, h.SeqNum)
	b = binary.BigEndian.AppendUint32(b, h.AckNum)
	b = append(b, h.Offset, uint8(h.Flags))
	b = binary.BigEndian.AppendUint16(b, h.Window)
	b = binary.BigEndian.AppendUint16(b, h.Checksum)
	b = binary.BigEndian.AppendUint16(b, h.Urgent)
	return b
}

// Unmarshal decodes exactly one header from pkt. There is no integrity
// check: any Size-byte input decodes to some header.
func Unmarshal(pkt []byte) (Header, error) {
	if len(pkt) != Size {
		return Header{}, fmt.Errorf("invalid header length: %d, want %d", len(pkt), Size)
	}

	return Header{
		SrcPort:  binary.BigEndian.Uint16(pkt[0:2]),
		DstPort:  binary.BigEndian.Uint16(pkt[2:4]),
		SeqNum:   binary.BigEndian.Uint32(pkt[4:8]),
		AckNum:   binary.BigEndian.Uint32(pkt[8:12]),
		Offset:   pkt[12],
		Flags:    Flags(pkt[13]),
		Window:   binary.BigEndian.Uint16(pkt[14:16]),
		Checksum: binary.BigEndian.Uint16(pkt[16:18]),
		Urgent:   binary.BigEndian.Uint16(pkt[18:20]),
	}, nil
}

func (h Header) String() string {
	return fmt.Sprintf("HDR[%d->%d seq=%d ack=%d flags=%s win=%d]",
		h.SrcPort, h.DstPort, h.SeqNum, h.AckNum, h.Flags, h.Window)
}
