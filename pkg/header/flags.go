package header

import "strings"

// Flag is the bit index of a control flag inside Flags.
type Flag uint8

const (
	FIN Flag = iota
	SYN
	RST
	PSH
	ACK
	URG
	ECE
	CWR
)

var flagNames = [8]string{"FIN", "SYN", "RST", "PSH", "ACK", "URG", "ECE", "CWR"}

func (f Flag) String() string {
	if int(f) < len(flagNames) {
		return flagNames[f]
	}
	return "?"
}

func (f Flag) bit() Flags {
	return 1 << f
}

// Flags is the 8-bit flag field of a Header.
type Flags uint8

// The only flag combinations the handshake accepts.
var (
	SynOnly = ComposeFlagMask(SYN)
	SynAck  = ComposeFlagMask(SYN, ACK)
	AckOnly = ComposeFlagMask(ACK)
)

// ComposeFlagMask toggles the bit of each listed flag, starting from zero.
// Listing a flag twice cancels it out.
func ComposeFlagMask(flags ...Flag) Flags {
	var mask Flags
	for _, f := range flags {
		mask.Toggle(f)
	}
	return mask
}

// Toggle flips f. Applying it twice restores the original value.
func (fl *Flags) Toggle(f Flag) {
	*fl ^= f.bit()
}

func (fl *Flags) Set(f Flag) {
	*fl |= f.bit()
}

func (fl *Flags) Clear(f Flag) {
	*fl &^= f.bit()
}

func (fl Flags) Has(f Flag) bool {
	return fl&f.bit() != 0
}

// String lists the set flags, e.g. "[SYN,ACK]".
func (fl Flags) String() string {
	var b strings.Builder
	b.WriteByte('[')
	first := true
	for f := FIN; f <= CWR; f++ {
		if !fl.Has(f) {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		b.WriteString(f.String())
		first = false
	}
	b.WriteByte(']')
	return b.String()
}
