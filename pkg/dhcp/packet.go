package dhcp

import (
	"encoding/binary"
	"log"
)

// Fixed BOOTP header field offsets, RFC 2131 §2.
const (
	offOp       = 0
	offHtype    = 1
	offHlen     = 2
	offHops     = 3
	offXID      = 4
	offSecs     = 8
	offFlags    = 10
	offCiaddr   = 12
	offYiaddr   = 16
	offSiaddr   = 20
	offGiaddr   = 24
	offChaddr   = 28
	offSname    = 44
	offFile     = 108
	offMagic    = 236
	offOptions  = 240
	minPacketLen = offOptions

	chaddrLen = 16
	snameLen  = 64
	fileLen   = 128
)

var magicCookie = [4]byte{0x63, 0x82, 0x53, 0x63}

const (
	// BootRequest is op=1, a client-to-server message.
	BootRequest byte = 1
	// BootReply is op=2, a server-to-client message.
	BootReply byte = 2
)

// Packet is a parsed BOOTP/DHCP datagram.
type Packet struct {
	Op     byte
	Htype  byte
	Hlen   byte
	Hops   byte
	XID    uint32
	Secs   uint16
	Flags  uint16
	Ciaddr [4]byte
	Yiaddr [4]byte
	Siaddr [4]byte
	Giaddr [4]byte
	Chaddr [6]byte
	Sname  string
	File   string

	// MessageType is the mandatory DHCP message type, lifted out of the
	// option stream during parse (spec.md §3's "derived message_type").
	MessageType byte

	// Options holds every option other than MessageType.
	Options *OptionList
}

// Parse decodes data into a Packet per spec.md §4.3. It fails closed: any
// malformed input returns a non-nil *Error and the caller must drop the
// datagram without replying.
func Parse(data []byte) (Packet, error) {
	if len(data) < minPacketLen {
		return Packet{}, newErr(KindPayloadTooShort, len(data))
	}
	if data[offOp] != BootRequest {
		return Packet{}, newErr(KindNotADhcpRequest, int(data[offOp]))
	}
	if !hasMagic(data) {
		return Packet{}, newErr(KindDhcpMagicMissing, 0)
	}

	p := Packet{
		Op:    data[offOp],
		Htype: data[offHtype],
		Hlen:  data[offHlen],
		Hops:  data[offHops],
		XID:   binary.BigEndian.Uint32(data[offXID : offXID+4]),
		Secs:  binary.BigEndian.Uint16(data[offSecs : offSecs+2]),
		Flags: binary.BigEndian.Uint16(data[offFlags : offFlags+2]),
	}
	copy(p.Ciaddr[:], data[offCiaddr:offCiaddr+4])
	copy(p.Yiaddr[:], data[offYiaddr:offYiaddr+4])
	copy(p.Siaddr[:], data[offSiaddr:offSiaddr+4])
	copy(p.Giaddr[:], data[offGiaddr:offGiaddr+4])
	copy(p.Chaddr[:], data[offChaddr:offChaddr+6])
	p.Sname = trimZero(data[offSname : offSname+snameLen])
	p.File = trimZero(data[offFile : offFile+fileLen])

	p.MessageType = msgUnset
	p.Options = NewOptionList()

	cursor := offOptions
	for cursor < len(data) {
		opt, consumed, known, err := decodeOption(data, cursor)
		if err != nil {
			return Packet{}, err
		}
		cursor += consumed

		switch opt.Code {
		case OptPad:
			continue
		case OptEnd:
			cursor = len(data)
		case OptMessageType:
			v := opt.Byte()
			if v < MsgDiscover || v > MsgInform {
				return Packet{}, newErr(KindInvalidDhcpOptionMessageType, int(v))
			}
			p.MessageType = v
		default:
			if known {
				p.Options.Add(opt)
			} else {
				// Unknown opcodes are consumed, warned about and
				// discarded; they never fail the parse.
				log.Printf("dhcp: warning: skipping unknown option %d (%d bytes)", opt.Code, len(opt.Data))
			}
		}
		if opt.Code == OptEnd {
			break
		}
	}

	if p.MessageType == msgUnset {
		return Packet{}, newErr(KindNoMessageDhcpTypeProvided, 0)
	}
	return p, nil
}

// Serialize writes p's wire form into out (which the caller must have
// zeroed) and returns the number of bytes written. It implements
// spec.md §4.3's encode contract.
func Serialize(p Packet, out []byte) (int, error) {
	if len(out) < offOptions {
		return 0, newErr(KindDhcpOptionLenOutOfBounds, len(out))
	}

	out[offOp] = p.Op
	out[offHtype] = p.Htype
	out[offHlen] = p.Hlen
	out[offHops] = p.Hops
	binary.BigEndian.PutUint32(out[offXID:offXID+4], p.XID)
	binary.BigEndian.PutUint16(out[offSecs:offSecs+2], p.Secs)
	binary.BigEndian.PutUint16(out[offFlags:offFlags+2], p.Flags)
	copy(out[offCiaddr:offCiaddr+4], p.Ciaddr[:])
	copy(out[offYiaddr:offYiaddr+4], p.Yiaddr[:])
	copy(out[offSiaddr:offSiaddr+4], p.Siaddr[:])
	copy(out[offGiaddr:offGiaddr+4], p.Giaddr[:])
	copy(out[offChaddr:offChaddr+6], p.Chaddr[:])
	copy(out[offSname:offSname+snameLen], []byte(p.Sname))
	copy(out[offFile:offFile+fileLen], []byte(p.File))
	copy(out[offMagic:offMagic+4], magicCookie[:])

	toEncode := NewOptionList()
	if p.Options != nil {
		toEncode = p.Options.Clone()
	}
	if p.MessageType != msgUnset {
		toEncode.Add(NewByteOption(OptMessageType, p.MessageType))
	}

	cursor := offOptions
	var encodeErr error
	toEncode.Each(func(o Option) {
		if encodeErr != nil || o.Code == OptEnd {
			return
		}
		n, err := EncodeOption(o, out[cursor:])
		if err != nil {
			encodeErr = err
			return
		}
		cursor += n
	})
	if encodeErr != nil {
		return 0, encodeErr
	}

	n, err := EncodeOption(Option{Code: OptEnd}, out[cursor:])
	if err != nil {
		return 0, err
	}
	cursor += n

	return cursor, nil
}

func hasMagic(data []byte) bool {
	return data[offMagic] == magicCookie[0] &&
		data[offMagic+1] == magicCookie[1] &&
		data[offMagic+2] == magicCookie[2] &&
		data[offMagic+3] == magicCookie[3]
}

func trimZero(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
