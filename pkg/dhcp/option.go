package dhcp

import "encoding/binary"

// Opcodes recognized by this implementation. Values match RFC 2132.
const (
	OptPad                          byte = 0
	OptSubnetMask                   byte = 1
	OptRouter                       byte = 3
	OptDNS                          byte = 6
	OptHostName                     byte = 12
	OptDomainName                   byte = 15
	OptBroadcast                    byte = 28
	OptRequestedIPAddr              byte = 50
	OptLeaseTime                    byte = 51
	OptMessageType                  byte = 53
	OptServerIdentifier             byte = 54
	OptParameterRequestList         byte = 55
	OptMaxMessageSize               byte = 57
	OptVendorClassIdentifier        byte = 60
	OptClientIdentifier             byte = 61
	OptTFTPServerName               byte = 66
	OptBootFileName                 byte = 67
	OptClientSystemArch             byte = 93
	OptClientNetworkDeviceInterface byte = 94
	OptClientUUID                   byte = 97
	OptEnd                          byte = 255
)

// Length constraints from spec §3 / original_source/types/dhcp_option.rs.
const (
	lenMessageType                  = 1
	lenMaxMessageSize               = 2
	lenIPAddr                       = 4
	lenClientIdentifier             = 7
	minLenClientUUID                = 2
	maxLenClientUUID                = 17
	lenClientSystemArch             = 2
	lenClientNetworkDeviceInterface = 3
	maxLenVendorClassIdentifier     = 32
	minLenParameterRequestList      = 1
	maxLenParameterRequestList      = 40
)

// MessageType values, RFC 2132 §9.6.
const (
	MsgDiscover byte = 1
	MsgOffer    byte = 2
	MsgRequest  byte = 3
	MsgDecline  byte = 4
	MsgAck      byte = 5
	MsgNack     byte = 6
	MsgRelease  byte = 7
	MsgInform   byte = 8
	msgUnset    byte = 255
)

// Option is a tagged opcode/payload pair. Data is the raw wire payload;
// the typed accessors below interpret it according to the option's known
// shape. Pad and End carry no payload.
type Option struct {
	Code byte
	Data []byte
}

// NewIPOption builds a 4-byte IPv4-address-bearing option (SubnetMask,
// Router, Broadcast, DNS, ServerIdentifier, RequestedIpAddr).
func NewIPOption(code byte, ip [4]byte) Option {
	return Option{Code: code, Data: append([]byte(nil), ip[:]...)}
}

// NewByteOption builds a single-byte-payload option (MessageType).
func NewByteOption(code, v byte) Option {
	return Option{Code: code, Data: []byte{v}}
}

// NewUint32Option builds a 4-byte big-endian-payload option (LeaseTime).
func NewUint32Option(code byte, v uint32) Option {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return Option{Code: code, Data: buf}
}

// NewUint16Option builds a 2-byte big-endian-payload option
// (MaxMessageSize, BootFileSize).
func NewUint16Option(code byte, v uint16) Option {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return Option{Code: code, Data: buf}
}

// NewStringOption builds a variable-length string-payload option
// (HostName, DomainName, TftpServerName, BootFileName).
func NewStringOption(code byte, s string) Option {
	return Option{Code: code, Data: []byte(s)}
}

// IP returns the option's payload as an IPv4 address. Callers must only
// call this on options known to carry one.
func (o Option) IP() [4]byte {
	var ip [4]byte
	copy(ip[:], o.Data)
	return ip
}

// Byte returns the option's single payload byte.
func (o Option) Byte() byte {
	if len(o.Data) == 0 {
		return 0
	}
	return o.Data[0]
}

// Uint32 returns the option's 4-byte big-endian payload.
func (o Option) Uint32() uint32 {
	if len(o.Data) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(o.Data)
}

// String returns the option's payload decoded as a string.
func (o Option) String() string {
	return string(o.Data)
}

// ClientIdentifier is the decoded form of opcode 61: a hardware type plus
// a 6-byte MAC. Only HwType == ethernetHwType is accepted by Decode.
type ClientIdentifier struct {
	HwType byte
	MAC    [6]byte
}

const ethernetHwType = 1

// decodeOption reads one TLV starting at data[cursor]. It returns the
// decoded option, the number of bytes consumed, and whether the opcode
// was recognized by this implementation (an unrecognized opcode is still
// consumed and must not be treated as fatal — see spec.md §4.1).
func decodeOption(data []byte, cursor int) (opt Option, consumed int, known bool, err error) {
	if cursor >= len(data) {
		return Option{}, 0, false, newErr(KindDhcpOptionLenOutOfBounds, 0)
	}
	code := data[cursor]
	if code == OptPad || code == OptEnd {
		return Option{Code: code}, 1, true, nil
	}

	if cursor+1 >= len(data) {
		return Option{}, 0, false, newErr(KindDhcpOptionLenOutOfBounds, 0)
	}
	length := int(data[cursor+1])

	if err := validateLen(code, length); err != nil {
		return Option{}, 0, false, err
	}

	payloadStart := cursor + 2
	payloadEnd := payloadStart + length
	if payloadEnd > len(data) {
		return Option{}, 0, false, newErr(KindDhcpOptionLenOutOfBounds, 0)
	}

	payload := append([]byte(nil), data[payloadStart:payloadEnd]...)
	known = isKnownOpcode(code)
	return Option{Code: code, Data: payload}, 2 + length, known, nil
}

func isKnownOpcode(code byte) bool {
	switch code {
	case OptSubnetMask, OptRouter, OptDNS, OptHostName, OptDomainName, OptBroadcast,
		OptRequestedIPAddr, OptLeaseTime, OptMessageType, OptServerIdentifier,
		OptParameterRequestList, OptMaxMessageSize, OptVendorClassIdentifier,
		OptClientIdentifier, OptTFTPServerName, OptBootFileName, OptClientSystemArch,
		OptClientNetworkDeviceInterface, OptClientUUID:
		return true
	default:
		return false
	}
}

// validateLen enforces the per-option length constraints from spec.md §3.
func validateLen(code byte, length int) error {
	switch code {
	case OptMessageType:
		if length != lenMessageType {
			return newErr(KindMessageTypeBadLen, length)
		}
	case OptMaxMessageSize:
		if length != lenMaxMessageSize {
			return newErr(KindMaxMessageSizeBadLen, length)
		}
	case OptSubnetMask, OptRouter, OptDNS, OptBroadcast, OptRequestedIPAddr, OptServerIdentifier:
		if length != lenIPAddr {
			return newErr(KindInvalidIPAddrLen, length)
		}
	case OptParameterRequestList:
		if length < minLenParameterRequestList || length > maxLenParameterRequestList {
			return newErr(KindInvalidParameterRequestLen, length)
		}
	case OptVendorClassIdentifier:
		if length > maxLenVendorClassIdentifier {
			return newErr(KindInvalidVendorClassIdentifierLen, length)
		}
	case OptClientSystemArch:
		if length != lenClientSystemArch {
			return newErr(KindInvalidClientSystemArchLen, length)
		}
	case OptClientNetworkDeviceInterface:
		if length != lenClientNetworkDeviceInterface {
			return newErr(KindInvalidClientNetworkDeviceInterfaceLen, length)
		}
	case OptClientUUID:
		if length < minLenClientUUID || length > maxLenClientUUID {
			return newErr(KindInvalidClientUIDLen, length)
		}
	}
	return nil
}

// DecodeClientIdentifier interprets an Option with Code == OptClientIdentifier.
// It fails with UnsupportedClientIdHwType if the hardware type isn't Ethernet.
func DecodeClientIdentifier(o Option) (ClientIdentifier, error) {
	if len(o.Data) != lenClientIdentifier {
		return ClientIdentifier{}, newErr(KindDhcpOptionLenOutOfBounds, len(o.Data))
	}
	hwType := o.Data[0]
	if hwType != ethernetHwType {
		return ClientIdentifier{}, newErr(KindUnsupportedClientIDHwType, int(hwType))
	}
	var id ClientIdentifier
	id.HwType = hwType
	copy(id.MAC[:], o.Data[1:])
	return id, nil
}

// EncodeOption writes o's wire form into out, returning the number of
// bytes written. It implements spec.md §4.1's encode contract and fails
// with KindUnsupportedSerialization for any opcode this encoder does not
// know how to emit.
func EncodeOption(o Option, out []byte) (int, error) {
	switch o.Code {
	case OptPad, OptEnd:
		if len(out) < 1 {
			return 0, newErr(KindDhcpOptionLenOutOfBounds, 0)
		}
		out[0] = o.Code
		return 1, nil
	case OptSubnetMask, OptRouter, OptBroadcast, OptDNS, OptServerIdentifier, OptRequestedIPAddr:
		return encodeTLV(o.Code, o.Data, out)
	case OptHostName, OptDomainName, OptTFTPServerName, OptBootFileName, OptVendorClassIdentifier:
		return encodeTLV(o.Code, o.Data, out)
	case OptMessageType:
		return encodeTLV(o.Code, o.Data, out)
	case OptLeaseTime:
		return encodeTLV(o.Code, o.Data, out)
	case OptMaxMessageSize:
		return encodeTLV(o.Code, o.Data, out)
	default:
		return 0, newErr(KindUnsupportedSerialization, int(o.Code))
	}
}

func encodeTLV(code byte, data []byte, out []byte) (int, error) {
	n := 2 + len(data)
	if len(out) < n {
		return 0, newErr(KindDhcpOptionLenOutOfBounds, 0)
	}
	out[0] = code
	out[1] = byte(len(data))
	copy(out[2:], data)
	return n, nil
}
