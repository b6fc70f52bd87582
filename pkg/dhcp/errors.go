// Package dhcp implements a strict BOOTP/DHCPv4 wire codec, an address
// pool, and the DHCP server state machine (Discover/Offer/Request/Ack/Nack).
package dhcp

import "fmt"

// Kind is a closed taxonomy of parse/validation failures. Every error the
// codec returns carries exactly one Kind so callers can branch on failure
// class without string matching.
type Kind int

const (
	// KindPayloadTooShort means the datagram is shorter than the 240-byte
	// fixed header + magic cookie.
	KindPayloadTooShort Kind = iota
	// KindNotADhcpRequest means op != 1 (BOOTREQUEST).
	KindNotADhcpRequest
	// KindDhcpMagicMissing means bytes 236..240 are not 63 82 53 63.
	KindDhcpMagicMissing
	// KindDhcpOptionLenOutOfBounds means an option's length byte or
	// payload runs past the end of the datagram.
	KindDhcpOptionLenOutOfBounds
	// KindMessageTypeBadLen means a MessageType option's length != 1.
	KindMessageTypeBadLen
	// KindMaxMessageSizeBadLen means a MaxMessageSize option's length != 2.
	KindMaxMessageSizeBadLen
	// KindInvalidIPAddrLen means an IPv4-bearing option's length != 4.
	KindInvalidIPAddrLen
	// KindInvalidParameterRequestLen means ParameterRequestList length is
	// outside [1, 40].
	KindInvalidParameterRequestLen
	// KindInvalidVendorClassIdentifierLen means VendorClassIdentifier
	// length exceeds 32.
	KindInvalidVendorClassIdentifierLen
	// KindInvalidClientSystemArchLen means ClientSystemArch length != 2.
	KindInvalidClientSystemArchLen
	// KindInvalidClientNetworkDeviceInterfaceLen means
	// ClientNetworkDeviceInterface length != 3.
	KindInvalidClientNetworkDeviceInterfaceLen
	// KindInvalidClientUIDLen means ClientUUID length is outside [2, 17].
	KindInvalidClientUIDLen
	// KindUnsupportedClientIDHwType means a ClientIdentifier's hardware
	// type byte isn't Ethernet (1).
	KindUnsupportedClientIDHwType
	// KindInvalidDhcpOptionMessageType means the MessageType payload byte
	// is outside 1..8.
	KindInvalidDhcpOptionMessageType
	// KindNoMessageDhcpTypeProvided means no MessageType option was found
	// anywhere in the option stream.
	KindNoMessageDhcpTypeProvided
	// KindUnsupportedSerialization is returned by the encoder, never the
	// decoder, when asked to serialize an option it has no wire form for.
	KindUnsupportedSerialization
)

var kindNames = map[Kind]string{
	KindPayloadTooShort:                         "PayloadTooShort",
	KindNotADhcpRequest:                         "NotADhcpRequest",
	KindDhcpMagicMissing:                        "DhcpMagicMissing",
	KindDhcpOptionLenOutOfBounds:                "DhcpOptionLenOutOfBounds",
	KindMessageTypeBadLen:                       "MessageTypeBadLen",
	KindMaxMessageSizeBadLen:                    "MaxMessageSizeBadLen",
	KindInvalidIPAddrLen:                        "InvalidIpAddrLen",
	KindInvalidParameterRequestLen:               "InvalidParameterRequestLen",
	KindInvalidVendorClassIdentifierLen:          "InvalidVendorClassIdentifierLen",
	KindInvalidClientSystemArchLen:               "InvalidClientSystemArchLen",
	KindInvalidClientNetworkDeviceInterfaceLen:   "InvalidClientNetworkDeviceInterfaceLen",
	KindInvalidClientUIDLen:                      "InvalidClientUidLen",
	KindUnsupportedClientIDHwType:                "UnsupportedClientIdHwType",
	KindInvalidDhcpOptionMessageType:             "InvalidDhcpOptionMessageType",
	KindNoMessageDhcpTypeProvided:                "NoMessageDhcpTypeProvided",
	KindUnsupportedSerialization:                 "UnsupportedSerialization",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UnknownKind"
}

// Error is the single error type returned by this package's codec; the
// pool's methods return no errors. Arg carries the offending value (a length, an opcode, an op byte)
// when the Kind has one; it is zero otherwise.
type Error struct {
	Kind Kind
	Arg  int
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindPayloadTooShort:
		return fmt.Sprintf("dhcp: payload too short: %d bytes", e.Arg)
	case KindNotADhcpRequest:
		return fmt.Sprintf("dhcp: not a dhcp request: op=%d", e.Arg)
	case KindMessageTypeBadLen, KindMaxMessageSizeBadLen, KindInvalidIPAddrLen,
		KindInvalidParameterRequestLen, KindInvalidVendorClassIdentifierLen,
		KindInvalidClientSystemArchLen, KindInvalidClientNetworkDeviceInterfaceLen,
		KindInvalidClientUIDLen:
		return fmt.Sprintf("dhcp: %s: %d", e.Kind, e.Arg)
	case KindUnsupportedClientIDHwType:
		return fmt.Sprintf("dhcp: unsupported client-id hardware type: %d", e.Arg)
	case KindInvalidDhcpOptionMessageType:
		return fmt.Sprintf("dhcp: invalid message type value: %d", e.Arg)
	default:
		return "dhcp: " + e.Kind.String()
	}
}

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, &dhcp.Error{Kind: dhcp.KindPayloadTooShort}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newErr(kind Kind, arg int) *Error {
	return &Error{Kind: kind, Arg: arg}
}
