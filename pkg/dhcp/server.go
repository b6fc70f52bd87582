package dhcp

// Handle runs the stateless server decision logic against packet,
// consulting (and possibly mutating) pool, and writes the response into
// out. It returns the number of bytes written; a return of 0 means no
// reply should be sent (an unhandled message type, per spec.md §4.5's
// "known gap" for Decline/Release/Inform).
//
// warn is called for each parameter the client requested that the pool
// has no default for; it may be nil.
func Handle(packet Packet, pool *AddressPool, out []byte, warn func(opcode byte)) (int, error) {
	switch packet.MessageType {
	case MsgDiscover:
		return handleDiscover(packet, pool, out, warn)
	case MsgRequest:
		return handleRequest(packet, pool, out, warn)
	default:
		// Decline, Release, Inform, Offer, Ack, Nack received by a
		// server are either replies (Offer/Ack/Nack, which a server
		// never receives from a well-behaved client) or explicitly
		// unimplemented (spec.md §4.5). No reply.
		return 0, nil
	}
}

func handleDiscover(req Packet, pool *AddressPool, out []byte, warn func(byte)) (int, error) {
	resp := replyTemplate(req)
	resp.Yiaddr = pool.Request(req.Chaddr)
	resp.Options = satisfyParameterList(req, pool, warn)
	appendServerDefaults(resp.Options, pool)
	resp.MessageType = MsgOffer
	return Serialize(resp, out)
}

func handleRequest(req Packet, pool *AddressPool, out []byte, warn func(byte)) (int, error) {
	requested, hasRequested := req.Options.Get(OptRequestedIPAddr)
	ciaddrZero := req.Ciaddr == [4]byte{}

	switch {
	case !ciaddrZero && !hasRequested:
		// RENEWING / REBINDING: client already owns ciaddr.
		return ack(req, pool, req.Ciaddr, out, warn)

	case hasRequested:
		// SELECTING / INIT-REBOOT: verify the requested lease.
		ip := requested.IP()
		if pool.VerifyRequest(req.Chaddr, ip) {
			return ack(req, pool, ip, out, warn)
		}
		return nack(req, out)

	default:
		return nack(req, out)
	}
}

func ack(req Packet, pool *AddressPool, yiaddr [4]byte, out []byte, warn func(byte)) (int, error) {
	resp := replyTemplate(req)
	resp.Yiaddr = yiaddr
	resp.Options = satisfyParameterList(req, pool, warn)
	appendServerDefaults(resp.Options, pool)
	resp.MessageType = MsgAck
	return Serialize(resp, out)
}

func nack(req Packet, out []byte) (int, error) {
	resp := replyTemplate(req)
	resp.Options = NewOptionList()
	resp.MessageType = MsgNack
	return Serialize(resp, out)
}

// replyTemplate builds the header common to every reply: op=2, htype=1,
// hlen=6, and the request's xid/chaddr echoed back (spec.md §4.5 step 1).
func replyTemplate(req Packet) Packet {
	return Packet{
		Op:     BootReply,
		Htype:  1,
		Hlen:   6,
		XID:    req.XID,
		Chaddr: req.Chaddr,
	}
}

// satisfyParameterList appends, for each opcode in the client's
// ParameterRequestList, the pool's default option for that opcode if one
// exists; otherwise it calls warn and skips it (spec.md §4.5 step 3).
func satisfyParameterList(req Packet, pool *AddressPool, warn func(byte)) *OptionList {
	resp := NewOptionList()
	prl, ok := req.Options.Get(OptParameterRequestList)
	if !ok {
		return resp
	}
	for _, opcode := range prl.Data {
		if opt, ok := pool.Options().Get(opcode); ok {
			resp.Add(opt)
		} else if warn != nil {
			warn(opcode)
		}
	}
	return resp
}

// appendServerDefaults adds ServerIdentifier and LeaseTime to resp if the
// pool has defaults for them (spec.md §4.5 step 4). ServerIdentifier
// always uses opcode 54 — the original implementation's bug of reusing
// the Router slot is not reproduced here (see DESIGN.md).
func appendServerDefaults(resp *OptionList, pool *AddressPool) {
	if opt, ok := pool.Options().Get(OptServerIdentifier); ok {
		resp.Add(opt)
	}
	if opt, ok := pool.Options().Get(OptLeaseTime); ok {
		resp.Add(opt)
	}
}
