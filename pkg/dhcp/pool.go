package dhcp

import (
	"encoding/binary"
	"sync"
	"time"
)

// DefaultLeaseTime is used for new allocations when the pool's defaults
// carry no LeaseTime option (spec.md §4.4).
const DefaultLeaseTime = 43200 * time.Second

// Lease binds an IPv4 address to a MAC with an absolute expiry.
type Lease struct {
	MAC     [6]byte
	Expires time.Time
}

// AddressPool is the server's only mutable shared state: an indexed lease
// table over an inclusive [start, end] sub-range of a subnet, plus a
// server-wide default OptionList attached to replies on request. All
// exported methods are safe for concurrent use; each acquires the pool's
// single exclusive lock for the duration of the composite operation it
// implements (spec.md §5).
type AddressPool struct {
	mu sync.Mutex

	subnet [4]byte
	mask   [4]byte

	// addrs holds every allocatable address, in ascending network order,
	// so iteration for find-lowest-free and lookup-by-mac is
	// deterministic (spec.md §3's "AddressPool... keyed in ascending
	// network order").
	addrs   [][4]byte
	leases  map[[4]byte]*Lease
	defaults *OptionList

	now func() time.Time
}

// New constructs a pool whose allocatable set is every address in
// [start, end] inclusive, with no leases. defaults is applied to replies
// on request (router, lease time, server identifier, ...).
func New(subnet, mask, start, end [4]byte, defaults *OptionList) *AddressPool {
	if defaults == nil {
		defaults = NewOptionList()
	}
	p := &AddressPool{
		subnet:   subnet,
		mask:     mask,
		leases:   make(map[[4]byte]*Lease),
		defaults: defaults,
		now:      time.Now,
	}
	p.addrs = ipRange(start, end)
	return p
}

// OptionsMut returns the pool's default option list for in-place
// mutation by server setup code.
func (p *AddressPool) OptionsMut() *OptionList {
	return p.defaults
}

// Options returns a read-only view of the pool's default options.
func (p *AddressPool) Options() *OptionList {
	return p.defaults
}

// Request returns an address for mac, per spec.md §4.4's resolution
// order: reuse an existing lease, else allocate the lowest free address,
// else evict the lease with the earliest expiry. Request never fails
// once the pool has at least one allocatable address.
func (p *AddressPool) Request(mac [6]byte) [4]byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ip, ok := p.findByMACLocked(mac); ok {
		return ip
	}

	leaseTime := p.leaseTimeLocked()
	now := p.now()

	for _, ip := range p.addrs {
		if _, leased := p.leases[ip]; !leased {
			p.leases[ip] = &Lease{MAC: mac, Expires: now.Add(leaseTime)}
			return ip
		}
	}

	return p.evictOldestLocked(mac, now.Add(leaseTime))
}

// VerifyRequest reports whether ip is currently leased to mac.
func (p *AddressPool) VerifyRequest(mac [6]byte, ip [4]byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	lease, ok := p.leases[ip]
	if !ok {
		return false
	}
	return lease.MAC == mac
}

// LookupByMAC returns the first (lowest) IP currently leased to mac.
func (p *AddressPool) LookupByMAC(mac [6]byte) ([4]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.findByMACLocked(mac)
}

func (p *AddressPool) findByMACLocked(mac [6]byte) ([4]byte, bool) {
	for _, ip := range p.addrs {
		if lease, ok := p.leases[ip]; ok && lease.MAC == mac {
			return ip, true
		}
	}
	return [4]byte{}, false
}

// evictOldestLocked replaces the lease with the earliest Expires with a
// fresh lease for mac, and returns its IP. Callers must hold p.mu.
func (p *AddressPool) evictOldestLocked(mac [6]byte, expires time.Time) [4]byte {
	var oldestIP [4]byte
	var oldest *Lease
	for _, ip := range p.addrs {
		lease := p.leases[ip]
		if lease == nil {
			continue
		}
		if oldest == nil || lease.Expires.Before(oldest.Expires) {
			oldest = lease
			oldestIP = ip
		}
	}
	if oldest == nil {
		// Pool has zero allocatable addresses; nothing to evict. The
		// caller constructed the pool with an empty range, which is a
		// configuration error, not a runtime one.
		return [4]byte{}
	}
	oldest.MAC = mac
	oldest.Expires = expires
	return oldestIP
}

func (p *AddressPool) leaseTimeLocked() time.Duration {
	if opt, ok := p.defaults.Get(OptLeaseTime); ok {
		return time.Duration(opt.Uint32()) * time.Second
	}
	return DefaultLeaseTime
}

// Len returns the number of allocatable addresses in the pool.
func (p *AddressPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.addrs)
}

// LeaseCount returns the number of addresses currently leased.
func (p *AddressPool) LeaseCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.leases)
}

// LeaseEntry is a read-only snapshot of one allocated lease, for display.
type LeaseEntry struct {
	IP      [4]byte
	MAC     [6]byte
	Expires time.Time
}

// Snapshot returns every current lease in ascending IP order.
func (p *AddressPool) Snapshot() []LeaseEntry {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]LeaseEntry, 0, len(p.leases))
	for _, ip := range p.addrs {
		if lease, ok := p.leases[ip]; ok {
			out = append(out, LeaseEntry{IP: ip, MAC: lease.MAC, Expires: lease.Expires})
		}
	}
	return out
}

func ipRange(start, end [4]byte) [][4]byte {
	s := binary.BigEndian.Uint32(start[:])
	e := binary.BigEndian.Uint32(end[:])
	if e < s {
		return nil
	}
	out := make([][4]byte, 0, e-s+1)
	for v := s; ; v++ {
		var ip [4]byte
		binary.BigEndian.PutUint32(ip[:], v)
		out = append(out, ip)
		if v == e {
			break
		}
	}
	return out
}
