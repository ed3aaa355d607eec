package scanner

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
)

// maxPrefixBits bounds the size of an automatically scanned subnet: larger
// networks are narrowed to the /22 around our own address.
const maxPrefixBits = 22

// ErrNoLocalAddress is returned when no non-loopback IPv4 address exists.
var ErrNoLocalAddress = errors.New("no local IPv4 address")

// localNet is one IPv4 interface address with its network.
type localNet struct {
	ip      net.IP
	network *net.IPNet
}

func ipv4Nets(addrs []net.Addr) []localNet {
	nets := make([]localNet, 0, len(addrs))
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok {
			continue
		}
		ip := ipNet.IP.To4()
		if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
			continue
		}

		ones, _ := ipNet.Mask.Size()
		if ones < maxPrefixBits {
			ones = maxPrefixBits
		}
		mask := net.CIDRMask(ones, 32)
		nets = append(nets, localNet{
			ip:      ip,
			network: &net.IPNet{IP: ip.Mask(mask), Mask: mask},
		})
	}
	return nets
}

// LocalIPv4 returns the first non-loopback IPv4 address of this host.
func LocalIPv4() (net.IP, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil, fmt.Errorf("list interface addresses: %w", err)
	}

	nets := ipv4Nets(addrs)
	if len(nets) == 0 {
		return nil, ErrNoLocalAddress
	}
	return nets[0].ip, nil
}

// subnetHosts lists the host addresses of an IPv4 network, without the
// network and broadcast addresses for networks larger than /31.
func subnetHosts(network *net.IPNet) []net.IP {
	base := network.IP.To4()
	if base == nil {
		return nil
	}

	ones, bits := network.Mask.Size()
	if bits != 32 {
		return nil
	}
	if ones < maxPrefixBits {
		ones = maxPrefixBits
		base = base.Mask(net.CIDRMask(ones, 32))
	}

	size := uint32(1) << uint32(32-ones)
	start := binary.BigEndian.Uint32(base)
	first, last := uint32(0), size-1
	if size > 2 {
		first, last = 1, size-2
	}

	hosts := make([]net.IP, 0, last-first+1)
	for i := first; i <= last; i++ {
		ip := make(net.IP, 4)
		binary.BigEndian.PutUint32(ip, start+i)
		hosts = append(hosts, ip)
	}
	return hosts
}
