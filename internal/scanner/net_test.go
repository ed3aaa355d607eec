package scanner

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubnetHosts(t *testing.T) {
	tests := []struct {
		cidr  string
		count int
		first string
		last  string
	}{
		{cidr: "192.168.1.0/24", count: 254, first: "192.168.1.1", last: "192.168.1.254"},
		{cidr: "10.0.0.0/30", count: 2, first: "10.0.0.1", last: "10.0.0.2"},
		{cidr: "10.0.0.0/31", count: 2, first: "10.0.0.0", last: "10.0.0.1"},
		{cidr: "10.0.0.7/32", count: 1, first: "10.0.0.7", last: "10.0.0.7"},
		// Larger networks are narrowed to /22.
		{cidr: "10.0.0.0/16", count: 1022, first: "10.0.0.1", last: "10.0.3.254"},
	}

	for _, tt := range tests {
		t.Run(tt.cidr, func(t *testing.T) {
			_, network, err := net.ParseCIDR(tt.cidr)
			require.NoError(t, err)

			hosts := subnetHosts(network)

			require.Len(t, hosts, tt.count)
			assert.Equal(t, tt.first, hosts[0].String())
			assert.Equal(t, tt.last, hosts[len(hosts)-1].String())
		})
	}
}

func TestSubnetHosts_IPv6Ignored(t *testing.T) {
	_, network, err := net.ParseCIDR("fe80::/64")
	require.NoError(t, err)

	assert.Empty(t, subnetHosts(network))
}

func TestIPv4Nets_FiltersAndClamps(t *testing.T) {
	addrs := []net.Addr{
		&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
		&net.IPNet{IP: net.ParseIP("::1"), Mask: net.CIDRMask(128, 128)},
		&net.IPNet{IP: net.ParseIP("169.254.10.1"), Mask: net.CIDRMask(16, 32)},
		&net.IPNet{IP: net.ParseIP("10.20.30.40"), Mask: net.CIDRMask(8, 32)},
		&net.IPAddr{IP: net.ParseIP("192.168.0.1")},
	}

	nets := ipv4Nets(addrs)

	require.Len(t, nets, 1)
	assert.Equal(t, "10.20.30.40", nets[0].ip.String())
	assert.Equal(t, "10.20.28.0/22", nets[0].network.String())
}
