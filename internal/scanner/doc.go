// Package scanner finds other instances of the application on the local
// network.
//
// A scan probes a list of candidate addresses concurrently and streams every
// host that answers the discovery handshake. Candidates are either the
// addresses the caller already knows (hints) or every host of the local IPv4
// subnets. Only one scan runs at a time: starting a new one stops the
// previous scan.
package scanner
