// Package discovery advertises and finds multicast MIDI sessions with
// mDNS/DNS-SD.
//
// # Service Type (_netmidi._udp)
//
// A running node advertises one instance per session. The SRV port is the
// multicast port; the TXT record carries the group so a browser can join
// without further negotiation:
//
//	group=225.0.0.37
//	port=21928
//	name=<human-readable session name>   (optional)
//
// Nodes on different hosts that join the same group and port hear each
// other; discovery only tells them where to look.
package discovery
