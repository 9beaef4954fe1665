package hostinfo

import (
	"net"
)

// Loopback is returned when no other IPv4 address is configured.
const Loopback = "127.0.0.1"

// IPAddress returns the first non-loopback IPv4 address of an interface that is
// up and running, falling back to Loopback. It never fails.
func IPAddress() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return Loopback
	}
	var addrs []net.Addr
	for _, iface := range ifaces {
		if !usable(iface.Flags) {
			continue
		}
		a, err := iface.Addrs()
		if err != nil {
			continue
		}
		addrs = append(addrs, a...)
	}
	return pickIPv4(addrs)
}

// usable reports whether an interface is up, running and not loopback.
func usable(flags net.Flags) bool {
	return flags&net.FlagUp != 0 && flags&net.FlagRunning != 0 && flags&net.FlagLoopback == 0
}

func pickIPv4(addrs []net.Addr) string {
	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip == nil || ip.IsLoopback() {
			continue
		}
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return Loopback
}
