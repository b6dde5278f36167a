package provision

import (
	"strconv"
	"strings"

	"github.com/mash-protocol/unbox-go/pkg/device"
)

// ValidateIPv4 checks that value is a dotted quad: four period-separated
// groups of decimal digits, each in [0,255]. Leading zeros are accepted.
func ValidateIPv4(field, value string) error {
	groups := strings.Split(value, ".")
	if len(groups) != 4 {
		return &ValidationError{Field: field, Value: value, Reason: "expected four dot-separated octets"}
	}
	for _, g := range groups {
		if g == "" {
			return &ValidationError{Field: field, Value: value, Reason: "empty octet"}
		}
		for _, r := range g {
			if r < '0' || r > '9' {
				return &ValidationError{Field: field, Value: value, Reason: "octet " + strconv.Quote(g) + " is not a number"}
			}
		}
		// Very long digit strings overflow and are out of range either way.
		n, err := strconv.ParseUint(g, 10, 32)
		if err != nil || n > 255 {
			return &ValidationError{Field: field, Value: value, Reason: "octet " + g + " out of range 0-255"}
		}
	}
	return nil
}

// Validate checks the target before a session sends anything to a device.
func (t Target) Validate() error {
	n := t.Network
	if strings.TrimSpace(n.SSID) == "" {
		return &ValidationError{Field: "network.ssid", Value: n.SSID, Reason: "must not be empty"}
	}

	switch n.Mode {
	case "", device.IPv4Static:
		if err := ValidateIPv4("network.static_ip", n.StaticIP); err != nil {
			return err
		}
		optional := []struct{ field, value string }{
			{"network.gateway", n.Gateway},
			{"network.netmask", n.Netmask},
			{"network.dns", n.DNS},
		}
		for _, o := range optional {
			if o.value == "" {
				continue
			}
			if err := ValidateIPv4(o.field, o.value); err != nil {
				return err
			}
		}
	case device.IPv4DHCP:
	default:
		return &ValidationError{Field: "network.mode", Value: n.Mode, Reason: "must be static or dhcp"}
	}

	switch t.Firmware.Stage {
	case "", device.StageStable, device.StageBeta:
	default:
		return &ValidationError{Field: "firmware.stage", Value: t.Firmware.Stage, Reason: "must be stable or beta"}
	}
	return nil
}
