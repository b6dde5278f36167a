package device

import "strings"

// IPv4 addressing modes for the station interface.
const (
	IPv4Static = "static"
	IPv4DHCP   = "dhcp"
)

// Firmware update stages.
const (
	StageStable = "stable"
	StageBeta   = "beta"
)

// NetworkJoin holds station interface parameters.
type NetworkJoin struct {
	SSID     string
	Password string

	// Mode is IPv4Static or IPv4DHCP. Empty means DHCP.
	Mode string

	// Static addressing, ignored in DHCP mode.
	IP         string
	Netmask    string
	Gateway    string
	Nameserver string
}

// payload returns the WiFi.SetConfig request body.
func (n NetworkJoin) payload() map[string]any {
	sta := map[string]any{
		"ssid":   n.SSID,
		"enable": true,
	}
	if n.Password != "" {
		sta["pass"] = n.Password
	}
	if n.Mode == IPv4Static {
		sta["ipv4mode"] = IPv4Static
		sta["ip"] = n.IP
		if n.Netmask != "" {
			sta["netmask"] = n.Netmask
		}
		if n.Gateway != "" {
			sta["gw"] = n.Gateway
		}
		if n.Nameserver != "" {
			sta["nameserver"] = n.Nameserver
		}
	} else {
		sta["ipv4mode"] = IPv4DHCP
	}
	return map[string]any{"config": map[string]any{"sta": sta}}
}

// UpdateInfo describes firmware advertised by a device.
type UpdateInfo struct {
	Stable *Release `json:"stable,omitempty"`
	Beta   *Release `json:"beta,omitempty"`
}

// Release is one advertised firmware build.
type Release struct {
	Version string `json:"version"`
	BuildID string `json:"build_id,omitempty"`
}

// For returns the release advertised for stage, or nil.
func (u UpdateInfo) For(stage string) *Release {
	switch stage {
	case StageBeta:
		return u.Beta
	default:
		return u.Stable
	}
}

// Credentials are the digest authentication settings to install.
type Credentials struct {
	User     string
	Realm    string
	Password string
}

// IDFromSSID derives the device identifier from the network name the device
// advertises while unconfigured, e.g. "ShellyPlusPlugS-AABBCC" ->
// "shellyplusplugs-aabbcc". Devices use this identifier as their mDNS
// host name and as their authentication realm.
func IDFromSSID(ssid string) string {
	return strings.ToLower(strings.TrimSpace(ssid))
}
