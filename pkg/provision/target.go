package provision

import (
	"time"

	"github.com/mash-protocol/unbox-go/pkg/device"
)

// Target is the operator-supplied desired state for every device of a run.
type Target struct {
	Network    NetworkTarget  `mapstructure:"network" yaml:"network"`
	DeviceName string         `mapstructure:"device_name" yaml:"device_name"`
	Auth       AuthTarget     `mapstructure:"auth" yaml:"auth"`
	Firmware   FirmwarePolicy `mapstructure:"firmware" yaml:"firmware"`

	// AuxRadio is the subsystem switched off in DisableAuxRadio.
	// Empty skips the step.
	AuxRadio string `mapstructure:"aux_radio" yaml:"aux_radio"`

	// DisableIndicators also switches the indicator LEDs off in
	// DisableAuxRadio.
	DisableIndicators bool `mapstructure:"disable_indicators" yaml:"disable_indicators"`
}

// NetworkTarget is the network the device should join.
type NetworkTarget struct {
	SSID     string `mapstructure:"ssid" yaml:"ssid"`
	Password string `mapstructure:"password" yaml:"password"`

	// Mode is "static" (default) or "dhcp".
	Mode string `mapstructure:"mode" yaml:"mode"`

	StaticIP string `mapstructure:"static_ip" yaml:"static_ip"`
	Gateway  string `mapstructure:"gateway" yaml:"gateway"`
	Netmask  string `mapstructure:"netmask" yaml:"netmask"`
	DNS      string `mapstructure:"dns" yaml:"dns"`
}

// IsDHCP reports whether the device should obtain its address by DHCP.
func (n NetworkTarget) IsDHCP() bool { return n.Mode == device.IPv4DHCP }

// join converts the target into device parameters.
func (n NetworkTarget) join() device.NetworkJoin {
	j := device.NetworkJoin{SSID: n.SSID, Password: n.Password, Mode: device.IPv4DHCP}
	if !n.IsDHCP() {
		j.Mode = device.IPv4Static
		j.IP = n.StaticIP
		j.Gateway = n.Gateway
		j.Netmask = n.Netmask
		j.Nameserver = n.DNS
	}
	return j
}

// AuthTarget holds the credentials installed in SetAuthCredentials.
type AuthTarget struct {
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`

	// Realm defaults to the device identifier derived from its SSID.
	Realm string `mapstructure:"realm" yaml:"realm"`
}

// FirmwarePolicy controls CheckAndApplyUpdate.
type FirmwarePolicy struct {
	// Stage is "stable" (default) or "beta".
	Stage string `mapstructure:"stage" yaml:"stage"`

	// Skip disables firmware updates; the step is recorded as Skipped.
	Skip bool `mapstructure:"skip" yaml:"skip"`
}

// Timing bounds the readiness waits.
type Timing struct {
	// NetworkWait follows SetNetworkJoin.
	NetworkWait time.Duration `mapstructure:"network_wait" yaml:"network_wait"`

	// FirmwareWait follows an applied firmware update.
	FirmwareWait time.Duration `mapstructure:"firmware_wait" yaml:"firmware_wait"`

	// SettleWait follows SetDeviceName and Reboot.
	SettleWait time.Duration `mapstructure:"settle_wait" yaml:"settle_wait"`
}

// DefaultTiming returns the default wait bounds.
func DefaultTiming() Timing {
	return Timing{
		NetworkWait:  60 * time.Second,
		FirmwareWait: 180 * time.Second,
		SettleWait:   60 * time.Second,
	}
}

// withDefaults fills zero fields from DefaultTiming.
func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.NetworkWait <= 0 {
		t.NetworkWait = d.NetworkWait
	}
	if t.FirmwareWait <= 0 {
		t.FirmwareWait = d.FirmwareWait
	}
	if t.SettleWait <= 0 {
		t.SettleWait = d.SettleWait
	}
	return t
}
