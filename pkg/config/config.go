// Package config loads the settings of a provisioning run.
//
// Settings come from an optional YAML file (unbox.yaml in the working
// directory or $HOME/.config/unbox) and UNBOX_ environment variables,
// layered over Default(). Nested keys map to variables by upper-casing and
// replacing dots with underscores, e.g. target.network.password is
// UNBOX_TARGET_NETWORK_PASSWORD.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mash-protocol/unbox-go/pkg/device"
	"github.com/mash-protocol/unbox-go/pkg/discovery"
	"github.com/mash-protocol/unbox-go/pkg/probe"
	"github.com/mash-protocol/unbox-go/pkg/provision"
)

// File lookup.
const (
	// FileName is the configuration file name without extension.
	FileName = "unbox"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "UNBOX"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

// Run holds everything one provisioning run needs.
type Run struct {
	// SSIDPattern selects candidate access points.
	SSIDPattern string `mapstructure:"ssid_pattern" yaml:"ssid_pattern"`

	// Interface is the wireless interface used for joins and mDNS.
	Interface string `mapstructure:"interface" yaml:"interface"`

	// JoinTimeout bounds joining one device access point.
	JoinTimeout time.Duration `mapstructure:"join_timeout" yaml:"join_timeout"`

	// DeviceAddress is the control endpoint of an unconfigured device.
	DeviceAddress string `mapstructure:"device_address" yaml:"device_address"`

	Target provision.Target `mapstructure:"target" yaml:"target"`
	Timing provision.Timing `mapstructure:"timing" yaml:"timing"`

	// HTTPTimeout bounds a single device request.
	HTTPTimeout time.Duration `mapstructure:"http_timeout" yaml:"http_timeout"`

	// ProbeInterval is the delay between readiness probes.
	ProbeInterval time.Duration `mapstructure:"probe_interval" yaml:"probe_interval"`

	// ProbeTimeout bounds a single readiness probe.
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" yaml:"probe_timeout"`

	// Interactive asks the operator before each candidate.
	Interactive bool `mapstructure:"interactive" yaml:"interactive"`

	// TraceFile receives the CBOR event trace. Empty disables it.
	TraceFile string `mapstructure:"trace_file" yaml:"trace_file"`

	// ReportFile receives the YAML run report. Empty disables it.
	ReportFile string `mapstructure:"report_file" yaml:"report_file"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Run {
	return Run{
		SSIDPattern:   discovery.DefaultPattern,
		JoinTimeout:   discovery.DefaultJoinTimeout,
		DeviceAddress: provision.DefaultDeviceAddress,
		Target: provision.Target{
			Network: provision.NetworkTarget{Mode: device.IPv4Static},
			Auth:    provision.AuthTarget{User: device.DefaultAuthUser},
			Firmware: provision.FirmwarePolicy{
				Stage: "stable",
			},
			AuxRadio: "BLE",
		},
		Timing:        provision.DefaultTiming(),
		HTTPTimeout:   device.DefaultRequestTimeout,
		ProbeInterval: probe.DefaultInterval,
		ProbeTimeout:  probe.DefaultRequestTimeout,
		LogLevel:      "info",
	}
}

// setDefaults registers every key so that environment variables bind even
// when the file does not mention them.
func setDefaults(v *viper.Viper, d Run) {
	v.SetDefault("ssid_pattern", d.SSIDPattern)
	v.SetDefault("interface", d.Interface)
	v.SetDefault("join_timeout", d.JoinTimeout)
	v.SetDefault("device_address", d.DeviceAddress)

	v.SetDefault("target.network.ssid", d.Target.Network.SSID)
	v.SetDefault("target.network.password", d.Target.Network.Password)
	v.SetDefault("target.network.mode", d.Target.Network.Mode)
	v.SetDefault("target.network.static_ip", d.Target.Network.StaticIP)
	v.SetDefault("target.network.gateway", d.Target.Network.Gateway)
	v.SetDefault("target.network.netmask", d.Target.Network.Netmask)
	v.SetDefault("target.network.dns", d.Target.Network.DNS)
	v.SetDefault("target.device_name", d.Target.DeviceName)
	v.SetDefault("target.auth.user", d.Target.Auth.User)
	v.SetDefault("target.auth.password", d.Target.Auth.Password)
	v.SetDefault("target.auth.realm", d.Target.Auth.Realm)
	v.SetDefault("target.firmware.stage", d.Target.Firmware.Stage)
	v.SetDefault("target.firmware.skip", d.Target.Firmware.Skip)
	v.SetDefault("target.aux_radio", d.Target.AuxRadio)
	v.SetDefault("target.disable_indicators", d.Target.DisableIndicators)

	v.SetDefault("timing.network_wait", d.Timing.NetworkWait)
	v.SetDefault("timing.firmware_wait", d.Timing.FirmwareWait)
	v.SetDefault("timing.settle_wait", d.Timing.SettleWait)

	v.SetDefault("http_timeout", d.HTTPTimeout)
	v.SetDefault("probe_interval", d.ProbeInterval)
	v.SetDefault("probe_timeout", d.ProbeTimeout)
	v.SetDefault("interactive", d.Interactive)
	v.SetDefault("trace_file", d.TraceFile)
	v.SetDefault("report_file", d.ReportFile)
	v.SetDefault("log_level", d.LogLevel)
}

// Load reads the configuration. If path is empty the default locations
// are searched and a missing file is not an error.
func Load(path string) (Run, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "unbox"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Run{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Run
	if err := v.Unmarshal(&cfg); err != nil {
		return Run{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings needed before any device is touched.
// Address fields of the target are checked per device session.
func (r Run) Validate() error {
	if r.SSIDPattern == "" {
		return fmt.Errorf("%w: ssid_pattern is empty", ErrInvalid)
	}
	if _, err := discovery.Match(r.SSIDPattern, ""); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if strings.TrimSpace(r.Target.Network.SSID) == "" {
		return fmt.Errorf("%w: target.network.ssid is empty", ErrInvalid)
	}
	if !strings.Contains(r.DeviceAddress, "://") {
		return fmt.Errorf("%w: device_address %q needs a scheme", ErrInvalid, r.DeviceAddress)
	}
	if _, err := r.SlogLevel(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (r Run) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(r.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", r.LogLevel, err)
	}
	return l, nil
}
