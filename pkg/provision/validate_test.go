package provision

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIPv4(t *testing.T) {
	valid := []string{
		"0.0.0.0",
		"10.0.0.5",
		"192.168.33.1",
		"255.255.255.255",
		"010.000.000.005",
	}
	for _, v := range valid {
		t.Run("valid "+v, func(t *testing.T) {
			assert.NoError(t, ValidateIPv4("ip", v))
		})
	}

	invalid := []string{
		"",
		"10.0.0",
		"10.0.0.5.1",
		"10.0.0.999",
		"256.0.0.1",
		"10..0.5",
		"10.0.0.",
		"a.b.c.d",
		"10.0.0.-1",
		"10.0.0.+1",
		" 10.0.0.5",
		"10.0.0.5 ",
		"10.0.0.0x1",
		"10.0.0.99999999999999999999",
		"10.0.0.٣",
	}
	for _, v := range invalid {
		t.Run("invalid "+v, func(t *testing.T) {
			err := ValidateIPv4("network.static_ip", v)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "network.static_ip", ve.Field)
			assert.Equal(t, v, ve.Value)
		})
	}
}

func TestTargetValidate(t *testing.T) {
	base := func() Target {
		return Target{
			Network: NetworkTarget{
				SSID:     "Home",
				Password: "secret",
				StaticIP: "10.0.0.5",
			},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Target)
		field  string
	}{
		{"ok", func(*Target) {}, ""},
		{"dhcp needs no address", func(t *Target) { t.Network.Mode = "dhcp"; t.Network.StaticIP = "" }, ""},
		{"empty optional fields", func(t *Target) { t.Network.Gateway = ""; t.Network.DNS = "" }, ""},
		{"beta stage", func(t *Target) { t.Firmware.Stage = "beta" }, ""},
		{"missing ssid", func(t *Target) { t.Network.SSID = " " }, "network.ssid"},
		{"bad static ip", func(t *Target) { t.Network.StaticIP = "10.0.0.999" }, "network.static_ip"},
		{"missing static ip", func(t *Target) { t.Network.StaticIP = "" }, "network.static_ip"},
		{"bad gateway", func(t *Target) { t.Network.Gateway = "10.0.0" }, "network.gateway"},
		{"bad netmask", func(t *Target) { t.Network.Netmask = "255.255.255.256" }, "network.netmask"},
		{"bad dns", func(t *Target) { t.Network.DNS = "dns.example" }, "network.dns"},
		{"bad mode", func(t *Target) { t.Network.Mode = "auto" }, "network.mode"},
		{"bad stage", func(t *Target) { t.Firmware.Stage = "nightly" }, "firmware.stage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := base()
			tt.mutate(&target)
			err := target.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
