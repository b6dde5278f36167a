package discovery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mash-protocol/unbox-go/pkg/discovery"
	"github.com/mash-protocol/unbox-go/pkg/discovery/mocks"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		ssid    string
		want    bool
	}{
		{"", "ShellyPlusPlugS-AABBCC", true},
		{"shelly*", "shellyplus1-c0ffee", true},
		{"shelly*", "Home", false},
		{"Device-*", "device-aabbcc", true},
		{"shellyplus1-??????", "ShellyPlus1-C0FFEE", true},
		{"shellyplus1-??????", "ShellyPlus1-C0FFEE1", false},
	}
	for _, tt := range tests {
		got, err := discovery.Match(tt.pattern, tt.ssid)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%q ~ %q", tt.pattern, tt.ssid)
	}

	_, err := discovery.Match("[", "x")
	assert.Error(t, err)
}

func TestFilterDeduplicatesAndKeepsOrder(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	networks := []discovery.Network{
		{SSID: "ShellyPlus1-C0FFEE"},
		{SSID: "Home", Security: "WPA2"},
		{SSID: ""},
		{SSID: "ShellyPlusPlugS-AABBCC"},
		{SSID: "ShellyPlus1-C0FFEE", Signal: 40},
	}

	got, err := discovery.Filter(networks, "", at)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ShellyPlus1-C0FFEE", got[0].SSID)
	assert.Equal(t, "ShellyPlusPlugS-AABBCC", got[1].SSID)
	assert.Equal(t, at, got[0].DiscoveredAt)
}

func TestFilterBadPattern(t *testing.T) {
	_, err := discovery.Filter([]discovery.Network{{SSID: "x"}}, "[", time.Now())
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	w := mocks.NewMockWireless(t)
	w.EXPECT().Scan(mock.Anything).Return([]discovery.Network{
		{SSID: "Device-AABBCC"},
		{SSID: "Neighbour"},
	}, nil).Once()

	got, err := discovery.Discover(context.Background(), w, "device-*")

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Device-AABBCC", got[0].SSID)
	assert.False(t, got[0].DiscoveredAt.IsZero())
}

func TestDiscoverScanError(t *testing.T) {
	w := mocks.NewMockWireless(t)
	w.EXPECT().Scan(mock.Anything).Return(nil, errors.New("radio off")).Once()

	_, err := discovery.Discover(context.Background(), w, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "radio off")
}
