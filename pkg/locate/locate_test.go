package locate

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/enbility/zeroconf/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(instance, host string, ips ...string) *zeroconf.ServiceEntry {
	e := &zeroconf.ServiceEntry{}
	e.Instance = instance
	e.HostName = host
	for _, ip := range ips {
		e.AddrIPv4 = append(e.AddrIPv4, net.ParseIP(ip))
	}
	return e
}

// announce returns a browse function that sends the given entries and
// then blocks until ctx is done.
func announce(list ...*zeroconf.ServiceEntry) browseFunc {
	return func(ctx context.Context, _ string, entries, _ chan *zeroconf.ServiceEntry) error {
		for _, e := range list {
			select {
			case entries <- e:
			case <-ctx.Done():
				return nil
			}
		}
		<-ctx.Done()
		return nil
	}
}

func TestLocateFindsDevice(t *testing.T) {
	l := New(DefaultConfig())
	l.browse = announce(
		entry("shellyplug-s-112233", "shellyplug-s-112233.local.", "10.0.0.20"),
		entry("ShellyPlus1-C0FFEE", "shellyplus1-c0ffee.local.", "10.0.0.77"),
	)

	addr, err := l.Locate(context.Background(), "shellyplus1-c0ffee", time.Second)

	require.NoError(t, err)
	assert.Equal(t, "10.0.0.77", addr)
}

func TestLocateTimesOut(t *testing.T) {
	l := New(DefaultConfig())
	l.browse = announce(entry("other", "other.local.", "10.0.0.20"))

	start := time.Now()
	_, err := l.Locate(context.Background(), "shellyplus1-c0ffee", 100*time.Millisecond)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Less(t, time.Since(start), time.Second)
}

func TestLocateBrowseError(t *testing.T) {
	l := New(DefaultConfig())
	l.browse = func(context.Context, string, chan *zeroconf.ServiceEntry, chan *zeroconf.ServiceEntry) error {
		return errors.New("no multicast interface")
	}

	_, err := l.Locate(context.Background(), "dev", time.Second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no multicast interface")
}

// TestLocateStopsBrowser feeds announcements the way zeroconf does, with
// sends that ignore the context, and checks the browser has returned once
// Locate has.
func TestLocateStopsBrowser(t *testing.T) {
	returned := make(chan struct{})
	l := New(DefaultConfig())
	l.browse = func(ctx context.Context, _ string, entries, removed chan *zeroconf.ServiceEntry) error {
		defer close(returned)
		entries <- entry("shellyplus1-c0ffee", "shellyplus1-c0ffee.local.", "10.0.0.7")
		entries <- entry("shellyplus1-aaaaaa", "shellyplus1-aaaaaa.local.", "10.0.0.8")
		removed <- entry("shellyplus1-aaaaaa", "shellyplus1-aaaaaa.local.")
		<-ctx.Done()
		return nil
	}

	addr, err := l.Locate(context.Background(), "shellyplus1-c0ffee", 5*time.Second)

	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", addr)
	select {
	case <-returned:
	default:
		t.Fatal("browser still running after Locate returned")
	}
}

func TestLocateTimeoutStopsBrowser(t *testing.T) {
	returned := make(chan struct{})
	l := New(DefaultConfig())
	l.browse = func(ctx context.Context, _ string, entries, _ chan *zeroconf.ServiceEntry) error {
		defer close(returned)
		<-ctx.Done()
		entries <- entry("late", "late.local.", "10.0.0.9")
		return nil
	}

	_, err := l.Locate(context.Background(), "shellyplus1-c0ffee", 50*time.Millisecond)

	assert.ErrorIs(t, err, ErrNotFound)
	select {
	case <-returned:
	default:
		t.Fatal("browser still running after Locate returned")
	}
}

func TestRecordMatch(t *testing.T) {
	tests := []struct {
		name string
		rec  record
		id   string
		want string
		ok   bool
	}{
		{"instance", record{instance: "ShellyPlus1-C0FFEE", addrs: []string{"10.0.0.7"}}, "shellyplus1-c0ffee", "10.0.0.7", true},
		{"host with domain", record{host: "shellyplus1-c0ffee.local.", addrs: []string{"10.0.0.7", "10.0.0.8"}}, "shellyplus1-c0ffee", "10.0.0.7", true},
		{"no address yet", record{instance: "shellyplus1-c0ffee"}, "shellyplus1-c0ffee", "", false},
		{"other device", record{instance: "shellyplus1-aaaaaa", addrs: []string{"10.0.0.7"}}, "shellyplus1-c0ffee", "", false},
		{"prefix only", record{host: "shellyplus1-c0ffee2.local.", addrs: []string{"10.0.0.7"}}, "shellyplus1-c0ffee", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rec.match(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
