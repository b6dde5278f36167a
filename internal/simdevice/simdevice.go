// Package simdevice provides an in-process simulated appliance for tests.
//
// The simulator serves the same RPC surface as a real device on an
// httptest server and can inject per-method delays, non-200 statuses, and
// outages (connections are dropped without a response while the device is
// "down"), which is how a real device looks while it rejoins a network,
// flashes firmware, or reboots.
package simdevice

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// Call is one RPC received by the simulator.
type Call struct {
	Method string
	Params map[string]any
	At     time.Time
}

type forcedReply struct {
	status int
	body   string
}

// Device is a simulated appliance.
type Device struct {
	srv *httptest.Server
	id  string

	mu        sync.Mutex
	calls     []Call
	probes    int
	replies   map[string]forcedReply
	delays    map[string]time.Duration
	outages   map[string]time.Duration
	downUntil time.Time
	update    string
	config    map[string]any
}

// Forever can be passed to OutageAfter or GoDown for a device that never
// comes back.
const Forever time.Duration = -1

// New starts a simulated device with the given identifier.
func New(id string) *Device {
	d := &Device{
		id:      id,
		replies: make(map[string]forcedReply),
		delays:  make(map[string]time.Duration),
		outages: make(map[string]time.Duration),
		config: map[string]any{
			"sys":  map[string]any{"device": map[string]any{"name": nil}},
			"ble":  map[string]any{"enable": true},
			"wifi": map[string]any{"sta": map[string]any{"enable": false}},
		},
	}
	d.srv = httptest.NewServer(http.HandlerFunc(d.serve))
	return d
}

// Close shuts the simulator down.
func (d *Device) Close() { d.srv.Close() }

// URL returns the base URL of the control endpoint.
func (d *Device) URL() string { return d.srv.URL }

// ID returns the device identifier.
func (d *Device) ID() string { return d.id }

// SetReply forces every call to method to answer with status and body.
func (d *Device) SetReply(method string, status int, body string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replies[method] = forcedReply{status: status, body: body}
}

// SetDelay delays every answer to method.
func (d *Device) SetDelay(method string, delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delays[method] = delay
}

// OutageAfter makes the device unreachable for dur after it answers a
// successful call to method.
func (d *Device) OutageAfter(method string, dur time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.outages[method] = dur
}

// GoDown makes the device unreachable for dur, starting now.
func (d *Device) GoDown(dur time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.goDownLocked(dur)
}

// AdvertiseUpdate makes Shelly.CheckForUpdate report a stable release.
func (d *Device) AdvertiseUpdate(version string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.update = version
}

// Calls returns the RPC methods received, in order.
func (d *Device) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.calls))
	for i, c := range d.calls {
		out[i] = c.Method
	}
	return out
}

// LastCall returns the most recent call to method.
func (d *Device) LastCall(method string) (Call, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.calls) - 1; i >= 0; i-- {
		if d.calls[i].Method == method {
			return d.calls[i], true
		}
	}
	return Call{}, false
}

// Probes returns how many status requests reached the device while it was up.
func (d *Device) Probes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.probes
}

func (d *Device) goDownLocked(dur time.Duration) {
	if dur < 0 {
		d.downUntil = time.Now().Add(100 * 365 * 24 * time.Hour)
		return
	}
	d.downUntil = time.Now().Add(dur)
}

func (d *Device) isDown() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return time.Now().Before(d.downUntil)
}

func (d *Device) serve(w http.ResponseWriter, r *http.Request) {
	if d.isDown() {
		drop(w)
		return
	}

	if r.URL.Path == "/shelly" {
		d.mu.Lock()
		d.probes++
		d.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"id": d.id, "gen": 2})
		return
	}

	method, ok := strings.CutPrefix(r.URL.Path, "/rpc/")
	if !ok || method == "" {
		http.NotFound(w, r)
		return
	}

	params := map[string]any{}
	if r.Method == http.MethodPost {
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			if err := json.Unmarshal(data, &params); err != nil {
				writeJSON(w, http.StatusBadRequest, rpcError(-103, "invalid argument"))
				return
			}
		}
	}

	d.mu.Lock()
	d.calls = append(d.calls, Call{Method: method, Params: params, At: time.Now()})
	delay := d.delays[method]
	forced, isForced := d.replies[method]
	d.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if isForced {
		w.WriteHeader(forced.status)
		_, _ = io.WriteString(w, forced.body)
		d.afterSuccess(method, forced.status)
		return
	}

	status, body := d.handle(method, params)
	writeJSON(w, status, body)
	d.afterSuccess(method, status)
}

func (d *Device) afterSuccess(method string, status int) {
	if status != http.StatusOK {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if dur, ok := d.outages[method]; ok {
		d.goDownLocked(dur)
	}
}

func (d *Device) handle(method string, params map[string]any) (int, any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch method {
	case "Shelly.GetConfig":
		return http.StatusOK, d.config
	case "Shelly.CheckForUpdate":
		if d.update == "" {
			return http.StatusOK, map[string]any{}
		}
		return http.StatusOK, map[string]any{
			"stable": map[string]any{"version": d.update, "build_id": "sim-" + d.update},
		}
	case "Shelly.Update":
		d.update = ""
		return http.StatusOK, nil
	case "Shelly.Reboot", "Shelly.SetAuth":
		return http.StatusOK, nil
	case "WiFi.SetConfig", "Sys.SetConfig", "BLE.SetConfig", "PLUGS_UI.SetConfig":
		return http.StatusOK, map[string]any{"restart_required": false}
	default:
		return http.StatusNotFound, rpcError(404, "No handler for "+method)
	}
}

func rpcError(code int, msg string) map[string]any {
	return map[string]any{"code": code, "message": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// drop closes the connection without writing a response.
func drop(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		return
	}
	_ = conn.Close()
}
