// Package device issues configuration operations against an appliance's
// control endpoint.
//
// Appliances expose a JSON-over-HTTP RPC surface at <endpoint>/rpc/<Method>.
// Read-style calls use GET with query parameters; write calls POST a JSON
// object, with configuration payloads nested under a "config" key:
//
//	POST /rpc/WiFi.SetConfig
//	{"config": {"sta": {"ssid": "Home", "pass": "secret", "enable": true}}}
//
// Every call is a single request/response exchange and yields an Outcome.
// Status 200 is the only accepted status; anything else, or a request that
// could not be completed, yields Outcome.OK == false with the raw status and
// body kept for diagnostics. The client never retries.
//
// # Operations
//
//   - FetchConfig: read the current configuration (safe to repeat)
//   - SetNetworkJoin: point the station interface at a new network (disruptive)
//   - SetName: set the display name
//   - DisableSubsystem: switch off a named subsystem such as "BLE"
//   - SetIndicators: switch the indicator LEDs off
//   - CheckForUpdate / ApplyUpdate: firmware update (ApplyUpdate is disruptive)
//   - SetAuth: enable digest authentication from a derived HA1
//   - Reboot: explicit restart (disruptive)
package device
