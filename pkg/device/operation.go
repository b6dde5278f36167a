package device

// Operation identifies a control operation.
type Operation uint8

const (
	// OpFetchConfig reads the full device configuration.
	OpFetchConfig Operation = iota

	// OpSetNetworkJoin configures the station (client) network interface.
	OpSetNetworkJoin

	// OpSetName sets the device display name.
	OpSetName

	// OpDisableSubsystem disables a named subsystem.
	OpDisableSubsystem

	// OpSetIndicators configures the indicator LEDs.
	OpSetIndicators

	// OpCheckForUpdate asks the device whether new firmware is available.
	OpCheckForUpdate

	// OpApplyUpdate starts a firmware update.
	OpApplyUpdate

	// OpSetAuth enables authentication on the device.
	OpSetAuth

	// OpReboot restarts the device.
	OpReboot
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OpFetchConfig:
		return "FETCH_CONFIG"
	case OpSetNetworkJoin:
		return "SET_NETWORK_JOIN"
	case OpSetName:
		return "SET_NAME"
	case OpDisableSubsystem:
		return "DISABLE_SUBSYSTEM"
	case OpSetIndicators:
		return "SET_INDICATORS"
	case OpCheckForUpdate:
		return "CHECK_FOR_UPDATE"
	case OpApplyUpdate:
		return "APPLY_UPDATE"
	case OpSetAuth:
		return "SET_AUTH"
	case OpReboot:
		return "REBOOT"
	default:
		return "UNKNOWN"
	}
}

// Disruptive reports whether the device is expected to drop off its current
// address after the operation is accepted.
func (o Operation) Disruptive() bool {
	switch o {
	case OpSetNetworkJoin, OpApplyUpdate, OpReboot:
		return true
	default:
		return false
	}
}

// readOnly reports whether the operation is sent as a GET.
func (o Operation) readOnly() bool {
	return o == OpFetchConfig || o == OpCheckForUpdate
}

// RPC method names.
const (
	MethodGetConfig      = "Shelly.GetConfig"
	MethodCheckForUpdate = "Shelly.CheckForUpdate"
	MethodUpdate         = "Shelly.Update"
	MethodSetAuth        = "Shelly.SetAuth"
	MethodReboot         = "Shelly.Reboot"
	MethodWiFiSetConfig  = "WiFi.SetConfig"
	MethodSysSetConfig   = "Sys.SetConfig"
	MethodLEDSetConfig   = "PLUGS_UI.SetConfig"
)

// SubsystemMethod returns the RPC method that configures the named subsystem,
// e.g. "BLE" -> "BLE.SetConfig".
func SubsystemMethod(name string) string {
	return name + ".SetConfig"
}
