package netconf

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Switch sheet columns.
const (
	ColVLAN        = "Vlan"
	ColDescription = "Description"
	ColIPAddress   = "IP Address"
	ColNetmask     = "Netmask"
	ColPorts       = "Ports"
	ColSwitch      = "Switch"
)

// maxNormalVLAN is the top of the VTP normal range. Extended IDs need
// transparent mode.
const maxNormalVLAN = 1005

var switchColumns = []string{ColVLAN, ColDescription, ColIPAddress, ColNetmask, ColPorts, ColSwitch}

// CompileSwitch turns a switch sheet into an IOS command list.
//
// Each row declares its VLANs, an optional layer 3 interface on the first
// VLAN and the ports carrying it. Descriptions containing "trunk" or
// "uplink" make trunk ports; others make access ports on the first VLAN.
// Rows whose description starts with "management" or "mgmt" and carry an
// address form the management VLAN. IP routing is enabled when any layer 3
// interface exists, and VLAN 1 is always shut down.
func CompileSwitch(r io.Reader) ([]string, error) {
	rows, err := readSheet(r, switchColumns)
	if err != nil {
		return nil, err
	}

	var cmds []string
	routing := false
	for _, rw := range rows {
		desc := rw.get(ColDescription)
		vlans, err := ExpandVLANs(rw.get(ColVLAN))
		if err != nil {
			return nil, rw.errorf("%v", err)
		}
		if len(vlans) == 0 {
			return nil, rw.errorf("no VLAN")
		}
		unit, err := switchUnit(rw.get(ColSwitch))
		if err != nil {
			return nil, rw.errorf("%v", err)
		}

		if slices.Min(vlans) > maxNormalVLAN {
			cmds = append(cmds, "vtp mode transparent")
		}
		for _, id := range vlans {
			cmds = append(cmds, fmt.Sprintf("vlan %d", id), " name "+desc, "exit")
		}

		ip := rw.get(ColIPAddress)
		mgmt := ip != "" && isManagement(desc)
		switch {
		case ip != "":
			routing = true
			label := desc
			if mgmt {
				label += " (Management VLAN)"
			}
			cmds = append(cmds,
				fmt.Sprintf("interface vlan%d", vlans[0]),
				" description "+label,
				fmt.Sprintf(" ip address %s %s", ip, rw.get(ColNetmask)),
				" no shutdown",
				"exit",
			)
		default:
			cmds = append(cmds, fmt.Sprintf("! Skipping Layer 3 configuration for VLAN %d (Layer 2 only)", vlans[0]))
		}

		if ports := rw.get(ColPorts); ports != "" {
			cmds = append(cmds, portCommands(ports, vlans, desc, unit, mgmt)...)
		}
		cmds = append(cmds, "")
	}

	if routing {
		cmds = slices.Insert(cmds, 0, "ip routing")
		cmds = append(cmds, "! IP routing was enabled because Layer 3 VLANs are configured.")
	}
	cmds = append(cmds, "interface vlan1", " shutdown", "exit", "! VLAN 1 has been disabled")
	return cmds, nil
}

// switchUnit converts the 1-based stack member number into the 0-based
// interface unit. Empty means the first member.
func switchUnit(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("switch %q is not a number", s)
	}
	return max(n-1, 0), nil
}

func isManagement(desc string) bool {
	d := strings.ToLower(desc)
	return strings.HasPrefix(d, "management") || strings.HasPrefix(d, "mgmt")
}

func isTrunk(desc string) bool {
	d := strings.ToLower(desc)
	return strings.Contains(d, "trunk") || strings.Contains(d, "uplink")
}

// portCommands configures each port or port range of a row.
func portCommands(ports string, vlans []int, desc string, unit int, mgmt bool) []string {
	var cmds []string
	for _, p := range strings.Split(ports, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(p, "-"); ok {
			cmds = append(cmds, fmt.Sprintf("interface range FastEthernet %d/%s - %s", unit, strings.TrimSpace(lo), strings.TrimSpace(hi)))
		} else {
			cmds = append(cmds, fmt.Sprintf("interface FastEthernet %d/%s", unit, p))
		}

		if isTrunk(desc) {
			cmds = append(cmds, " switchport mode trunk")
			ids := make([]string, len(vlans))
			for i, id := range vlans {
				ids[i] = strconv.Itoa(id)
			}
			cmds = append(cmds, " switchport trunk allowed vlan "+strings.Join(ids, ","))
		} else {
			cmds = append(cmds,
				fmt.Sprintf(" switchport access vlan %d", vlans[0]),
				" description "+desc+" port",
			)
			if mgmt {
				cmds = append(cmds, " switchport mode access")
			}
		}
		cmds = append(cmds, " no shutdown", "exit")
	}
	return cmds
}
