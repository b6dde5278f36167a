package netconf

import (
	"io"
)

// Router sheet columns.
const (
	ColNetwork        = "network"
	ColInterface      = "interface"
	ColRouterDesc     = "description"
	ColRouterVLAN     = "vlan"
	ColRouterIP       = "ipaddress"
	ColSubnetMask     = "subnetmask"
	ColDefaultGateway = "defaultgateway"
)

var routerColumns = []string{ColNetwork, ColInterface, ColRouterDesc, ColRouterVLAN, ColRouterIP, ColSubnetMask, ColDefaultGateway}

// CompileRouter turns a router sheet into an IOS command list: one
// interface block per row followed by its VLAN declaration.
func CompileRouter(r io.Reader) ([]string, error) {
	rows, err := readSheet(r, routerColumns)
	if err != nil {
		return nil, err
	}

	var cmds []string
	for _, rw := range rows {
		iface := rw.get(ColInterface)
		if iface == "" {
			return nil, rw.errorf("no interface")
		}
		desc := rw.get(ColRouterDesc)

		cmds = append(cmds, "interface "+iface)
		if ip := rw.get(ColRouterIP); ip != "" {
			cmds = append(cmds, " ip address "+ip+" "+rw.get(ColSubnetMask))
		}
		if gw := rw.get(ColDefaultGateway); gw != "" {
			cmds = append(cmds, " ip default-gateway "+gw)
		}
		cmds = append(cmds, " description "+desc, " no shutdown", "exit")

		if vlan := rw.get(ColRouterVLAN); vlan != "" {
			if _, err := vlanID(vlan); err != nil {
				return nil, rw.errorf("%v", err)
			}
			cmds = append(cmds, "vlan "+vlan, " name "+desc, "exit")
		}
	}
	return cmds, nil
}
