package bind

import (
	"fmt"

	"github.com/sarchlab/fabricpnr/device"
	"github.com/sarchlab/fabricpnr/netlist"
)

// RouteReachesDriver walks a net's routing tree backward from every bound
// wire via its uphill pip's source, and checks that it terminates at the
// net's driver wire in finitely many steps. driverWire is the wire bound to the net's driver port.
func RouteReachesDriver(nl *netlist.Netlist, graph *device.Graph, net netlist.NetID, driverWire device.WireID) error {
	n := nl.MustNet(net)

	for w := range n.Route {
		cur := w
		seen := make(map[device.WireID]bool)
		for {
			if cur == driverWire {
				break
			}
			if seen[cur] {
				return fmt.Errorf("bind: routing tree for net %d has a cycle at wire %d", net, cur)
			}
			seen[cur] = true

			edge, ok := n.Route[cur]
			if !ok || edge.Pip == device.NoPip {
				return fmt.Errorf("bind: routing tree for net %d does not reach its driver from wire %d", net, w)
			}
			cur = graph.Pips[edge.Pip].Src
		}
	}

	return nil
}
