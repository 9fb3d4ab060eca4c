package netlist

import "github.com/sarchlab/fabricpnr/idstring"

// CreateRegion adds a named rectangular region constraint and returns its
// id.
func (nl *Netlist) CreateRegion(name string, x0, y0, x1, y1 int32, buckets []string) RegionID {
	id := RegionID(len(nl.regions))
	bs := make(map[idstring.ID]bool, len(buckets))
	for _, b := range buckets {
		bs[nl.Pool.Intern(b)] = true
	}
	nl.regions = append(nl.regions, Region{
		Name:      nl.Pool.Intern(name),
		X0:        x0,
		Y0:        y0,
		X1:        x1,
		Y1:        y1,
		BucketSet: bs,
	})
	return id
}

// Region returns the region with id.
func (nl *Netlist) Region(id RegionID) *Region {
	return &nl.regions[id]
}

// Contains reports whether (x, y) falls inside the region's rectangle.
func (r *Region) Contains(x, y int32) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}

// AllowsBucket reports whether bucket is permitted by the region's
// bel-set constraint. An empty BucketSet permits every bucket.
func (r *Region) AllowsBucket(bucket idstring.ID) bool {
	if len(r.BucketSet) == 0 {
		return true
	}
	return r.BucketSet[bucket]
}

// SetRegion constrains cell to region.
func (nl *Netlist) SetRegion(cell CellID, region RegionID) {
	c := nl.MustCell(cell)
	c.HasRegion = true
	c.Region = region
}

// HierCell is a non-leaf module in the design hierarchy: a
// full dotted path plus local-name↔global-name maps for the leaves and
// nets it contains, and the port-to-net bindings at its boundary.
type HierCell struct {
	Path idstring.List
	Type idstring.ID

	// LocalToGlobalCell/Net map a name used inside this hierarchical
	// scope to the flattened netlist's CellID/NetID.
	LocalToGlobalCell map[idstring.ID]CellID
	LocalToGlobalNet  map[idstring.ID]NetID

	// PortNets maps a boundary port name to the net it binds to in the
	// parent scope.
	PortNets map[idstring.ID]NetID

	Children []*HierCell
}

// NewHierCell creates a hierarchical cell record rooted at path.
func NewHierCell(path idstring.List, typ idstring.ID) *HierCell {
	return &HierCell{
		Path:              path,
		Type:              typ,
		LocalToGlobalCell: make(map[idstring.ID]CellID),
		LocalToGlobalNet:  make(map[idstring.ID]NetID),
		PortNets:          make(map[idstring.ID]NetID),
	}
}

// AddChild appends a nested hierarchical cell.
func (h *HierCell) AddChild(child *HierCell) {
	h.Children = append(h.Children, child)
}

// BindLocalCell records that localName resolves to global within this
// hierarchical scope.
func (h *HierCell) BindLocalCell(localName idstring.ID, global CellID) {
	h.LocalToGlobalCell[localName] = global
}

// BindLocalNet records that localName resolves to global within this
// hierarchical scope.
func (h *HierCell) BindLocalNet(localName idstring.ID, global NetID) {
	h.LocalToGlobalNet[localName] = global
}

// BindPort records that boundary port name binds to net in the parent
// scope.
func (h *HierCell) BindPort(name idstring.ID, net NetID) {
	h.PortNets[name] = net
}
