package idstring

// ConstIDs holds the well-known handles every architecture shares a prefix
// of, so generic code can compare against e.g. ConstIDs.CLK without paying
// for a string lookup on every use. Populated once at context construction
// by Pool.InternConstIDs.
type ConstIDs struct {
	CLK ID
	CE  ID
	LSR ID
	Q   ID
	D   ID
	F   ID
	I0  ID
	I1  ID
	I2  ID
	I3  ID
	FCI ID
	FCO ID
	DI  ID
	Z   ID
}

// wellKnownNames lists the names that get a shared handle prefix across
// every architecture.
var wellKnownNames = []string{
	"CLK", "CE", "LSR", "Q", "D", "F",
	"I0", "I1", "I2", "I3", "FCI", "FCO", "DI", "Z",
}

// InternConstIDs interns the well-known name table into p and returns the
// resulting handles. Calling it twice on the same pool returns identical
// handles, since Intern is idempotent.
func (p *Pool) InternConstIDs() ConstIDs {
	ids := make([]ID, len(wellKnownNames))
	for i, name := range wellKnownNames {
		ids[i] = p.Intern(name)
	}

	return ConstIDs{
		CLK: ids[0],
		CE:  ids[1],
		LSR: ids[2],
		Q:   ids[3],
		D:   ids[4],
		F:   ids[5],
		I0:  ids[6],
		I1:  ids[7],
		I2:  ids[8],
		I3:  ids[9],
		FCI: ids[10],
		FCO: ids[11],
		DI:  ids[12],
		Z:   ids[13],
	}
}
