package domain

// Capabilities describes what an execution backend can do. It is ordinary
// data: a new hardware provider is a new Capabilities value, not a new
// enum case or code change.
type Capabilities struct {
	MaxQubits    int      `json:"max_qubits"`
	GateSet      []string `json:"gate_set"`
	Connectivity [][2]int `json:"connectivity,omitempty"` // nil means all-to-all
	Simulator    bool     `json:"simulator"`
}

// SupportsGate reports whether the backend advertises the given gate kind.
func (c Capabilities) SupportsGate(kind string) bool {
	for _, g := range c.GateSet {
		if g == kind {
			return true
		}
	}
	return false
}

// Method identifies how a result was produced. Surfaced explicitly on every
// solve result so a classical substitution can never masquerade as a
// quantum run: this core only ever sets MethodQuantumSimulator from an
// actual simulator execution; MethodClassicalFallback exists for calling
// layers that decide to substitute, and must be set by them.
type Method string

const (
	MethodQuantumSimulator  Method = "quantum_simulator"
	MethodClassicalFallback Method = "classical_fallback"
)
