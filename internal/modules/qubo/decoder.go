package qubo

import (
	"github.com/aristath/quantum-solver/internal/domain"
)

// DecodedValue is one variable's recovered assignment. A one-hot group with
// zero or more than one bit set is not an error: it is reported through the
// Invalid flag so the caller can discard or retry the sample.
type DecodedValue struct {
	Variable string  `json:"variable"`
	Kind     VarKind `json:"kind"`
	Bit      bool    `json:"bit,omitempty"`     // binary variables
	Integer  int     `json:"integer,omitempty"` // integer variables
	Option   string  `json:"option,omitempty"`  // categorical variables
	Invalid  bool    `json:"invalid"`
}

// Decode maps a sampled bitstring back to domain values. Character i of
// bits is the state of qubit i; trailing slack qubits are ignored.
func (enc *Encoding) Decode(bits string) ([]DecodedValue, error) {
	if len(bits) != enc.NumQubits {
		return nil, domain.NewInvalidArgument("bits", "length %d does not match %d qubits", len(bits), enc.NumQubits)
	}
	for i := 0; i < len(bits); i++ {
		if bits[i] != '0' && bits[i] != '1' {
			return nil, domain.NewInvalidArgument("bits", "character %q at position %d", bits[i], i)
		}
	}

	values := make([]DecodedValue, len(enc.Variables))
	for vi, v := range enc.Variables {
		dv := DecodedValue{Variable: v.Name, Kind: v.Kind}
		base := enc.offsets[vi]

		if v.Kind == KindBinary {
			dv.Bit = bits[base] == '1'
			values[vi] = dv
			continue
		}

		// One-hot group: exactly one set bit is a valid assignment.
		selected := -1
		count := 0
		for k := 0; k < v.Width(); k++ {
			if bits[base+k] == '1' {
				selected = k
				count++
			}
		}
		if count != 1 {
			dv.Invalid = true
			values[vi] = dv
			continue
		}
		switch v.Kind {
		case KindInteger:
			dv.Integer = v.Lower + selected
		case KindCategorical:
			dv.Option = v.Options[selected]
		}
		values[vi] = dv
	}
	return values, nil
}

// AllValid reports whether every decoded value is a valid assignment.
func AllValid(values []DecodedValue) bool {
	for _, v := range values {
		if v.Invalid {
			return false
		}
	}
	return true
}
