package pattern

import "github.com/alsfmt/als/operator"

// TokenCost returns the exact ASCII length of op's serialized token,
// excluding the "," separator joining it to its neighbors in an
// op_seq (§4.7 grammar). Delegating to Operator.Token keeps this in
// lockstep with what the serializer actually writes.
func TokenCost(op *operator.Operator) int {
	return len(op.Token())
}
