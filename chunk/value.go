package chunk

// ValueType tags a constant-pool entry. These numeric values are part of
// the wire format (spec §6) and must stay INT=0, FLOAT=1, STRING=2.
type ValueType byte

const (
	ValueInt ValueType = iota
	ValueFloat
	ValueString
)

// Value is one constant-pool entry: a tagged union of the three constant
// kinds Timid bytecode can reference.
type Value struct {
	Type  ValueType
	Int   int64
	Float float64
	Str   string
}

func IntValue(v int64) Value     { return Value{Type: ValueInt, Int: v} }
func FloatValue(v float64) Value { return Value{Type: ValueFloat, Float: v} }
func StringValue(v string) Value { return Value{Type: ValueString, Str: v} }
