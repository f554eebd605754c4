package dsl

// ValueType is the closed set of runtime value types a typed expression
// can produce.
type ValueType int

const (
	TypeFloat ValueType = iota
	TypeBool
	TypeColor
	TypeVec2
	TypeCurve
	TypeGradient
	TypeText
	TypeVoid
)

func (t ValueType) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeColor:
		return "color"
	case TypeVec2:
		return "vec2"
	case TypeCurve:
		return "curve"
	case TypeGradient:
		return "gradient"
	case TypeText:
		return "text"
	default:
		return "void"
	}
}

func typeOfSpec(t TypeSpec) ValueType {
	switch t.(type) {
	case *FloatType:
		return TypeFloat
	case *BoolType:
		return TypeBool
	case *ColorType:
		return TypeColor
	case *Vec2Type:
		return TypeVec2
	case *CurveType:
		return TypeCurve
	case *GradientType:
		return TypeGradient
	case *TextType:
		return TypeText
	case *EnumType, *FlagsType:
		return TypeFloat // encoded as an ordinal/bitmask at runtime
	default:
		return TypeVoid
	}
}
