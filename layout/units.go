package layout

import "github.com/ByLCY/vitae/scale"

// Page geometry. A4 at 96dpi maps 794×1123 px onto 210×297 mm.
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

// Conversion constants between pt, px and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToMm = PageWidthMM / scale.PageWidthPx
	MmToPx = 1.0 / PxToMm
)

// Unit represents the unit a length was authored in.
type Unit int

const (
	UnitMM Unit = iota
	UnitPT
	UnitPX
)

func (u Unit) String() string {
	switch u {
	case UnitPT:
		return "pt"
	case UnitPX:
		return "px"
	default:
		return "mm"
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func Pt(v float64) Length { return Length{Value: v, Unit: UnitPT} }
func Px(v float64) Length { return Length{Value: v, Unit: UnitPX} }
func MM(v float64) Length { return Length{Value: v, Unit: UnitMM} }

// ToMM converts this length to millimeters.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PtToMm
	case UnitPX:
		return l.Value * PxToMm
	default:
		return l.Value
	}
}

// ToPT converts this length to points.
func (l Length) ToPT() float64 { return l.ToMM() * MmToPt }
