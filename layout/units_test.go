package layout

import (
	"math"
	"testing"
)

func TestLengthConversions(t *testing.T) {
	const eps = 1e-6
	if got := Pt(72).ToMM(); math.Abs(got-25.39994) > 1e-4 {
		t.Fatalf("72pt = %gmm", got)
	}
	if got := Px(794).ToMM(); math.Abs(got-PageWidthMM) > eps {
		t.Fatalf("794px = %gmm, want %g", got, PageWidthMM)
	}
	if got := MM(10).ToPT(); math.Abs(got-10*MmToPt) > eps {
		t.Fatalf("10mm = %gpt", got)
	}
	if got := Px(1123).ToMM(); math.Abs(got-PageHeightMM) > 0.1 {
		t.Fatalf("1123px = %gmm, want ≈%g", got, PageHeightMM)
	}
	if Pt(1).Unit.String() != "pt" || Px(1).Unit.String() != "px" || MM(1).Unit.String() != "mm" {
		t.Fatalf("unit names mismatch")
	}
}
