package fonts

import (
	"testing"

	"github.com/ByLCY/vitae/tier"
)

func TestEffectiveSubstitutesPremiumForFree(t *testing.T) {
	t.Parallel()
	if got := Effective("playfair", tier.Free); got.ID != DefaultID {
		t.Fatalf("free 用户的付费字体应替换为 %s，得到 %s", DefaultID, got.ID)
	}
	if got := Effective("playfair", tier.Pro); got.ID != "playfair" {
		t.Fatalf("pro 用户应保留付费字体，得到 %s", got.ID)
	}
	if got := Effective("roboto", tier.Free); got.ID != "roboto" {
		t.Fatalf("免费字体不应被替换，得到 %s", got.ID)
	}
	if got := Effective("comic-sans", tier.Pro); got.ID != System.ID {
		t.Fatalf("未知字体应回退到系统字体，得到 %s", got.ID)
	}
}

func TestLoadBuiltinFaces(t *testing.T) {
	t.Parallel()
	for _, f := range []Family{Sans, Serif, Mono} {
		for _, v := range [][2]bool{{false, false}, {true, false}, {false, true}, {true, true}} {
			src := Src(f, v[0], v[1])
			data, err := Load(src)
			if err != nil {
				t.Fatalf("Load(%s): %v", src, err)
			}
			if len(data) == 0 {
				t.Fatalf("Load(%s) 返回空数据", src)
			}
		}
	}
	if _, err := Load("embed:fantasy"); err == nil {
		t.Fatalf("未知字形族应报错")
	}
}

func TestParseFamily(t *testing.T) {
	if ParseFamily("Serif") != Serif || ParseFamily("monospace") != Mono || ParseFamily("") != Sans {
		t.Fatalf("ParseFamily 映射错误")
	}
}
