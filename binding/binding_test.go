package binding

import (
	"testing"

	"github.com/ByLCY/vitae/resume"
)

func TestInterpolate(t *testing.T) {
	t.Parallel()
	data := map[string]any{
		"personalInfo": map[string]any{"fullName": "Ada"},
		"education":    []any{map[string]any{"school": "Home"}},
		"score":        0.5,
	}
	cases := map[string]string{
		"${personalInfo.fullName}":   "Ada",
		"${ education[0].school }":   "Home",
		"${education[3].school}":     "${education[3].school}",
		"${missing}":                 "${missing}",
		"plain":                      "plain",
		"${personalInfo.fullName}!!": "Ada!!",
		"${education.0.school}":      "Home",
		"${education}":               "${education}",
		"${score}":                   "0.5",
		"${education[0}":             "${education[0}",
	}
	for in, want := range cases {
		if got := Interpolate(in, data); got != want {
			t.Fatalf("Interpolate(%q) = %q, want %q", in, got, want)
		}
	}
	if Interpolate("${x}", nil) != "${x}" {
		t.Fatalf("nil 数据应原样返回")
	}
}

func TestExpandMissing(t *testing.T) {
	t.Parallel()
	got := Expand("${a}-${b.c}", map[string]any{"a": "x"}, func(expr string) string { return "<" + expr + ">" })
	if got != "x-<b.c>" {
		t.Fatalf("expand = %q", got)
	}
	if _, ok := Lookup(map[string]any{"a": 1.0}, "a..b"); ok {
		t.Fatalf("空路径段应视为非法")
	}
}

func TestFilename(t *testing.T) {
	t.Parallel()
	r := resume.New("r1")
	r.PersonalInfo.FullName = "Ada  King / Lovelace"
	if got := Filename("", r); got != "Ada_King_Lovelace_Resume.pdf" {
		t.Fatalf("filename = %q", got)
	}
	r.Name = "Backend CV"
	if got := Filename("${name}", r); got != "Backend_CV.pdf" {
		t.Fatalf("filename = %q", got)
	}

	r.PersonalInfo.FullName = ""
	if got := Filename("${personalInfo.fullName}", r); got != "resume.pdf" {
		t.Fatalf("空姓名应回退: %q", got)
	}
	if got := Filename("${nope.path}-cv.pdf", r); got != "cv.pdf" {
		t.Fatalf("未解析占位符应被移除: %q", got)
	}
	if got := Filename("", nil); got != "resume.pdf" {
		t.Fatalf("nil 简历 = %q", got)
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()
	if got := Sanitize(" 张 三/../x\\y "); got != "张_三..xy" {
		t.Fatalf("sanitize = %q", got)
	}
}
