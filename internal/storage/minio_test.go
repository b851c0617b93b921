package storage

import "testing"

func TestParsePublicEndpoint(t *testing.T) {
	t.Parallel()
	host, secure, err := parsePublicEndpoint("https://cdn.example.com:9443")
	if err != nil || host != "cdn.example.com:9443" || !secure {
		t.Fatalf("got %q %v %v", host, secure, err)
	}
	if _, _, err := parsePublicEndpoint("cdn.example.com"); err == nil {
		t.Fatalf("缺少协议时 host 为空，应报错")
	}
}

func TestContentDisposition(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		// 每个非 ASCII 字符各替换为一个下划线
		"张三_Resume.pdf": `attachment; filename="___Resume.pdf"; filename*=UTF-8''%E5%BC%A0%E4%B8%89_Resume.pdf`,
		`a"b.pdf`:       `attachment; filename="a_b.pdf"; filename*=UTF-8''a%22b.pdf`,
		"cv.pdf":        `attachment; filename="cv.pdf"; filename*=UTF-8''cv.pdf`,
	}
	for in, want := range cases {
		if got := ContentDisposition(in); got != want {
			t.Fatalf("ContentDisposition(%q) = %s", in, got)
		}
	}
}
