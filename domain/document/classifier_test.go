package document

import "testing"

func TestNormalizeType(t *testing.T) {
	cases := []struct {
		in   string
		want Type
	}{
		{"5237 Sayılı Türk Ceza Kanunu", TypeKanun},
		{"Bazı Yönetmelik", TypeYonetmelik},
		{"Genelge (2024/5)", TypeGenelge},
		{"Rastgele Metin", TypeDiger},
		{"tüzük", TypeTuzuk},
		{"Vergi Usulü Hakkında Tebliğ", TypeTeblig},
		{"Anayasa Mahkemesi Kararı", TypeKarar},
		{"Kanun Hükmünde Kararname", TypeKanun},
		{"YONETMELIK", TypeYonetmelik},
		{"", TypeDiger},
		{"   ", TypeDiger},
	}

	for _, tc := range cases {
		if got := NormalizeType(tc.in); got != tc.want {
			t.Errorf("NormalizeType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
