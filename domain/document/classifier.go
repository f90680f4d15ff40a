package document

import (
	"strings"

	"github.com/mevzuatlab/mevzuat/internal/turkish"
)

// Type represents a normalized document category.
type Type string

// Canonical document categories.
const (
	TypeKanun      Type = "KANUN"
	TypeYonetmelik Type = "YÖNETMELİK"
	TypeTuzuk      Type = "TÜZÜK"
	TypeGenelge    Type = "GENELGE"
	TypeTeblig     Type = "TEBLİĞ"
	TypeKarar      Type = "KARAR"
	TypeDiger      Type = "DİĞER"
)

// typePriority is the classification order. Containment is tested in this
// order so that "Kanun Hükmünde Kararname" classifies as KANUN, not KARAR.
var typePriority = []Type{
	TypeKanun,
	TypeYonetmelik,
	TypeTuzuk,
	TypeGenelge,
	TypeTeblig,
	TypeKarar,
}

// NormalizeType classifies a raw document type or title string into one of
// the canonical categories. Matching is case-insensitive under Turkish casing
// and tolerant of undotted ASCII spellings ("YONETMELIK"). Unmatched or
// empty input maps to DİĞER.
func NormalizeType(raw string) Type {
	normalized := turkish.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return TypeDiger
	}

	folded := turkish.Fold(normalized)
	for _, t := range typePriority {
		if strings.Contains(normalized, string(t)) || strings.Contains(folded, turkish.Fold(string(t))) {
			return t
		}
	}
	return TypeDiger
}
