package grammar

import "strings"

// Rhyme is a finals-based rhyme class
type Rhyme string

const (
	RhymeNone Rhyme = ""

	RhymeA   Rhyme = "a"   // 发花
	RhymeO   Rhyme = "o"   // 梭波
	RhymeIe  Rhyme = "ie"  // 乜斜
	RhymeI   Rhyme = "i"   // 一七
	RhymeU   Rhyme = "u"   // 姑苏
	RhymeAi  Rhyme = "ai"  // 怀来
	RhymeEi  Rhyme = "ei"  // 灰堆
	RhymeAo  Rhyme = "ao"  // 遥条
	RhymeOu  Rhyme = "ou"  // 由求
	RhymeAn  Rhyme = "an"  // 言前
	RhymeEn  Rhyme = "en"  // 人辰
	RhymeAng Rhyme = "ang" // 江阳
	RhymeEng Rhyme = "eng" // 中东
	RhymeZhi Rhyme = "zhi" // apical and retroflex finals (zi ci si zhi chi shi ri)
)

const (
	// AnyRhyme marks a template usable on any rhyming line
	AnyRhyme = "*"
	// CompoundSentinel marks a template whose VI slots expand into VP 着 VR
	CompoundSentinel = "E"
)

// AllRhymes lists the closed rhyme enumeration in a stable order
var AllRhymes = []Rhyme{
	RhymeA, RhymeO, RhymeIe, RhymeI, RhymeU, RhymeAi, RhymeEi,
	RhymeAo, RhymeOu, RhymeAn, RhymeEn, RhymeAng, RhymeEng, RhymeZhi,
}

// rhymeVariants maps phonetic spellings onto rhyme classes. Keys are lower-case.
var rhymeVariants = map[string]Rhyme{
	"a": RhymeA, "ia": RhymeA, "ua": RhymeA,
	"o": RhymeO, "e": RhymeO, "uo": RhymeO,
	"ie": RhymeIe, "ue": RhymeIe, "üe": RhymeIe, "ve": RhymeIe,
	"i": RhymeI, "ü": RhymeI, "v": RhymeI, "yu": RhymeI, "er": RhymeI,
	"u": RhymeU,
	"ai": RhymeAi, "uai": RhymeAi,
	"ei": RhymeEi, "ui": RhymeEi, "uei": RhymeEi,
	"ao": RhymeAo, "iao": RhymeAo,
	"ou": RhymeOu, "iu": RhymeOu, "iou": RhymeOu,
	"an": RhymeAn, "ian": RhymeAn, "uan": RhymeAn, "üan": RhymeAn, "van": RhymeAn,
	"en": RhymeEn, "in": RhymeEn, "un": RhymeEn, "uen": RhymeEn, "ün": RhymeEn, "vn": RhymeEn,
	"ang": RhymeAng, "iang": RhymeAng, "uang": RhymeAng,
	"eng": RhymeEng, "ing": RhymeEng, "ong": RhymeEng, "iong": RhymeEng, "ueng": RhymeEng,
	"zhi": RhymeZhi, "zh": RhymeZhi, "z": RhymeZhi, "zi": RhymeZhi, "-i": RhymeZhi,
	"chi": RhymeZhi, "shi": RhymeZhi, "ri": RhymeZhi, "ci": RhymeZhi, "si": RhymeZhi,
}

// NormalizeRhymeScheme maps a spelling variant onto its rhyme class.
// Input is trimmed and case-folded; unknown input yields RhymeNone.
func NormalizeRhymeScheme(s string) Rhyme {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return RhymeNone
	}
	return rhymeVariants[key]
}

// Valid reports whether r is a member of the closed enumeration
func (r Rhyme) Valid() bool {
	for _, known := range AllRhymes {
		if r == known {
			return true
		}
	}
	return false
}

func (r Rhyme) String() string {
	return string(r)
}
