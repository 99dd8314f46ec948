package locale

import (
	ut "github.com/go-playground/universal-translator"

	"github.com/mrxclay666777/speakyz/core"
)

// NumberFormatter formats numbers the way a locale writes them.
type NumberFormatter struct {
	uni *ut.UniversalTranslator
}

func NewNumberFormatter(uni *ut.UniversalTranslator) *NumberFormatter {
	return &NumberFormatter{uni: uni}
}

// Format renders n with `decimals` digits after the separator, e.g. 10000 -> "10,000" (en), "10 000" (ru).
func (f *NumberFormatter) Format(code string, n float64, decimals uint64) string {
	return core.LocaleTranslator(f.uni, code).FmtNumber(n, decimals)
}
