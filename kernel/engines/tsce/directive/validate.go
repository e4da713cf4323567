package directive

import (
	"regexp"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/crypto/verifier"
	"github.com/tethys/tethyscore/lib/utils"
)

const (
	intLength     = 17
	maxInt        = 9007199254740991
	minInt        = -9007199254740991
	tinyTextLen   = 255
	textLen       = 65535
	mediumTextLen = 16777215

	validationCacheSize = 256
)

var (
	boolRegex     = regexp.MustCompile(`^([Tt][Rr][Uu][Ee]|[Ff][Aa][Ll][Ss][Ee])$`)
	dateRegex     = regexp.MustCompile(`^[12]\d{3}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	datetimeRegex = regexp.MustCompile(`^(19|20)\d{2}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])T([01]\d|2[0-3]):[0-5]\d:[0-5]\d[+-][01]\d:[0-5]\d$`)
	base64Regex   = regexp.MustCompile(`^(?:[A-Za-z0-9+/]{4})*(?:[A-Za-z0-9+/]{3}=|[A-Za-z0-9+/]{2}==)?$`)
	base58Regex   = regexp.MustCompile(`^[A-HJ-NP-Za-km-z1-9]*$`)
	binRegex      = regexp.MustCompile(`^[01]*$`)
)

// 合约自带的validation正则，编译结果按原串缓存
var validationCache, _ = lru.New(validationCacheSize)

// ValidateValue checks value against the declared kind name and the
// optional whole-match validation regex. Unknown kind names are TEXT.
func ValidateValue(value, typ, validation string) bool {
	kind, ok := def.KindFromName(typ)
	if !ok {
		kind = def.KindTEXT
	}
	if !validKind(value, kind) {
		return false
	}
	if validation == "" {
		return true
	}

	rgx, err := compileValidation(validation)
	if err != nil {
		return false
	}
	return rgx.MatchString(value)
}

func compileValidation(expr string) (*regexp.Regexp, error) {
	if v, ok := validationCache.Get(expr); ok {
		return v.(*regexp.Regexp), nil
	}
	rgx, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, err
	}
	validationCache.Add(expr, rgx)
	return rgx, nil
}

func validKind(value string, kind def.Kind) bool {
	switch kind {
	case def.KindINT:
		v, ok := parseBounded(value)
		return ok && v >= minInt && v <= maxInt
	case def.KindPINT:
		v, ok := parseBounded(value)
		return ok && v >= 1 && v <= maxInt
	case def.KindNINT:
		v, ok := parseBounded(value)
		return ok && v >= minInt && v <= -1
	case def.KindFLOAT:
		_, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil
	case def.KindBOOL:
		return boolRegex.MatchString(value)
	case def.KindTINYTEXT:
		return len(value) <= tinyTextLen
	case def.KindTEXT:
		return len(value) <= textLen
	case def.KindMEDIUMTEXT:
		return len(value) <= mediumTextLen
	case def.KindLONGTEXT:
		return true
	case def.KindDATE:
		return dateRegex.MatchString(value)
	case def.KindDATETIME:
		return datetimeRegex.MatchString(value)
	case def.KindBIN:
		return binRegex.MatchString(value)
	case def.KindDEC:
		return utils.IsDigits(value)
	case def.KindHEX:
		return utils.IsXDigits(value)
	case def.KindBASE58:
		return base58Regex.MatchString(value)
	case def.KindBASE64:
		return base64Regex.MatchString(value)
	case def.KindENUMV:
		return utils.InArray(value, def.EnumVValues...)
	case def.KindENUMGENDER:
		return utils.InArray(value, def.GenderValues...)
	case def.KindENUMALL:
		return true
	case def.KindPEM:
		_, err := verifier.ParseCertificate(value)
		return err == nil
	case def.KindXML:
		_, err := document.Parse(value)
		return err == nil
	case def.KindCONTRACT:
		if _, err := document.Parse(value); err != nil {
			return false
		}
		return strings.HasPrefix(value, "<contract") && strings.HasSuffix(value, "</contract>")
	default:
		return false
	}
}

func parseBounded(value string) (int64, bool) {
	if len(value) > intLength {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
