package def

import "strings"

// Kind is the closed set of primitive value kinds used by input options,
// scoped records and signature messages.
type Kind uint8

const (
	KindKEYC       Kind = 0
	KindFIAT       Kind = 1
	KindCOIN       Kind = 2
	KindXCOIN      Kind = 3
	KindMILE       Kind = 4
	KindENUMV      Kind = 10
	KindENUMGENDER Kind = 11
	KindENUMALL    Kind = 12
	KindPEM        Kind = 21
	KindCONTRACT   Kind = 22
	KindXML        Kind = 23
	KindBIN        Kind = 31
	KindDEC        Kind = 32
	KindHEX        Kind = 33
	KindBASE58     Kind = 34
	KindBASE64     Kind = 35
	KindINT        Kind = 50
	KindPINT       Kind = 51
	KindNINT       Kind = 52
	KindFLOAT      Kind = 53
	KindBOOL       Kind = 54
	KindTINYTEXT   Kind = 60
	KindTEXT       Kind = 61
	KindMEDIUMTEXT Kind = 62
	KindLONGTEXT   Kind = 63
	KindDATETIME   Kind = 71
	KindDATE       Kind = 72
	KindMALE       Kind = 90
	KindFEMALE     Kind = 91
	KindOTHER      Kind = 92
	KindNONE       Kind = 255
)

var kindNames = map[string]Kind{
	"KEYC":       KindKEYC,
	"FIAT":       KindFIAT,
	"COIN":       KindCOIN,
	"XCOIN":      KindXCOIN,
	"MILE":       KindMILE,
	"ENUMV":      KindENUMV,
	"ENUMGENDER": KindENUMGENDER,
	"ENUMALL":    KindENUMALL,
	"PEM":        KindPEM,
	"CONTRACT":   KindCONTRACT,
	"XML":        KindXML,
	"BIN":        KindBIN,
	"DEC":        KindDEC,
	"HEX":        KindHEX,
	"BASE58":     KindBASE58,
	"BASE64":     KindBASE64,
	"INT":        KindINT,
	"PINT":       KindPINT,
	"NINT":       KindNINT,
	"FLOAT":      KindFLOAT,
	"BOOL":       KindBOOL,
	"TINYTEXT":   KindTINYTEXT,
	"TEXT":       KindTEXT,
	"MEDIUMTEXT": KindMEDIUMTEXT,
	"LONGTEXT":   KindLONGTEXT,
	"DATETIME":   KindDATETIME,
	"DATE":       KindDATE,
	"MALE":       KindMALE,
	"FEMALE":     KindFEMALE,
	"OTHER":      KindOTHER,
}

// KindFromName looks up a kind by its case-insensitive name.
func KindFromName(name string) (Kind, bool) {
	k, ok := kindNames[strings.ToUpper(name)]
	return k, ok
}

func (k Kind) String() string {
	for n, v := range kindNames {
		if v == k {
			return n
		}
	}
	return "NONE"
}

// 货币类型
var CurrencyKinds = []string{"KEYC", "FIAT", "COIN", "XCOIN", "MILE"}

// ENUMV允许的输入值，不含MILE
var EnumVValues = []string{"KEYC", "FIAT", "COIN", "XCOIN"}

var GenderValues = []string{"MALE", "FEMALE", "OTHER"}

// CurrencyCode returns the wire code of a currency name, unknown names are MILE.
func CurrencyCode(name string) uint8 {
	switch name {
	case "KEYC":
		return uint8(KindKEYC)
	case "FIAT":
		return uint8(KindFIAT)
	case "COIN":
		return uint8(KindCOIN)
	case "XCOIN":
		return uint8(KindXCOIN)
	default:
		return uint8(KindMILE)
	}
}

// GenderCode returns the wire code of a gender name, unknown names are OTHER.
func GenderCode(name string) uint8 {
	switch name {
	case "MALE":
		return uint8(KindMALE)
	case "FEMALE":
		return uint8(KindFEMALE)
	default:
		return uint8(KindOTHER)
	}
}
