package condition

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	hex "github.com/tmthrgd/go-hex"

	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/utils"
)

// <signature type="ECDSA">
//   <sig value="$tx.user.sig"/>
//   <pk value="$tx.user.pk" type="ENCODED-PK"/>
//   <text><val value="$0.amount" type="PINT"/>...</text>
// </signature>
func (t *Handler) evalSignature(node document.Node, dm *datamgr.DataManager) bool {
	sigNode := node.FirstChildNamed("sig")
	pkNode := node.FirstChildNamed("pk")
	textNode := node.FirstChildNamed("text")
	if sigNode.IsNil() || pkNode.IsNil() || textNode.IsNil() {
		return false
	}

	sigRef := sigNode.Attr("value")
	if !strings.HasPrefix(sigRef, "$") {
		return false
	}
	sig, ok := dm.Get(sigRef)
	if !ok {
		return false
	}

	pk := pkNode.Attr("value")
	if strings.HasPrefix(pk, "$") {
		if pk, ok = dm.Get(pk); !ok {
			return false
		}
	}
	if pk == "" {
		return false
	}

	msg := BuildMessage(textNode, dm)
	return t.verifier.VerifySignature(node.Attr("type"), sig, pkNode.Attr("type"), pk, msg)
}

// BuildMessage concatenates the typed encodings of the <val> children of text.
// Empty and unresolved values are skipped.
func BuildMessage(text document.Node, dm *datamgr.DataManager) []byte {
	var buf bytes.Buffer
	for _, val := range text.ChildrenNamed("val") {
		value := val.Attr("value")
		if value == "" {
			continue
		}
		if strings.HasPrefix(value, "$") {
			v, ok := dm.Get(value)
			if !ok {
				continue
			}
			value = v
		}
		appendValue(&buf, val.Attr("type"), value)
	}
	return buf.Bytes()
}

func appendValue(buf *bytes.Buffer, typ, data string) {
	kind, ok := def.KindFromName(typ)
	if !ok {
		kind = def.KindNONE
	}

	switch kind {
	case def.KindINT, def.KindPINT, def.KindNINT, def.KindDEC:
		appendDec(buf, utils.ParseInt(data))
	case def.KindFLOAT:
		f, err := strconv.ParseFloat(strings.TrimSpace(data), 32)
		if err != nil {
			return
		}
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(f)))
		buf.Write(b[:])
	case def.KindBOOL:
		buf.WriteByte(boolByte(data))
	case def.KindTINYTEXT, def.KindTEXT, def.KindMEDIUMTEXT, def.KindLONGTEXT:
		buf.WriteString(data)
	case def.KindDATETIME, def.KindDATE:
		appendDec(buf, utils.TimeStrToTimestamp(data))
	case def.KindBIN:
		for i := 0; i+8 <= len(data); i += 8 {
			b, _ := strconv.ParseUint(data[i:i+8], 2, 8)
			buf.WriteByte(byte(b))
		}
	case def.KindHEX:
		if b, err := hex.DecodeString(data); err == nil {
			buf.Write(b)
		}
	case def.KindBASE58:
		buf.Write(base58.Decode(data))
	case def.KindBASE64:
		if b, err := base64.StdEncoding.DecodeString(data); err == nil {
			buf.Write(b)
		}
	case def.KindENUMV:
		appendDec(buf, int64(def.CurrencyCode(data)))
	case def.KindENUMGENDER:
		appendDec(buf, int64(def.GenderCode(data)))
	default:
		// PEM, ENUMALL, CONTRACT, XML不参与签名
	}
}

// 8字节大端
func appendDec(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

func boolByte(data string) byte {
	if data != "" && utils.IsDigits(data) {
		if utils.ParseInt(data) > 0 {
			return 1
		}
		return 0
	}
	if strings.ToLower(data) == "true" {
		return 1
	}
	return 0
}
