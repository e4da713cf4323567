package condition

import (
	"strings"

	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/utils"
)

type compareType uint8

const (
	compareNone compareType = iota
	compareEQ
	compareNE
	compareGE
	compareLE
	compareGT
	compareLT
	compareAGE
	compareALE
	compareAGT
	compareALT
)

func compareTypeOf(s string) compareType {
	switch strings.ToUpper(utils.Trim(s)) {
	case "EQ", "=", "==":
		return compareEQ
	case "NE", "!=":
		return compareNE
	case "GE", ">=", "=>":
		return compareGE
	case "LE", "<=", "=<":
		return compareLE
	case "GT", ">":
		return compareGT
	case "LT", "<":
		return compareLT
	case "AGE":
		return compareAGE
	case "ALE":
		return compareALE
	case "AGT":
		return compareAGT
	case "ALT":
		return compareALT
	default:
		return compareNone
	}
}

// <compare src="" ref="" type="" abs=""/>
func evalCompare(node document.Node, dm *datamgr.DataManager) bool {
	src := utils.Trim(node.Attr("src"))
	ref := utils.Trim(node.Attr("ref"))
	if src == "" || ref == "" {
		return false
	}

	srcVal, ok := dm.EvalOpt(src)
	if !ok {
		return false
	}
	refVal, ok := dm.EvalOpt(ref)
	if !ok {
		return false
	}
	return compareValues(srcVal, refVal, node.Attr("type"), node.Attr("abs"))
}

// compareValues: EQ/NE比较字符串，其余按整数比较，解析失败为0
func compareValues(src, ref, typ, abs string) bool {
	ct := compareTypeOf(typ)
	switch ct {
	case compareEQ:
		return src == ref
	case compareNE:
		return src != ref
	case compareNone:
		return false
	}

	s := utils.ParseInt(src)
	r := utils.ParseInt(ref)
	a := utils.ParseInt(utils.Trim(abs))
	diff := s - r
	if diff < 0 {
		diff = -diff
	}

	switch ct {
	case compareGE:
		return s >= r
	case compareLE:
		return s <= r
	case compareGT:
		return s > r
	case compareLT:
		return s < r
	case compareAGE:
		return diff >= a
	case compareALE:
		return diff <= a
	case compareAGT:
		return diff > a
	case compareALT:
		return diff < a
	}
	return false
}
