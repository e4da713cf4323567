package condition

import (
	"strconv"
	"strings"

	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/utils"
)

// user/receiver/endorser下的子条件
type secondaryType uint8

const (
	secondaryUnknown secondaryType = iota
	secondaryUser
	secondaryReceiver
	secondaryEndorser
	secondaryIf
	secondaryNif
	secondaryId
	secondaryLocation
	secondaryService
	secondaryGender
	secondaryAge
)

func secondaryTypeOf(name string) secondaryType {
	switch strings.ToLower(name) {
	case "user":
		return secondaryUser
	case "receiver":
		return secondaryReceiver
	case "endorser":
		return secondaryEndorser
	case "if":
		return secondaryIf
	case "nif":
		return secondaryNif
	case "id":
		return secondaryId
	case "location":
		return secondaryLocation
	case "service":
		return secondaryService
	case "gender":
		return secondaryGender
	case "age":
		return secondaryAge
	default:
		return secondaryUnknown
	}
}

// foldSecondary defaults to and when eval-rule is absent.
func foldSecondary(node document.Node, eval func(document.Node) bool) bool {
	orRule := strings.ToLower(node.Attr(AttrEvalRule)) == EvalRuleOr
	result := fold(node, orRule, eval)
	if secondaryTypeOf(node.Name()) == secondaryNif {
		return !result
	}
	return result
}

// evalUser checks the identity bound under key ($user or $receiver).
func evalUser(node document.Node, dm *datamgr.DataManager, key string) bool {
	switch secondaryTypeOf(node.Name()) {
	case secondaryUser, secondaryReceiver, secondaryIf, secondaryNif:
		return foldSecondary(node, func(child document.Node) bool {
			return evalUser(child, dm, key)
		})
	case secondaryId:
		return utils.Trim(node.Text()) == dm.Eval(key)
	case secondaryLocation:
		loc, ok := dm.EvalOpt(key + ".location")
		if !ok {
			return false
		}
		return utils.Trim(node.Attr("country")+" "+node.Attr("state")) == loc
	case secondaryService:
		iscType, ok := dm.EvalOpt(key + ".isc_type")
		if !ok {
			return false
		}
		iscCode, ok := dm.EvalOpt(key + ".isc_code")
		if !ok {
			return false
		}
		return utils.Trim(node.Attr("type")) == iscType && utils.Trim(node.Text()) == iscCode
	case secondaryGender:
		gender, ok := dm.EvalOpt(key + ".gender")
		if !ok {
			return false
		}
		return strings.ToUpper(utils.Trim(node.Text())) == gender
	case secondaryAge:
		return evalAge(node, dm, key)
	default:
		return false
	}
}

// <age after="20" before="65"/>: 年龄按生日的年份加减计算，不按天数
func evalAge(node document.Node, dm *datamgr.DataManager, key string) bool {
	after := utils.Trim(node.Attr("after"))
	before := utils.Trim(node.Attr("before"))
	if after == "" && before == "" {
		return false
	}

	birthStr := dm.Eval(key + ".birthday")
	if birthStr == "" {
		return false
	}
	birthday, ok := utils.ParseDate(birthStr)
	if !ok {
		return false
	}

	now := utils.ParseInt(dm.Eval("$time")) * 1000
	if now == 0 {
		return false
	}
	today := utils.DateFromMillis(now)

	switch {
	case before == "":
		return birthday.AddYears(int(utils.ParseInt(after))).Before(today)
	case after == "":
		return birthday.AddYears(int(utils.ParseInt(before))).After(today)
	default:
		return birthday.AddYears(int(utils.ParseInt(after))).Before(today) &&
			today.Before(birthday.AddYears(int(utils.ParseInt(before))))
	}
}

// evalEndorser matches <id> texts against $tx.endorser[i].id.
func evalEndorser(node document.Node, dm *datamgr.DataManager) bool {
	switch secondaryTypeOf(node.Name()) {
	case secondaryEndorser, secondaryIf, secondaryNif:
		return foldSecondary(node, func(child document.Node) bool {
			return evalEndorser(child, dm)
		})
	case secondaryId:
		id := utils.Trim(node.Text())
		cnt, ok := dm.EvalOpt("$tx.endorser.count")
		if !ok {
			return false
		}
		count := utils.ParseInt(cnt)
		for i := int64(0); i < count; i++ {
			eid, _ := dm.EvalOpt("$tx.endorser[" + strconv.FormatInt(i, 10) + "].id")
			if eid != "" && eid == id {
				return true
			}
		}
		return false
	default:
		return false
	}
}
