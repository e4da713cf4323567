package condition

import (
	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/utils"
)

// EvalTime checks $time (seconds) against <after> and <before>. With both
// present the window is open at both ends.
func EvalTime(node document.Node, dm *datamgr.DataManager) bool {
	now, ok := dm.EvalOpt("$time")
	if !ok {
		return false
	}
	base := utils.ParseInt(now) * 1000

	after := utils.Trim(node.FirstChildNamed("after").Text())
	before := utils.Trim(node.FirstChildNamed("before").Text())

	switch {
	case after == "" && before == "":
		return false
	case before == "":
		return utils.TimeStrToTimestamp(after) < base
	case after == "":
		return utils.TimeStrToTimestamp(before) > base
	default:
		return utils.TimeStrToTimestamp(after) < base && base < utils.TimeStrToTimestamp(before)
	}
}
