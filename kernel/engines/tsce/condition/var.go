package condition

import (
	"strings"

	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/def"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/utils"
)

// <var scope="user" id="$user" name="level" ref="3" type="GE"/> resolves the
// named variable and compares it like <compare>.
func evalVar(node document.Node, dm *datamgr.DataManager) bool {
	scope := strings.ToLower(utils.Trim(node.Attr("scope")))
	name := utils.Trim(node.Attr("name"))
	if name == "" || name == datamgr.AllNames {
		return false
	}

	var src string
	switch scope {
	case def.ScopeUser, def.ScopeAuthor, def.ScopeReceiver, def.ScopeContract:
		id := dm.Eval(node.Attr("id"))
		realScope := def.ScopeUser
		if scope == def.ScopeContract {
			realScope = def.ScopeContract
		}
		vars := dm.GetScopeVariables(realScope, id, name)
		if len(vars) == 0 {
			return false
		}
		src = vars[0].Value
	case def.ScopeWorld, def.ScopeChain:
		src = dm.Eval("$" + scope + "." + name)
	default:
		return false
	}

	cmp := document.NewElement("compare", map[string]string{
		"src":  src,
		"ref":  node.Attr("ref"),
		"type": node.Attr("type"),
		"abs":  node.Attr("abs"),
	})
	return evalCompare(cmp, dm)
}
