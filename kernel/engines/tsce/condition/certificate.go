package condition

import (
	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
)

// <certificate>
//   <pk value="$0.cert"/>
//   <by value="$author.cert"/>
// </certificate>
// by may also carry the issuer PEM as text.
func (t *Handler) evalCertificate(node document.Node, dm *datamgr.DataManager) bool {
	pkNode := node.FirstChildNamed("pk")
	byNode := node.FirstChildNamed("by")
	if pkNode.IsNil() || byNode.IsNil() {
		return false
	}

	pkRef := pkNode.Attr("value")
	if pkRef == "" {
		return false
	}
	cert := dm.Eval(pkRef)
	if cert == "" {
		return false
	}

	var issuer string
	if byRef := byNode.Attr("value"); byRef != "" {
		issuer = dm.Eval(byRef)
	} else {
		issuer = byNode.Text()
	}
	if issuer == "" {
		return false
	}
	return t.verifier.VerifyCertificate(cert, issuer)
}
