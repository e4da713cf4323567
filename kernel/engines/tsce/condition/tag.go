package condition

import (
	"github.com/tethys/tethyscore/kernel/engines/tsce/datamgr"
	"github.com/tethys/tethyscore/kernel/engines/tsce/document"
	"github.com/tethys/tethyscore/lib/utils"
)

// Tag is the policy document attached to a scoped record:
//
//	<tag>
//	  <info><name/><cword/>...</info>
//	  <update>condition</update>
//	</tag>
type Tag struct {
	info   document.Node
	update document.Node
}

func ParseTag(data string) (*Tag, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	return &Tag{
		info:   root.FirstChildNamed("info"),
		update: root.FirstChildNamed("update"),
	}, nil
}

// Eval is true when <update> holds. A tag without <update> never passes.
func (t *Tag) Eval(evaluator Evaluator, dm *datamgr.DataManager) bool {
	if t == nil || t.update.IsNil() {
		return false
	}
	return evaluator.Evaluate(t.update, dm)
}

func (t *Tag) Name() string {
	return utils.Trim(t.info.FirstChildNamed("name").Text())
}

func (t *Tag) Keywords() []string {
	var out []string
	for _, cw := range t.info.ChildrenNamed("cword") {
		out = append(out, utils.Trim(cw.Text()))
	}
	return out
}

// EvalTag parses and evaluates data in one go, a parse failure is false.
func EvalTag(data string, evaluator Evaluator, dm *datamgr.DataManager) bool {
	tag, err := ParseTag(data)
	if err != nil {
		return false
	}
	return tag.Eval(evaluator, dm)
}
