// Package catalog provides the static era and visual filter tables used by
// the time booth. Both tables are immutable and keyed by identifier.
package catalog

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed eras.yaml
var erasYAML []byte

// Era is a selectable historical or fictional theme. PromptFragment is the
// scene description spliced into the generation instruction.
type Era struct {
	ID             string `yaml:"id" json:"id"`
	Label          string `yaml:"label" json:"label"`
	Icon           string `yaml:"icon" json:"icon"`
	PromptFragment string `yaml:"prompt" json:"-"`
}

var eras []Era

func init() {
	var doc struct {
		Eras []Era `yaml:"eras"`
	}
	if err := yaml.Unmarshal(erasYAML, &doc); err != nil {
		// Embedded file, so this can only happen on a broken build.
		panic("failed to unmarshal embedded eras.yaml: " + err.Error())
	}
	eras = doc.Eras
}

// Eras returns all eras in display order.
func Eras() []Era {
	out := make([]Era, len(eras))
	copy(out, eras)
	return out
}

// EraByID looks up an era by identifier.
func EraByID(id string) (Era, bool) {
	for _, e := range eras {
		if e.ID == id {
			return e, true
		}
	}
	return Era{}, false
}
