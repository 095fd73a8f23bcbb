package main

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/models"
)

// assignment gives one receipt item to people. The file is a YAML list:
//
//	- item: Nachos
//	  people: [Alice, Bob, Carol]
//	- item: 1
//	  people: [Bob]
//
// An item is a zero-based index or a name. A name picks the first item with
// that name that has not been assigned yet, so repeated names can be listed
// once per line on the receipt.
type assignment struct {
	Item   itemRef  `yaml:"item"`
	People []string `yaml:"people"`
}

type itemRef struct {
	index int
	name  string
	byIdx bool
}

func (r *itemRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: item must be an index or a name", node.Line)
	}
	if node.ShortTag() == "!!int" {
		idx, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		r.index, r.byIdx = idx, true
		return nil
	}
	r.name = node.Value
	return nil
}

func (r itemRef) String() string {
	if r.byIdx {
		return strconv.Itoa(r.index)
	}
	return strconv.Quote(r.name)
}

func parseAssignments(data []byte) ([]assignment, error) {
	var out []assignment
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("invalid assignments: %w", err)
	}
	return out, nil
}

// buildReceipt resolves item names to indexes and pairs the receipt's items
// with the assignments. Items left out stay unassigned so Finalize reports
// them.
func buildReceipt(receipt *models.Receipt, assignments []assignment) (calculator.Receipt, error) {
	taken := make([]bool, len(receipt.Items))
	byIndex := make([]models.ItemAssignment, len(assignments))

	for i, a := range assignments {
		idx := a.Item.index
		if !a.Item.byIdx {
			idx = -1
			for j, item := range receipt.Items {
				if !taken[j] && item.Name == a.Item.name {
					idx = j
					break
				}
			}
			if idx < 0 {
				return calculator.Receipt{}, &calculator.ValidationError{
					Kind:    calculator.KindMalformedInput,
					Message: fmt.Sprintf("assignment for item %s matches no unassigned item", a.Item),
				}
			}
		}
		if idx >= 0 && idx < len(taken) {
			taken[idx] = true
		}
		byIndex[i] = models.ItemAssignment{ItemIndex: idx, People: a.People}
	}
	return receipt.Assign(byIndex)
}
