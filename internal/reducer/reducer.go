// Package reducer is the local task-list state machine kept from the first
// version of the quick-list screen: a pure transition function over an
// explicit state, independent of any UI binding or server data.
package reducer

type Filter string

const (
	FilterAll       Filter = "ALL"
	FilterActive    Filter = "ACTIVE"
	FilterCompleted Filter = "COMPLETED"
)

type Item struct {
	ID    int64
	Label string
	Done  bool
}

type State struct {
	Items  []Item
	NextID int64
	Filter Filter
}

func Initial() State {
	return State{NextID: 1, Filter: FilterAll}
}

type Action interface{ isAction() }

type SetItems struct{ Items []Item }
type Add struct{ Label string }
type Delete struct{ ID int64 }
type Check struct{ ID int64 }
type SetFilter struct{ Filter Filter }
type ClearCompleted struct{}

func (SetItems) isAction()       {}
func (Add) isAction()            {}
func (Delete) isAction()         {}
func (Check) isAction()          {}
func (SetFilter) isAction()      {}
func (ClearCompleted) isAction() {}

// Apply returns the next state; the input state is never mutated.
func Apply(state State, action Action) State {
	switch a := action.(type) {
	case SetItems:
		next := state
		next.Items = append([]Item(nil), a.Items...)
		next.NextID = maxID(next.Items) + 1
		return next

	case Add:
		next := state
		next.Items = append(append([]Item(nil), state.Items...), Item{ID: state.NextID, Label: a.Label})
		next.NextID = state.NextID + 1
		return next

	case Delete:
		next := state
		next.Items = make([]Item, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID != a.ID {
				next.Items = append(next.Items, item)
			}
		}
		return next

	case Check:
		next := state
		next.Items = make([]Item, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID == a.ID {
				item.Done = !item.Done
			}
			next.Items = append(next.Items, item)
		}
		return next

	case SetFilter:
		next := state
		next.Filter = a.Filter
		return next

	case ClearCompleted:
		next := state
		next.Items = make([]Item, 0, len(state.Items))
		for _, item := range state.Items {
			if !item.Done {
				next.Items = append(next.Items, item)
			}
		}
		return next

	default:
		return state
	}
}

// Visible applies the state's filter to its items.
func Visible(state State) []Item {
	result := make([]Item, 0, len(state.Items))
	for _, item := range state.Items {
		switch state.Filter {
		case FilterActive:
			if item.Done {
				continue
			}
		case FilterCompleted:
			if !item.Done {
				continue
			}
		}
		result = append(result, item)
	}
	return result
}

func maxID(items []Item) int64 {
	var max int64
	for _, item := range items {
		if item.ID > max {
			max = item.ID
		}
	}
	return max
}
