package task

import (
	"sort"
	"strings"
)

// QueryOptions configures which tasks Query returns.
type QueryOptions struct {
	// Status filters by exact status. Nil means pending and done tasks.
	Status *Status

	// Priority filters by exact priority.
	Priority *Priority

	// Search keeps tasks whose title or description contains it,
	// ignoring case and surrounding whitespace.
	Search string

	// Newest sorts by creation time descending instead of ascending.
	Newest bool

	// IncludeArchived adds archived tasks when Status is nil.
	IncludeArchived bool
}

// Query returns copies of the matching tasks sorted by creation time.
// Tasks created at the same instant keep their collection order.
func (e *Engine) Query(opts QueryOptions) []Task {
	var collections []Collection
	switch {
	case opts.Status != nil:
		collections = []Collection{opts.Status.Collection()}
	case opts.IncludeArchived:
		collections = []Collection{Active, Finished, Archived}
	default:
		collections = []Collection{Active, Finished}
	}

	search := strings.ToLower(strings.TrimSpace(opts.Search))

	var result []Task
	for _, c := range collections {
		for _, t := range e.store.collections[c] {
			if opts.Status != nil && t.Status != *opts.Status {
				continue
			}
			if opts.Priority != nil && t.Priority != *opts.Priority {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(t.Title), search) &&
				!strings.Contains(strings.ToLower(t.Description), search) {
				continue
			}
			result = append(result, cloneTask(t))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if opts.Newest {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result
}

// Stats summarizes the collections.
type Stats struct {
	// Total is the number of active tasks.
	Total int `json:"total"`

	// Pending is the number of active tasks not yet done.
	Pending int `json:"pending"`

	// Done is the number of finished tasks.
	Done int `json:"done"`

	// HighPriorityPending is the number of active high-priority tasks.
	HighPriorityPending int `json:"high_priority_pending"`

	// Archived is the number of archived tasks.
	Archived int `json:"archived"`
}

// Stats counts tasks per collection.
func (e *Engine) Stats() Stats {
	stats := Stats{
		Total:    e.store.Len(Active),
		Done:     e.store.Len(Finished),
		Archived: e.store.Len(Archived),
	}
	for _, t := range e.store.collections[Active] {
		if t.Status == StatusDone {
			continue
		}
		stats.Pending++
		if t.Priority == PriorityHigh {
			stats.HighPriorityPending++
		}
	}
	return stats
}
