package task

import "testing"

func seedQueryEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	seeds := []CreateOptions{
		{Title: "Buy milk", Priority: PriorityLow},
		{Title: "Write report", Description: "Quarterly MILK numbers", Priority: PriorityHigh},
		{Title: "Call mom", Priority: PriorityMedium},
		{Title: "Fix bike", Priority: PriorityHigh},
	}
	for _, opts := range seeds {
		if _, err := env.engine.Create(opts); err != nil {
			t.Fatalf("create %q: %v", opts.Title, err)
		}
	}
	if _, err := env.engine.Complete(2); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := env.engine.Archive(3); err != nil {
		t.Fatalf("archive: %v", err)
	}
	return env
}

func TestQuery(t *testing.T) {
	env := seedQueryEnv(t)
	pending := StatusPending
	done := StatusDone
	archived := StatusArchived
	high := PriorityHigh

	cases := []struct {
		name string
		opts QueryOptions
		want []int
	}{
		{name: "default hides archived", opts: QueryOptions{}, want: []int{1, 2, 4}},
		{name: "newest first", opts: QueryOptions{Newest: true}, want: []int{4, 2, 1}},
		{name: "include archived", opts: QueryOptions{IncludeArchived: true}, want: []int{1, 2, 3, 4}},
		{name: "pending", opts: QueryOptions{Status: &pending}, want: []int{1, 4}},
		{name: "done", opts: QueryOptions{Status: &done}, want: []int{2}},
		{name: "archived", opts: QueryOptions{Status: &archived}, want: []int{3}},
		{name: "high priority", opts: QueryOptions{Priority: &high}, want: []int{2, 4}},
		{name: "pending high", opts: QueryOptions{Status: &pending, Priority: &high}, want: []int{4}},
		{name: "search title and description", opts: QueryOptions{Search: "  Milk "}, want: []int{1, 2}},
		{name: "search archived only when included", opts: QueryOptions{Search: "mom"}, want: []int{}},
		{name: "search archived", opts: QueryOptions{Search: "mom", IncludeArchived: true}, want: []int{3}},
		{name: "no match", opts: QueryOptions{Search: "zebra"}, want: []int{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ids(env.engine.Query(tc.opts)); !equalIDs(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestQuery_ReturnsCopies(t *testing.T) {
	env := seedQueryEnv(t)
	results := env.engine.Query(QueryOptions{})
	results[0].Title = "changed"

	got, _, _ := env.engine.Get(results[0].ID)
	if got.Title == "changed" {
		t.Fatal("expected query results to be copies")
	}
}

func TestStats(t *testing.T) {
	env := seedQueryEnv(t)

	got := env.engine.Stats()
	want := Stats{Total: 2, Pending: 2, Done: 1, HighPriorityPending: 1, Archived: 1}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestStats_Empty(t *testing.T) {
	env := newTestEnv(t)
	if got := env.engine.Stats(); got != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}
}
