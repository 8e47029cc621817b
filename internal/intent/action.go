package intent

// Filter narrows a todo selection by completion state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

func (f Filter) IsValid() bool {
	return f == FilterAll || f == FilterCompleted || f == FilterPending
}

// SortBy names the column a list action sorts on. Empty means the
// default id-ascending order.
type SortBy string

const (
	SortByCreated  SortBy = "created"
	SortByStatus   SortBy = "status"
	SortByPriority SortBy = "priority"
)

type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// Action is one structured operation parsed from a chat message.
// The variant structs below form the closed set of kinds; a message
// may parse into several actions (chaining). Numeric references are
// always local numbers (1-based position in the user's todos ordered
// by ascending id), never storage ids.
type Action interface {
	isAction()
}

// Add creates a single todo. An empty Title is answered with a
// clarification by the executor, never silently dropped.
type Add struct {
	Title       string
	Description string
}

// AddMany creates one todo per item; blank items are skipped.
type AddMany struct {
	Items []string
}

// List shows todos. Limit <= 0 means unlimited. Priority is carried
// through from phrasing but todos have no priority column, so it
// never narrows the result.
type List struct {
	Filter   Filter
	Priority string
	SortBy   SortBy
	SortDir  SortDir
	Limit    int
}

type Count struct {
	Filter Filter
}

type Summary struct{}

// Details shows full lines for specific todos, addressed either by
// explicit local numbers or by a single ordinal reference (negative
// counts from the end). Ordinal zero means unset.
type Details struct {
	LocalNos []int
	Ordinal  int
}

type Search struct {
	Query string
}

// PatchMany updates fields on the addressed todos. Nil pointers leave
// the field untouched; a non-nil empty Description clears it.
type PatchMany struct {
	LocalNos    []int
	Title       *string
	Description *string
	Completed   *bool
}

type CompleteMany struct {
	LocalNos  []int
	Completed bool
}

type ToggleMany struct {
	LocalNos []int
}

type CompleteAll struct {
	Completed bool
}

// StatusByOrdinal flips or sets completion on a todo addressed by
// ordinal reference ("mark the last one done", "toggle the 2nd").
type StatusByOrdinal struct {
	Ordinal   int
	Toggle    bool
	Completed bool
}

type DeleteMany struct {
	LocalNos []int
}

type DeleteByOrdinal struct {
	Ordinal int
}

type DeleteByText struct {
	Query string
}

type DeleteFiltered struct {
	Filter Filter
}

type DeleteAll struct{}

type GroupByStatus struct{}

// Clarify asks the user a question instead of acting.
type Clarify struct {
	Message string
}

// Unknown is the no-rule-matched marker; as a parser's sole result it
// triggers the fallback classifier, and the executor renders it as a
// help message.
type Unknown struct{}

func (Add) isAction()             {}
func (AddMany) isAction()         {}
func (List) isAction()            {}
func (Count) isAction()           {}
func (Summary) isAction()         {}
func (Details) isAction()         {}
func (Search) isAction()          {}
func (PatchMany) isAction()       {}
func (CompleteMany) isAction()    {}
func (ToggleMany) isAction()      {}
func (CompleteAll) isAction()     {}
func (StatusByOrdinal) isAction() {}
func (DeleteMany) isAction()      {}
func (DeleteByOrdinal) isAction() {}
func (DeleteByText) isAction()    {}
func (DeleteFiltered) isAction()  {}
func (DeleteAll) isAction()       {}
func (GroupByStatus) isAction()   {}
func (Clarify) isAction()         {}
func (Unknown) isAction()         {}
