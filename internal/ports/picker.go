package ports

// Searcher is anything that answers a query with ranked results.
type Searcher interface {
	Search(query string) ([]Result, error)
}

// Key is an input event of the interactive picker, decoupled from the
// terminal library.
type Key int

const (
	KeyRune Key = iota
	KeyBackspace
	KeyUp
	KeyDown
	KeyEnter
	KeyCancel
)

// Outcome tells the terminal loop whether to keep going.
type Outcome int

const (
	Continue Outcome = iota
	Selected
	Cancelled
)

// PickerView is the state the terminal renders.
type PickerView struct {
	Input    string
	Results  []Result
	Selected int    // -1 when there are no results
	Status   string // last search error, if any
}
