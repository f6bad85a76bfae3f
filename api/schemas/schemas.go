package schemas

// Category identifies one search vertical used during an investigation.
type Category string

const (
	// CategoryWeb is the general web search. It is always part of an
	// investigation.
	CategoryWeb Category = "web"
	// CategoryNews is the news vertical, opt-in.
	CategoryNews Category = "news"
	// CategoryLeaked approximates a leak-focused search by suffixing the
	// query with a fixed term. It is not a dedicated breach-database lookup
	// and must never be presented as one.
	CategoryLeaked Category = "leaked"
)

// AllCategories lists every known category in display order.
var AllCategories = []Category{CategoryWeb, CategoryNews, CategoryLeaked}

// SearchResult is one normalized record returned by a search provider.
// Any field may be empty; renderers substitute placeholders.
type SearchResult struct {
	Title string `json:"title"`
	Href  string `json:"href"`
	Body  string `json:"body"`
}

// Batch holds the results of one category in one investigation, along with
// the number of results that were requested. Requested vs len(Results) drives
// the short-result notice.
type Batch struct {
	Category  Category       `json:"category"`
	Results   []SearchResult `json:"results"`
	Requested int            `json:"requested"`
}

// Short reports whether the provider returned fewer results than requested.
func (b Batch) Short() bool { return len(b.Results) < b.Requested }

// FindingSet maps an indicator kind to the unique values matched for it.
// A kind is present only if at least one match was found; callers treat an
// absent key as "nothing found", never as an error.
type FindingSet map[string][]string

// Has reports whether at least one value was found for kind.
func (fs FindingSet) Has(kind string) bool { return len(fs[kind]) > 0 }

// Report is the final artifact of an investigation. It is built fresh per
// request and never persisted.
type Report struct {
	// ID correlates log lines for one investigation.
	ID     string `json:"id"`
	Target string `json:"target"`
	// Notices holds short-result warnings, one per underfilled category.
	Notices []string `json:"notices,omitempty"`
	// Narrative is the model-generated report body.
	Narrative string `json:"narrative,omitempty"`
	// LinkTables maps each searched category to its rendered HTML link table.
	LinkTables map[Category]string `json:"link_tables,omitempty"`
	// Findings are the forensic indicators extracted from the evidence blob.
	Findings FindingSet `json:"findings,omitempty"`
	// Err carries the user-facing failure message when the investigation
	// could not complete. A non-empty Err means the other fields are unset.
	Err string `json:"error,omitempty"`
}

// Failed reports whether the investigation ended in the failure state.
func (r Report) Failed() bool { return r.Err != "" }

// Message is one turn in a completion conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Roles accepted by the oracle.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// CompletionRequest is the fixed request contract of the language-model
// oracle.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stop        []string  `json:"stop,omitempty"`
}

// ChatStyle selects the persona and sampling temperature of the chat path.
type ChatStyle string

const (
	// StyleTechnical asks for detailed, technical answers (temperature 0.7).
	StyleTechnical ChatStyle = "technical"
	// StyleCreative asks for free-form answers (temperature 0.9).
	StyleCreative ChatStyle = "creative"
)
