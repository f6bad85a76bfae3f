package schemas

import "context"

// Oracle is the language-model text-completion collaborator. Implementations
// wrap a single underlying inference session that is NOT safe for concurrent
// invocation; callers must serialize access (see oracle.Gate). A completion
// is a single attempt: implementations do not retry on failure.
type Oracle interface {
	// Complete produces a text completion for the given request. It returns
	// a ProviderError (wrapped) on transport or API failure.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Close releases any resources held by the oracle client.
	Close() error
}

// SearchProvider returns relevance-ranked result records for a query. Errors
// are recovered by the aggregator, which substitutes an empty batch for the
// failing category.
type SearchProvider interface {
	// TextSearch performs a general web search.
	TextSearch(ctx context.Context, keywords string, maxResults int) ([]SearchResult, error)
	// NewsSearch performs a news-vertical search.
	NewsSearch(ctx context.Context, keywords string, maxResults int) ([]SearchResult, error)
}

// LanguageDetector classifies the language of a text. It is used by the chat
// path to validate that the oracle answered in the requested language.
type LanguageDetector interface {
	// Detect returns the ISO 639-1 code of the dominant language, or a
	// DetectionError when the input is too short or ambiguous to classify.
	Detect(text string) (string, error)
}
