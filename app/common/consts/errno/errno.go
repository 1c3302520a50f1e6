package errno

const (
	StatusOK = 10000
)

const (
	TokenEmpty = 40000 + iota
	TokenInvalid
)

const (
	InternalError = 50000 + iota
	InvalidParam
	ConversationClosed
	ConversationNotFound
	ExtractionUnavailable
	CatalogUnavailable
	ApparelNotFound
)
