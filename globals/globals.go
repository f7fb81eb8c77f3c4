package globals

// Context keys
type ContextKey string

const (
	AdminSessionKey   ContextKey = "adminSession"
	VisitorSessionKey ContextKey = "visitorSession"
	RequestIDKey      ContextKey = "requestId"
)

// VisitorCookie carries the visitor session id.
const VisitorCookie = "heritage_session"
