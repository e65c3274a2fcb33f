package protocol

// Protocol methods. The set is closed: the router rejects registration of any
// method outside it, and the processor rejects requests for unknown methods
// before routing.
const (
	MethodInitialize    = "initialize"
	MethodPing          = "ping"
	MethodListTools     = "tools/list"
	MethodCallTool      = "tools/call"
	MethodListResources = "resources/list"
	MethodReadResource  = "resources/read"
)

// methodOrder fixes the enumeration order for Methods().
var methodOrder = []string{
	MethodInitialize,
	MethodPing,
	MethodListTools,
	MethodCallTool,
	MethodListResources,
	MethodReadResource,
}

var knownMethods = func() map[string]struct{} {
	m := make(map[string]struct{}, len(methodOrder))
	for _, name := range methodOrder {
		m[name] = struct{}{}
	}
	return m
}()

// KnownMethod reports whether name is in the closed protocol method set.
func KnownMethod(name string) bool {
	_, ok := knownMethods[name]
	return ok
}

// Methods returns the closed protocol method set in its canonical order.
func Methods() []string {
	out := make([]string, len(methodOrder))
	copy(out, methodOrder)
	return out
}
