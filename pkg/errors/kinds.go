package errors

// Kind classifies a failure. The set is closed: every expected failure in the
// gateway is one of these kinds, and each kind maps to exactly one wire code.
type Kind int

const (
	// KindParse indicates the inbound bytes could not be decoded as JSON.
	KindParse Kind = iota
	// KindInvalidRequest indicates the request envelope shape is invalid.
	KindInvalidRequest
	// KindMethodNotFound indicates an unknown protocol method.
	KindMethodNotFound
	// KindInvalidParams indicates method-specific parameters are malformed.
	KindInvalidParams
	// KindInternal indicates an unexpected runtime fault. Detail is withheld
	// from the wire; only the logger sees it.
	KindInternal
	// KindResourceNotFound indicates a referenced resource is absent.
	KindResourceNotFound
	// KindToolNotFound indicates a referenced tool is absent.
	KindToolNotFound
	// KindPermissionDenied indicates the operation is disallowed.
	KindPermissionDenied
	// KindRateLimited indicates throttling was triggered.
	KindRateLimited
	// KindValidation indicates schema validation failed; the error carries
	// field-level violations as structured data.
	KindValidation
)

// Wire codes. JSON-RPC 2.0 reserved codes for the protocol-level kinds,
// -320xx for the domain-specific ones.
const (
	CodeParseError       int = -32700
	CodeInvalidRequest   int = -32600
	CodeMethodNotFound   int = -32601
	CodeInvalidParams    int = -32602
	CodeInternalError    int = -32603
	CodeResourceNotFound int = -32001
	CodeToolNotFound     int = -32002
	CodePermissionDenied int = -32003
	CodeRateLimited      int = -32004
	CodeValidationError  int = -32005
)

var kindCodes = map[Kind]int{
	KindParse:            CodeParseError,
	KindInvalidRequest:   CodeInvalidRequest,
	KindMethodNotFound:   CodeMethodNotFound,
	KindInvalidParams:    CodeInvalidParams,
	KindInternal:         CodeInternalError,
	KindResourceNotFound: CodeResourceNotFound,
	KindToolNotFound:     CodeToolNotFound,
	KindPermissionDenied: CodePermissionDenied,
	KindRateLimited:      CodeRateLimited,
	KindValidation:       CodeValidationError,
}

var kindNames = map[Kind]string{
	KindParse:            "ParseError",
	KindInvalidRequest:   "InvalidRequest",
	KindMethodNotFound:   "MethodNotFound",
	KindInvalidParams:    "InvalidParams",
	KindInternal:         "InternalError",
	KindResourceNotFound: "ResourceNotFound",
	KindToolNotFound:     "ToolNotFound",
	KindPermissionDenied: "PermissionDenied",
	KindRateLimited:      "RateLimited",
	KindValidation:       "ValidationError",
}

// Code returns the wire error code for the kind.
func (k Kind) Code() int {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return CodeInternalError
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UnknownError"
}

// KindForCode resolves a wire code back to its kind. Unknown codes resolve to
// KindInternal.
func KindForCode(code int) (Kind, bool) {
	for kind, c := range kindCodes {
		if c == code {
			return kind, true
		}
	}
	return KindInternal, false
}
