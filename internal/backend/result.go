package backend

// Kind tags the outcome of a single inference call.
type Kind int

const (
	KindSuccess Kind = iota
	KindTimeout
	KindConnectionFailure
	KindRemoteError
)

// Result is the classified outcome of one backend call. Exactly one
// variant is populated per call; callers switch on Kind and must handle
// every case. The client never returns transport errors across this
// boundary in any other form.
type Result struct {
	Kind       Kind
	Text       string // KindSuccess
	StatusCode int    // KindRemoteError
	Detail     string // KindConnectionFailure, KindRemoteError
}

func Success(text string) Result {
	return Result{Kind: KindSuccess, Text: text}
}

func Timeout() Result {
	return Result{Kind: KindTimeout}
}

func ConnectionFailure(detail string) Result {
	return Result{Kind: KindConnectionFailure, Detail: detail}
}

func RemoteError(statusCode int, detail string) Result {
	return Result{Kind: KindRemoteError, StatusCode: statusCode, Detail: detail}
}
