package contract

const CodeSuccess = "SUCCESS"

// Response is the body of every JSON endpoint, failures included.
type Response struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

func Success(message string, result any) Response {
	return Response{OK: true, Code: CodeSuccess, Message: message, Result: result}
}

func Failure(code, message string) Response {
	return Response{OK: false, Code: code, Message: message}
}
