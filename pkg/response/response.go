package response

import "github.com/gin-gonic/gin"

// Function endpoints return their payload as the body and failures as
// {"error": "..."} with a matching HTTP status; the client shows the message.

type ErrorBody struct {
	Error string `json:"error"`
}

// AbortWithError writes an error body and stops the handler chain.
func AbortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: err.Error()})
}

// Admin endpoints use the envelope below and always answer 200.
type APIResponseCode int

const (
	APIResponseCodeOK         APIResponseCode = 0
	APIResponseCodeBadRequest APIResponseCode = 40000
	APIResponseCodeError      APIResponseCode = 50000
)

var codeToMsg = map[APIResponseCode]string{
	APIResponseCodeOK:         "ok",
	APIResponseCodeBadRequest: "bad request",
	APIResponseCodeError:      "internal error",
}

// APIResponse is the generic response envelope used by admin APIs.
// Use OKT / ErrorT helpers to construct instances.
type APIResponse[T any] struct {
	Code    APIResponseCode `json:"code"`
	Message string          `json:"message"`
	Data    T               `json:"data"`
}

// OKT returns a successful response with data.
func OKT[T any](data T) *APIResponse[T] {
	return &APIResponse[T]{Code: APIResponseCodeOK, Message: codeToMsg[APIResponseCodeOK], Data: data}
}

// ErrorT returns an error response with message and optional data.
func ErrorT[T any](code APIResponseCode, data T) *APIResponse[T] {
	return &APIResponse[T]{Code: code, Message: codeToMsg[code], Data: data}
}
