package middlewares

const (
	CtxRequestID = "request_id"
	CtxAPIKeyID  = "api_key_id"
)
