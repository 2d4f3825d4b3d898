package middleware

type Response struct {
	Successful bool   `json:"successful"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Error      string `json:"error,omitempty"`
}
