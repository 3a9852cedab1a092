package dto

// Envelope is the response wrapper the frontend unwraps: data payloads ride
// under "data", failures carry a human-readable message.
type Envelope struct {
	Status  string         `json:"status"`
	Data    map[string]any `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
	Token   string         `json:"token,omitempty"`
}

func Success(data map[string]any) Envelope {
	return Envelope{Status: "success", Data: data}
}

func SuccessWithToken(token string, data map[string]any) Envelope {
	return Envelope{Status: "success", Token: token, Data: data}
}

func Fail(message string) Envelope {
	return Envelope{Status: "fail", Message: message}
}

func Error(message string) Envelope {
	return Envelope{Status: "error", Message: message}
}
