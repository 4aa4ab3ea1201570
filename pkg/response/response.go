package response

// Envelope is the JSON body shape every endpoint returns.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Total   *int64 `json:"total,omitempty"`
}

func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func OKWithTotal(data any, total int64) Envelope {
	return Envelope{Success: true, Data: data, Total: &total}
}

func Message(msg string) Envelope {
	return Envelope{Success: true, Message: msg}
}

func Fail(msg string) Envelope {
	return Envelope{Success: false, Message: msg}
}
