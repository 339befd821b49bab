package models

// APIResponse is the JSON envelope returned by the /api endpoints.
type APIResponse struct {
	Status  string      `json:"status"` // success, error
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SuccessResponse builds a success envelope
func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

// ErrorResponse builds an error envelope
func ErrorResponse(message string, err error) APIResponse {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	return APIResponse{
		Status:  "error",
		Message: message,
		Error:   errMsg,
	}
}

// WSMessage is the envelope pushed over the WebSocket feed.
type WSMessage struct {
	Type string      `json:"type"` // initial_data, data_update
	Data interface{} `json:"data"`
}

// WebSocket message types.
const (
	WSTypeInitial = "initial_data"
	WSTypeUpdate  = "data_update"
)

// LiveSnapshot is the payload carried by both WebSocket message types.
type LiveSnapshot struct {
	Districts []District     `json:"districts"`
	Summary   MetricsSummary `json:"summary"`
}
