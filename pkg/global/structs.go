package global

// APIResponse is the generic envelope for endpoints without a resource-named
// payload key. Handlers with resource keys (cartData, order, orders,
// product, user, data) build those maps inline.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func SuccessResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

func ErrorResponse(message string) APIResponse {
	return APIResponse{Success: false, Message: message}
}
