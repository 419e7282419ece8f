package dto

// SuccessResponse represents a standard success response for view endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// DataResponse wraps a view model
type DataResponse struct {
	Data interface{} `json:"data"`
}
