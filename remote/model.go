package remote

// documentPayload is the wire form of a document.
type documentPayload struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type listResponse struct {
	Documents []documentPayload `json:"documents"`
}

type insertResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}
