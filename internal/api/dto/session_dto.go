package dto

// SessionSetRequest stores a key/value pair in the session.
type SessionSetRequest struct {
	Key   *string `json:"key"`
	Value *string `json:"value"`
}

// SessionExpiryRequest sets the session lifetime in seconds. Zero means
// "until the client disconnects".
type SessionExpiryRequest struct {
	Seconds *int `json:"seconds"`
}
