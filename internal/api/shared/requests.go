package shared

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON decodes the request body into the given struct. Unknown
// fields are tolerated: server-managed fields a client happens to send
// (id, owner, timestamps) are silently ignored rather than rejected.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
