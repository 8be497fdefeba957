package api

import (
	"encoding/json"
	"errors"

	"github.com/atinyakov/BillboardWatch/internal/models"
)

// opError collapses a client failure to a plain error for the UI
// boundary. The server's own message wins when one was supplied;
// transport and local failures keep their already user-readable
// message; everything else falls back to the operation-specific text.
// The returned message is never empty.
func opError(err error, fallback string) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == 0 {
			return errors.New(apiErr.Message)
		}
		if msg := apiErr.ServerMessage(); msg != "" {
			return errors.New(msg)
		}
	}
	return errors.New(fallback)
}

// decodeEnvelope parses a success response body. A body that does not
// parse is reported with the operation fallback message.
func decodeEnvelope(resp *Response, fallback string) (*models.Envelope, error) {
	var env models.Envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, errors.New(fallback)
	}
	return &env, nil
}

// decodeData parses the envelope's data payload into out.
func decodeData(env *models.Envelope, out any, fallback string) error {
	if len(env.Data) == 0 {
		return errors.New(fallback)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.New(fallback)
	}
	return nil
}
