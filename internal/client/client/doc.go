// Package client talks to the PhoneAuth JSON API over HTTP.
//
// HTTPClient implements Client. Transport failures wrap ErrUnavailable;
// error answers come back as *APIError, which unwraps to ErrUnauthorized,
// ErrNotFound or ErrConflict for 401, 404 and 409.
package client
