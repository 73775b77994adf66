package granola

import (
	"crypto/subtle"
	"fmt"
	"net/http"
)

// CSRFTokensNotFoundError signals that a request requiring double-submit
// protection arrived without both the expected header and the expected
// cookie. It is terminal for the request, maps to HTTP 401, and carries
// the two credential names for the response message only; nothing is
// re-validated here.
type CSRFTokensNotFoundError struct {
	HeaderName string
	CookieName string
}

func (e *CSRFTokensNotFoundError) Error() string {
	return fmt.Sprintf("expected both header %q and cookie %q to be present", e.HeaderName, e.CookieName)
}

func (e *CSRFTokensNotFoundError) Unwrap() error {
	return ErrCSRFTokensNotFound
}

// HTTPStatus returns 401: a missing token pair is a client input fault.
func (e *CSRFTokensNotFoundError) HTTPStatus() int {
	return http.StatusUnauthorized
}

// TokensMatch compares two CSRF tokens in constant time.
func TokensMatch(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// RequireDoubleSubmit inspects r for the double-submit token pair. It
// returns a *CSRFTokensNotFoundError unless both the header and the cookie
// are present, and a 401 StatusError wrapping ErrCSRFTokenMismatch when
// both are present but differ. A nil return means the pair is complete and
// matching.
func RequireDoubleSubmit(r *http.Request, headerName, cookieName string) error {
	header := r.Header.Get(headerName)
	cookie, err := r.Cookie(cookieName)

	if header == "" || err != nil || cookie.Value == "" {
		emitCSRFRejected(r.Context(), headerName, cookieName)
		return &CSRFTokensNotFoundError{HeaderName: headerName, CookieName: cookieName}
	}

	if !TokensMatch(header, cookie.Value) {
		emitCSRFRejected(r.Context(), headerName, cookieName)
		return &StatusError{
			Status:  http.StatusUnauthorized,
			Message: fmt.Sprintf("header %q and cookie %q do not match", headerName, cookieName),
			Err:     ErrCSRFTokenMismatch,
		}
	}

	return nil
}
