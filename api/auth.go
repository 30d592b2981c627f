/*
auth.go - PIN resolution and session middleware

PURPOSE:
  The authentication boundary: a shared PIN distinguishes two roles.
  The middleware resolves the PIN on every request and attaches an
  explicit ledger.Session to the request context - the engine never
  sees the secret, only the resolved role. No token machinery: the two
  PINs are the whole credential model by design.

HEADERS:
  X-Ledger-Pin       the shared secret
  X-Ledger-Operator  display name of whoever is at the till
  X-Ledger-Shift     e.g. "Mañana" / "Tarde"
*/
package api

import (
	"context"
	"net/http"

	"github.com/hafid/cashbook-engine/ledger"
)

type Auth struct {
	OperatorPIN string
	AdminPIN    string
}

// Resolve maps a PIN onto a role. ok is false for an unknown PIN.
func (a Auth) Resolve(pin string) (ledger.Role, bool) {
	switch pin {
	case "":
		return "", false
	case a.AdminPIN:
		return ledger.RoleAdministrator, true
	case a.OperatorPIN:
		return ledger.RoleOperator, true
	default:
		return "", false
	}
}

type sessionKey struct{}

// RequireSession resolves the PIN headers into a Session and rejects
// requests with an unknown PIN.
func (a Auth) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := a.Resolve(r.Header.Get("X-Ledger-Pin"))
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid PIN"})
			return
		}
		sess := ledger.Session{
			Operator: r.Header.Get("X-Ledger-Operator"),
			Shift:    r.Header.Get("X-Ledger-Shift"),
			Role:     role,
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) ledger.Session {
	sess, _ := r.Context().Value(sessionKey{}).(ledger.Session)
	return sess
}
