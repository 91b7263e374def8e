package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/aussiebroadwan/otpauth/pkg/slogx"
)

// Recover turns a panic in a downstream handler into the generic error
// envelope. http.ErrAbortHandler is re-panicked so net/http can handle it.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				slogx.FromContext(r.Context()).Error("panic recovered",
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				WriteError(w, MsgInternalError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
