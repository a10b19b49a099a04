package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/demo/audittables/reqctx"
)

// ChangeSet stamps every request with a change-set id so all revision rows
// written while handling it belong to one logical change-set. The id is
// echoed back in the X-Change-Set-Id response header. An optional X-Actor
// header attributes the change to a caller.
func ChangeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New()
		ctx := reqctx.WithChangeSetID(r.Context(), id)

		if actor := r.Header.Get("X-Actor"); actor != "" {
			ctx = reqctx.WithActor(ctx, actor)
		}

		w.Header().Set("X-Change-Set-Id", id.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
