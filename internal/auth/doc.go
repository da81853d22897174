// Package auth provides identity verification and role gating for stashd.
//
// Requests carry an HS256-signed bearer token whose "sub" claim names the
// account. Middleware verifies the signature and expiry, resolves the account
// from the store, and attaches an AuthContext (the principal: account ID plus
// role) to the request context via WithAuth/FromContext. Privileged routes
// additionally pass through RequireAdmin.
//
// The role recorded on the account, not any token claim, decides
// authorization. Both middlewares short-circuit before any repository access,
// so a rejected request has no side effects.
package auth
