// package auth provides identity and session handling for the web application.
//
// # Accounts
//
// [Service] registers and signs in users. Passwords are stored as bcrypt hashes and must be at least
// six characters long and contain a digit. Banned accounts cannot sign in.
//
// # Sessions
//
// [Sessions] issues HS256 signed tokens whose subject is the user ID and stores them in an HttpOnly cookie.
// Tokens are renewed by [Sessions.Middleware] once half of their lifetime has passed.
// The middleware places the verified user ID in the request context, read back with [UserID].
//
// # Throttling
//
// [LoginLimiter] applies a token bucket per client IP to sign-in attempts.
package auth
