// Package token issues and checks the session tokens handed out by the APIC
// simulator's aaaLogin endpoint.
//
// Tokens come from crypto/rand and are never kept in plaintext. The issuer
// stores an HMAC-SHA256 hash of each token together with its owner and
// expiry, and compares hashes in constant time:
//
//	issuer := token.NewIssuer(secret, 10*time.Minute)
//	tok, err := issuer.Issue("admin")
//	...
//	user, err := issuer.Check(cookieValue)
//
// The same Hash and Validate helpers are used for the simulator's password
// table, so passwords are not held in memory either.
package token
