// Package services implements HTTP clients for the catalog backend's REST API.
//
// # APIService
//
// [APIService] is the low-level transport: raw GET/POST/PUT/DELETE plus
// multipart form submission, with bearer-token injection from a
// [TokenSource]. It reports transport failures and response payloads
// separately so callers can distinguish "server unreachable" from
// "request rejected".
//
// # Typed services
//
// [AuthService], [ProfileService], [MovieService] and [UserService] wrap
// APIService with the backend's endpoint contract and decode responses into
// canonical models (field aliasing like id/_id and isAdmin/role is
// normalized by the models package at the decode boundary).
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrServerUnreachable] : transport-level failure, no response
//   - [shared.ErrInvalidCredentials] : login/register rejected
//   - [shared.ErrAPIRequest] : any other non-2xx response
//   - [shared.ErrMovieNotFound], [shared.ErrProfileNotFound] : 404s on lookups
package services
