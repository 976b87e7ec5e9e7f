// Package session owns the client's authentication and profile state machine.
//
// Three cooperating pieces:
//
//   - [Store] : single source of truth for "who is logged in". Manages the
//     token lifecycle (startup verification, login/register, logout) and the
//     normalized account projection.
//   - [ProfileStore] : the authenticated account's profile list and the
//     currently active profile, with an explicit in-flight guard so repeated
//     loads for the same account issue exactly one request.
//   - [Decide] / [Guard] : the pure access-control decision consulted before
//     rendering any protected view.
//
// Durable state (token, account projection, active profile id) is persisted
// through [StateStorage]; only Store writes the token and account, only
// ProfileStore writes the active profile id, and logout clears all of it in
// one call so no intermediate state is observable.
package session
