package common

// SessionCookieName is the cookie that carries the signed session token
// between the browser (or CLI) and the server.
const SessionCookieName = "token"
