package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "stockwatch_session"

// NoticeCookieName carries a one-shot user notice across a redirect.
const NoticeCookieName = "stockwatch_notice"

// RequestIDHeaderName is echoed back on every HTTP response.
const RequestIDHeaderName = "X-Request-Id"
