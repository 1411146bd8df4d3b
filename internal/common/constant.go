package common

// SessionCookieName is the default name of the cookie carrying the signed
// session token.
const SessionCookieName = "envmon_session"

// TimestampLayout is the layout used for the human-readable timestamp stored
// with every sensor reading.
const TimestampLayout = "2006-01-02 15:04"
