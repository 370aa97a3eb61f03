package oauth

// Failure is the closed set of ways an authorization attempt can end short of
// a session. It is the only thing allowed to cross the redirect boundary:
// Code() serializes to the ?error= query value, never free-form text.
type Failure int

const (
	FailNone Failure = iota
	FailMissingCodeOrState
	FailInvalidState
	FailNotConfigured
	FailAccessDenied
	FailInvalidGrant
	FailTokenExchange
	FailMissingAccessToken
	FailUserinfo
	FailMissingProfile
	FailUnexpected
)

var failureCodes = map[Failure]string{
	FailMissingCodeOrState: "missing_code_or_state",
	FailInvalidState:       "invalid_state",
	FailNotConfigured:      "server_not_configured",
	FailAccessDenied:       "access_denied",
	FailInvalidGrant:       "invalid_grant",
	FailTokenExchange:      "token_exchange_failed",
	FailMissingAccessToken: "missing_access_token",
	FailUserinfo:           "userinfo_failed",
	FailMissingProfile:     "missing_profile",
	FailUnexpected:         "unexpected",
}

func (f Failure) Code() string {
	if c, ok := failureCodes[f]; ok {
		return c
	}
	return "unexpected"
}

// FailureFromProvider maps an error string returned by the provider (either
// on the callback query or from the token endpoint) onto the closed set.
// Unknown provider codes collapse to the exchange fallback.
func FailureFromProvider(code string) Failure {
	switch code {
	case "access_denied":
		return FailAccessDenied
	case "invalid_grant":
		return FailInvalidGrant
	case "":
		return FailTokenExchange
	default:
		return FailTokenExchange
	}
}
