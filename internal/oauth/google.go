package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	ggoogle "golang.org/x/oauth2/google"
)

const userinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type GoogleOAuth struct {
	cfg *oauth2.Config
}

func NewGoogle(clientID, clientSecret, redirectURI string) *GoogleOAuth {
	return &GoogleOAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes: []string{
				"openid", "email", "profile",
			},
			Endpoint: ggoogle.Endpoint,
		},
	}
}

// AuthURL builds the provider authorization URL bound to the given state.
func (g *GoogleOAuth) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Profile is the identity fetched from the provider after a successful
// exchange. Subject and Email are required; Name defaults when absent.
type Profile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

type userinfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Exchange trades the authorization code for an access token and fetches the
// identity profile. Every failure is reported as a Failure member; no
// provider payload escapes.
func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (*Profile, Failure) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.ErrorCode != "" {
			return nil, FailureFromProvider(re.ErrorCode)
		}
		return nil, FailTokenExchange
	}
	if tok.AccessToken == "" {
		return nil, FailMissingAccessToken
	}

	res, err := g.cfg.Client(ctx, tok).Get(userinfoURL)
	if err != nil {
		return nil, FailUserinfo
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, FailUserinfo
	}

	var ui userinfo
	if err := json.NewDecoder(res.Body).Decode(&ui); err != nil {
		return nil, FailUserinfo
	}
	if ui.Sub == "" || ui.Email == "" {
		return nil, FailMissingProfile
	}

	name := ui.Name
	if name == "" {
		name = "Google User"
	}
	return &Profile{
		Subject: ui.Sub,
		Email:   strings.ToLower(ui.Email),
		Name:    name,
		Picture: ui.Picture,
	}, FailNone
}
