package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
	ProviderKakao  = "kakao"
)

// OAuthProvider pairs an oauth2 client config with the user info endpoint
// used to identify the account after the code exchange.
type OAuthProvider struct {
	Name        string
	Config      *oauth2.Config
	UserInfoURL string
	parse       func([]byte) (SocialProfile, error)
}

type OAuthCredentials struct {
	ClientID     string
	ClientSecret string
}

// NewOAuthProvider builds one of the supported providers. The redirect URL is
// derived from baseURL.
func NewOAuthProvider(name string, creds OAuthCredentials, baseURL string) (*OAuthProvider, error) {
	cfg := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  baseURL + "/login/oauth2/code/" + name,
	}

	p := &OAuthProvider{Name: name, Config: cfg}
	switch name {
	case ProviderGoogle:
		cfg.Endpoint = endpoints.Google
		cfg.Scopes = []string{"openid", "profile", "email"}
		p.UserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
		p.parse = parseGoogleProfile
	case ProviderGitHub:
		cfg.Endpoint = endpoints.GitHub
		cfg.Scopes = []string{"read:user", "user:email"}
		p.UserInfoURL = "https://api.github.com/user"
		p.parse = parseGitHubProfile
	case ProviderKakao:
		cfg.Endpoint = endpoints.KaKao
		cfg.Scopes = []string{"profile_nickname", "account_email"}
		p.UserInfoURL = "https://kapi.kakao.com/v2/user/me"
		p.parse = parseKakaoProfile
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, name)
	}
	return p, nil
}

type OAuthService struct {
	providers map[string]*OAuthProvider
	logger    *zap.Logger
}

func NewOAuthService(logger *zap.Logger, providers ...*OAuthProvider) *OAuthService {
	s := &OAuthService{providers: make(map[string]*OAuthProvider), logger: logger}
	for _, p := range providers {
		if p == nil || p.Config.ClientID == "" {
			continue
		}
		s.providers[p.Name] = p
	}
	return s
}

// Providers lists the configured provider names in a stable order.
func (s *OAuthService) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *OAuthService) AuthCodeURL(provider, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", ErrUnsupportedProvider
	}
	return p.Config.AuthCodeURL(state), nil
}

// Exchange trades the callback code for a token and loads the user's profile.
func (s *OAuthService) Exchange(ctx context.Context, provider, code string) (SocialProfile, error) {
	p, ok := s.providers[provider]
	if !ok {
		return SocialProfile{}, ErrUnsupportedProvider
	}

	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn("OAuthService.Exchange: code exchange failed", zap.String("provider", provider), zap.Error(err))
		return SocialProfile{}, fmt.Errorf("oauth code exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return SocialProfile{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Config.Client(ctx, token).Do(req)
	if err != nil {
		return SocialProfile{}, fmt.Errorf("failed to fetch %s user info: %w", provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SocialProfile{}, fmt.Errorf("%s user info returned status %d", provider, resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return SocialProfile{}, fmt.Errorf("failed to decode %s user info: %w", provider, err)
	}

	profile, err := p.parse(raw)
	if err != nil {
		return SocialProfile{}, err
	}
	profile.Provider = provider
	if profile.Subject == "" {
		return SocialProfile{}, fmt.Errorf("%s user info has no subject", provider)
	}
	return profile, nil
}

func parseGoogleProfile(body []byte) (SocialProfile, error) {
	var info struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return SocialProfile{}, fmt.Errorf("invalid google profile: %w", err)
	}
	return SocialProfile{Subject: info.Sub, Email: info.Email, Name: info.Name}, nil
}

func parseGitHubProfile(body []byte) (SocialProfile, error) {
	var info struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return SocialProfile{}, fmt.Errorf("invalid github profile: %w", err)
	}
	name := info.Name
	if name == "" {
		name = info.Login
	}
	var subject string
	if info.ID != 0 {
		subject = strconv.FormatInt(info.ID, 10)
	}
	return SocialProfile{Subject: subject, Email: info.Email, Name: name}, nil
}

func parseKakaoProfile(body []byte) (SocialProfile, error) {
	var info struct {
		ID           int64 `json:"id"`
		KakaoAccount struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname string `json:"nickname"`
			} `json:"profile"`
		} `json:"kakao_account"`
		Properties struct {
			Nickname string `json:"nickname"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return SocialProfile{}, fmt.Errorf("invalid kakao profile: %w", err)
	}
	name := info.KakaoAccount.Profile.Nickname
	if name == "" {
		name = info.Properties.Nickname
	}
	var subject string
	if info.ID != 0 {
		subject = strconv.FormatInt(info.ID, 10)
	}
	return SocialProfile{Subject: subject, Email: info.KakaoAccount.Email, Name: name}, nil
}
