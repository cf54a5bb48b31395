package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
)

const (
	kakaoAuthURL    = "https://kauth.kakao.com/oauth/authorize"
	kakaoTokenURL   = "https://kauth.kakao.com/oauth/token"
	kakaoProfileURL = "https://kapi.kakao.com/v2/user/me"
)

type KakaoConfig struct {
	ClientID    string
	RedirectURL string
	ProfileURL  string
	Config      *oauth2.Config
}

// KakaoUserInfo is the subset of the /v2/user/me payload we consume.
type KakaoUserInfo struct {
	ID         int64 `json:"id"`
	Account    struct {
		Email string `json:"email"`
	} `json:"kakao_account"`
	Properties struct {
		Nickname string `json:"nickname"`
	} `json:"properties"`
}

func NewKakaoConfig() *KakaoConfig {
	clientID := os.Getenv("KAKAO_REST_API_KEY")
	redirectURL := os.Getenv("KAKAO_REDIRECT_URL")

	tokenURL := os.Getenv("KAKAO_TOKEN_URL")
	if tokenURL == "" {
		tokenURL = kakaoTokenURL
	}
	profileURL := os.Getenv("KAKAO_PROFILE_URL")
	if profileURL == "" {
		profileURL = kakaoProfileURL
	}

	return &KakaoConfig{
		ClientID:    clientID,
		RedirectURL: redirectURL,
		ProfileURL:  profileURL,
		Config: &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: redirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   kakaoAuthURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
	}
}

func (k *KakaoConfig) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return k.Config.Exchange(ctx, code)
}

func (k *KakaoConfig) GetUserInfo(accessToken string) (*KakaoUserInfo, error) {
	req, err := http.NewRequest(http.MethodGet, k.ProfileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("kakao profile request returned status %d", resp.StatusCode)
	}

	var userInfo KakaoUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %v", err)
	}

	if userInfo.Account.Email == "" {
		return nil, fmt.Errorf("kakao account has no email")
	}

	return &userInfo, nil
}
