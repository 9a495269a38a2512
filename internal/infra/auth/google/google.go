package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Googleから取得したユーザー情報
type UserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleのIDトークンを検証してユーザー情報を返す。
type Verifier struct {
	clientID string
	endpoint string
	client   *http.Client
}

func NewVerifier(clientID string) *Verifier {
	return &Verifier{
		clientID: clientID,
		endpoint: "https://oauth2.googleapis.com/tokeninfo",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// フロントから渡されたIDトークンをtokeninfoエンドポイントで検証
func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*UserInfo, error) {
	url := v.endpoint + "?id_token=" + idToken

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending verification request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("invalid token")
	}

	var tokenInfo struct {
		Aud string `json:"aud"`
		UserInfo
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenInfo); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	//このアプリ向けに発行されたトークンか確認
	if tokenInfo.Aud != v.clientID {
		return nil, errors.New("token was not issued for this application")
	}

	return &tokenInfo.UserInfo, nil
}
