package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSゲートウェイのREST APIでOTPを送る。
type HTTPSmsSender struct {
	endpoint   string // メッセージ送信エンドポイント
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
}

func NewHTTPSmsSender(endpoint, accountSID, authToken, fromNumber string) *HTTPSmsSender {
	return &HTTPSmsSender{
		endpoint:   endpoint,
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		//外部呼び出しには必ずタイムアウトを付ける
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *HTTPSmsSender) SendOtp(ctx context.Context, phone, code string) error {
	form := url.Values{}
	form.Set("To", phone)
	form.Set("From", s.fromNumber)
	form.Set("Body", fmt.Sprintf("認証コード: %s（5分間有効）", code))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned %d", resp.StatusCode)
	}
	return nil
}
