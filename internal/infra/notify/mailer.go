package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
)

// SMTP経由でメールを送る。
// 送信失敗は呼び出し側でログして握りつぶす（注文処理は止めない）。
type SMTPMailer struct {
	addr       string // host:port
	auth       smtp.Auth
	senderName string
	from       string
}

func NewSMTPMailer(host string, port int, senderName, from, password string) *SMTPMailer {
	return &SMTPMailer{
		addr:       fmt.Sprintf("%s:%d", host, port),
		auth:       smtp.PlainAuth("", from, password, host),
		senderName: senderName,
		from:       from,
	}
}

func (m *SMTPMailer) send(subject, htmlBody, to string) error {
	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", m.senderName, m.from)
	e.To = []string{to}
	e.Subject = subject
	e.HTML = []byte(htmlBody)
	return e.Send(m.addr, m.auth)
}

type orderPlacedData struct {
	Name    string
	OrderID int64
	Total   string
}

type statusUpdateData struct {
	Name    string
	OrderID int64
	Status  string
}

type welcomeData struct {
	Name string
}

type resetData struct {
	ResetURL string
}

func (m *SMTPMailer) SendOrderPlaced(_ context.Context, toEmail, name string, orderID int64, total decimal.Decimal) error {
	body, err := render(orderPlacedTemplate, orderPlacedData{Name: name, OrderID: orderID, Total: total.StringFixed(2)})
	if err != nil {
		return err
	}
	return m.send("ご注文ありがとうございます", body, toEmail)
}

func (m *SMTPMailer) SendOrderStatusUpdate(_ context.Context, toEmail, name string, orderID int64, status string) error {
	body, err := render(statusUpdateTemplate, statusUpdateData{Name: name, OrderID: orderID, Status: status})
	if err != nil {
		return err
	}
	return m.send("ご注文状況が更新されました", body, toEmail)
}

func (m *SMTPMailer) SendWelcome(_ context.Context, toEmail, name string) error {
	body, err := render(welcomeTemplate, welcomeData{Name: name})
	if err != nil {
		return err
	}
	return m.send("登録ありがとうございます", body, toEmail)
}

func (m *SMTPMailer) SendPasswordReset(_ context.Context, toEmail, resetURL string) error {
	body, err := render(resetTemplate, resetData{ResetURL: resetURL})
	if err != nil {
		return err
	}
	return m.send("パスワード再設定", body, toEmail)
}

func render(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var orderPlacedTemplate = template.Must(template.New("orderPlaced").Parse(`
<html><body>
<p>{{.Name}} 様</p>
<p>ご注文（注文番号 {{.OrderID}}）を受け付けました。</p>
<p>合計金額: {{.Total}}</p>
</body></html>`))

var statusUpdateTemplate = template.Must(template.New("statusUpdate").Parse(`
<html><body>
<p>{{.Name}} 様</p>
<p>注文番号 {{.OrderID}} のステータスが「{{.Status}}」に変わりました。</p>
</body></html>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<html><body>
<p>{{.Name}} 様</p>
<p>ご登録ありがとうございます。</p>
</body></html>`))

var resetTemplate = template.Must(template.New("reset").Parse(`
<html><body>
<p>以下のリンクからパスワードを再設定してください（15分間有効）。</p>
<p><a href="{{.ResetURL}}">{{.ResetURL}}</a></p>
</body></html>`))
