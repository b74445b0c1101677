package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/josamcode/last-backend-ecommerce/internal/domain"
)

var orderConfirmationTmpl = template.Must(template.New("orderConfirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: 'Segoe UI', Tahoma, sans-serif; background-color: #f9fafb; color: #333;">
  <div style="max-width: 700px; margin: 40px auto; background: #ffffff; border-radius: 10px;">
    <div style="background-color: #1e3a8a; color: white; text-align: center; padding: 30px 20px;">
      <h1 style="margin: 0;">Thank you for your order, {{.Username}}!</h1>
    </div>
    <div style="padding: 30px;">
      <p>Order <strong>#{{.OrderID}}</strong> has been received and is now <strong>{{.State}}</strong>.</p>
      <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
        <tr style="background-color: #f1f5f9;">
          <th style="padding: 12px; text-align: left;">Item</th>
          <th style="padding: 12px; text-align: left;">Qty</th>
          <th style="padding: 12px; text-align: left;">Price</th>
        </tr>
        {{range .Items}}
        <tr>
          <td style="padding: 12px; border-bottom: 1px solid #eee;">{{.Name}}</td>
          <td style="padding: 12px; border-bottom: 1px solid #eee;">{{.Quantity}}</td>
          <td style="padding: 12px; border-bottom: 1px solid #eee;">{{.Price}} EGP</td>
        </tr>
        {{end}}
      </table>
      {{if .CouponCode}}<p>Coupon <strong>{{.CouponCode}}</strong> applied: -{{.Discount}} EGP</p>{{end}}
      <p style="text-align: right; font-size: 18px;"><strong>Total: {{.Total}} EGP</strong></p>
      <p>Shipping to: {{.Address.FullName}}, {{.Address.Street}}, {{.Address.City}} ({{.Address.Phone}})</p>
    </div>
  </div>
</body>
</html>`))

var orderStatusTmpl = template.Must(template.New("orderStatus").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: 'Segoe UI', Tahoma, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 40px auto;">
    <h2>Hi {{.Username}},</h2>
    <p>Your order <strong>#{{.OrderID}}</strong> is now <strong>{{.State}}</strong>.</p>
    <p>Total: {{.Total}} EGP</p>
  </div>
</body>
</html>`))

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: 'Segoe UI', Tahoma, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 40px auto;">
    <h2>Welcome, {{.Username}}!</h2>
    <p>Please confirm your email address to activate your account:</p>
    <p><a href="{{.VerificationURL}}" style="background-color: #1e3a8a; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px;">Verify Email</a></p>
    <p>If the button does not work, open this link: {{.VerificationURL}}</p>
  </div>
</body>
</html>`))

type orderEmailData struct {
	Username   string
	OrderID    int64
	State      domain.OrderState
	Items      []domain.OrderItem
	CouponCode string
	Discount   decimal.Decimal
	Total      decimal.Decimal
	Address    domain.ShippingAddress
}

func OrderConfirmationHTML(user *domain.User, order *domain.Order, discount decimal.Decimal) (string, error) {
	return render(orderConfirmationTmpl, orderEmailData{
		Username:   user.Username,
		OrderID:    order.ID,
		State:      order.State,
		Items:      order.Items,
		CouponCode: order.CouponCode,
		Discount:   discount,
		Total:      order.Total,
		Address:    order.ShippingAddress,
	})
}

func OrderStatusHTML(user *domain.User, order *domain.Order) (string, error) {
	return render(orderStatusTmpl, orderEmailData{
		Username: user.Username,
		OrderID:  order.ID,
		State:    order.State,
		Total:    order.Total,
	})
}

func VerificationHTML(username, verificationURL string) (string, error) {
	return render(verificationTmpl, struct {
		Username        string
		VerificationURL string
	}{Username: username, VerificationURL: verificationURL})
}

// OperatorOrderAlertHTML is the internal notification sent to operators when
// a new order lands.
func OperatorOrderAlertHTML(order *domain.Order) string {
	return fmt.Sprintf(
		"<html><body><p>New order <strong>#%d</strong> from user %d: %s EGP (%d items, %s).</p></body></html>",
		order.ID, order.UserID, order.Total.StringFixed(2), len(order.Items), order.PaymentMethod)
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
