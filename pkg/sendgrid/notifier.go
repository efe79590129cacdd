package sendgrid

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MaximoGamba/DemoEcommers/internal/config"
	"github.com/MaximoGamba/DemoEcommers/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Recipient resolves the email address an order confirmation goes to. The
// session manager implements it from the logged-in user.
type Recipient interface {
	Email() string
}

// Notifier sends the order confirmation email through SendGrid. It satisfies
// checkout.Notifier.
type Notifier struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	recipient Recipient
	logger    *slog.Logger
}

func NewNotifier(cfg *config.SendGrid, recipient Recipient, logger *slog.Logger) *Notifier {
	return &Notifier{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		recipient: recipient,
		logger:    logger,
	}
}

// OrderPlaced emails the confirmation. Without a known recipient there is
// nothing to send and that is not an error.
func (n *Notifier) OrderPlaced(ctx context.Context, order *models.Order) error {
	to := n.recipient.Email()
	if to == "" {
		n.logger.Debug("no recipient email, skipping order confirmation",
			slog.String("order_number", order.OrderNumber),
		)

		return nil
	}

	from := mail.NewEmail(n.fromName, n.fromEmail)

	message := mail.NewV3Mail()
	message.SetFrom(from)

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", to))
	personalization.Subject = fmt.Sprintf("Confirmación de pedido %s", order.OrderNumber)
	message.AddPersonalizations(personalization)

	message.AddContent(mail.NewContent("text/plain", plainBody(order)))

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}

func plainBody(order *models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "¡Gracias por tu compra!\n\n")
	fmt.Fprintf(&b, "Pedido: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Estado: %s\n", order.Status)
	fmt.Fprintf(&b, "Medio de pago: %s\n\n", order.PaymentMethod.Label())

	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %dx %s (%s) - $%s\n", item.Quantity, item.ProductName, item.SizeName, item.Subtotal.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nSubtotal: $%s\n", order.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Envío: $%s\n", order.ShippingCost.StringFixed(2))

	if !order.Discount.IsZero() {
		fmt.Fprintf(&b, "Descuento: -$%s\n", order.Discount.StringFixed(2))
	}

	fmt.Fprintf(&b, "Total: $%s\n", order.Total.StringFixed(2))

	if order.PaymentReference != "" {
		fmt.Fprintf(&b, "\nReferencia de pago: %s\n", order.PaymentReference)
	}

	return b.String()
}
