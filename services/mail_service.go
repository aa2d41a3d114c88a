package services

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"gopkg.in/gomail.v2"

	"github.com/plutarco/tienda-api/config"
	"github.com/plutarco/tienda-api/models"
)

// MailService sends the transactional mail triggered by order creation.
// Dispatch failures are the caller's to log; they never fail the order.
type MailService interface {
	// SendOrderConfirmation mails the customer a summary of their new order.
	SendOrderConfirmation(order *models.Order) error

	// SendOrderNotification mails the operator address about a new order.
	SendOrderNotification(order *models.Order) error
}

var mailServiceInstance MailService

// InitMailService initializes the SMTP-backed mail service
func InitMailService(cfg *config.Config) MailService {
	mailServiceInstance = &SMTPMailService{cfg: cfg}
	return mailServiceInstance
}

// GetMailService returns the initialized mail service instance
func GetMailService() MailService {
	return mailServiceInstance
}

// SetMailService sets the mail service instance (primarily for testing)
func SetMailService(service MailService) {
	mailServiceInstance = service
}

// SMTPMailService implements MailService over SMTP via gomail
type SMTPMailService struct {
	cfg *config.Config
}

// SendOrderConfirmation mails the customer a summary of their new order
func (s *SMTPMailService) SendOrderConfirmation(order *models.Order) error {
	if !s.cfg.MailEnabled() {
		log.Println("Mail not configured, skipping order confirmation")
		return nil
	}
	if order.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Confirmación de pedido #%d", order.ID)
	return s.send(order.Email, subject, orderMailBody(order))
}

// SendOrderNotification mails the operator address about a new order
func (s *SMTPMailService) SendOrderNotification(order *models.Order) error {
	if !s.cfg.MailEnabled() || s.cfg.OrderNotifyEmail == "" {
		log.Println("Mail not configured, skipping order notification")
		return nil
	}

	subject := fmt.Sprintf("Nuevo pedido #%d de %s", order.ID, order.CustomerName)
	return s.send(s.cfg.OrderNotifyEmail, subject, orderMailBody(order))
}

func (s *SMTPMailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.MailFrom)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.cfg.SMTPHost, s.cfg.SMTPPort, s.cfg.SMTPUser, s.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

func orderMailBody(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pedido #%d\n", order.ID)
	fmt.Fprintf(&b, "Cliente: %s\n", order.CustomerName)
	if order.Phone != "" {
		fmt.Fprintf(&b, "Teléfono: %s\n", order.Phone)
	}
	if order.Address != "" {
		fmt.Fprintf(&b, "Dirección: %s\n", order.Address)
	}
	if order.DeliveryDate != nil {
		fmt.Fprintf(&b, "Día de entrega: %s\n", order.DeliveryDate.Format("2006-01-02"))
	}
	b.WriteString("\nProductos:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  %s x%d ($%.2f)\n", item.Name, item.Quantity, item.UnitPrice)
	}
	fmt.Fprintf(&b, "\nSubtotal: $%.2f\n", order.Subtotal)
	fmt.Fprintf(&b, "Envío: $%.2f\n", order.ShippingCharged)
	fmt.Fprintf(&b, "Total: $%.2f\n", order.Total)
	if order.Comment != "" {
		fmt.Fprintf(&b, "\nComentario: %s\n", order.Comment)
	}
	return b.String()
}

// MockMailService records sent mail for testing assertions
type MockMailService struct {
	mu            sync.Mutex
	Confirmations []*models.Order
	Notifications []*models.Order
	FailWith      error
}

// NewMockMailService creates a new recording mail service
func NewMockMailService() *MockMailService {
	return &MockMailService{}
}

// SetAsMockForTesting installs this mock as the global mail service instance
func (m *MockMailService) SetAsMockForTesting() {
	SetMailService(m)
}

// SendOrderConfirmation records the order instead of sending mail
func (m *MockMailService) SendOrderConfirmation(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.Confirmations = append(m.Confirmations, order)
	return nil
}

// SendOrderNotification records the order instead of sending mail
func (m *MockMailService) SendOrderNotification(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.Notifications = append(m.Notifications, order)
	return nil
}
