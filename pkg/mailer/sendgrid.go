package mailer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"skillify_backend/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// deliverFunc posts a prepared mail and returns the HTTP status.
type deliverFunc func(ctx context.Context, m *sgmail.SGMailV3) (int, error)

type SendGridSender struct {
	from       *sgmail.Email
	subjPrefix string
	deliver    deliverFunc
	cb         *gobreaker.CircuitBreaker[int]
}

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

func NewSendGridSender(key, appName, fromAddress string) *SendGridSender {
	return newSendGridSender(appName, fromAddress, apiDeliver(key, sendgridHost))
}

// apiDeliver posts mail to the v3 send endpoint of host.
func apiDeliver(key, host string) deliverFunc {
	return func(ctx context.Context, m *sgmail.SGMailV3) (int, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		req := sendgrid.GetRequest(key, sendgridEndpoint, host)
		req.Method = http.MethodPost
		req.Body = sgmail.GetRequestBody(m)

		res, err := sendgrid.API(req)
		if err != nil {
			return 0, err
		}
		return res.StatusCode, nil
	}
}

func newSendGridSender(appName, fromAddress string, deliver deliverFunc) *SendGridSender {
	cb := gobreaker.NewCircuitBreaker[int](gobreaker.Settings{
		Name:        "sendgrid",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Log.Warn("Circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &SendGridSender{
		from:       sgmail.NewEmail(appName, fromAddress),
		subjPrefix: "[" + appName + "] ",
		deliver:    deliver,
		cb:         cb,
	}
}

func (s *SendGridSender) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.To.Name, msg.To.Address))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	m := s.prepare(msg)
	_, err := s.cb.Execute(func() (int, error) {
		status, err := s.deliver(ctx, m)
		if err != nil {
			return status, err
		}
		if status >= http.StatusBadRequest {
			return status, fmt.Errorf("sendgrid: unexpected status %d", status)
		}
		return status, nil
	})
	if err != nil {
		logger.Log.Error("Failed to send email", zap.Error(err), zap.String("to", msg.To.Address))
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
