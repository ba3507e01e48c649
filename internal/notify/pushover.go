package notify

import (
	"fmt"

	"github.com/gregdel/pushover"
	"github.com/sirupsen/logrus"
)

const (
	PriorityNormal = 0
	PriorityHigh   = 1
)

type Notifier struct {
	app       *pushover.Pushover
	recipient *pushover.Recipient
	logger    *logrus.Logger
}

func NewNotifier(token, userKey string, logger *logrus.Logger) *Notifier {
	return &Notifier{
		app:       pushover.New(token),
		recipient: pushover.NewRecipient(userKey),
		logger:    logger,
	}
}

func (n *Notifier) Send(title, message string) error {
	return n.SendWithPriority(title, message, PriorityNormal)
}

func (n *Notifier) SendWithPriority(title, message string, priority int) error {
	msg := pushover.NewMessageWithTitle(message, title)
	msg.Priority = priority

	resp, err := n.app.SendMessage(msg, n.recipient)
	if err != nil {
		return fmt.Errorf("sending pushover notification: %w", err)
	}

	n.logger.WithFields(logrus.Fields{
		"title":      title,
		"status":     resp.Status,
		"request_id": resp.ID,
	}).Debug("notification sent")

	return nil
}

// SendArrivalAlert notifies that a watched route is about to arrive at
// the stop.
func (n *Notifier) SendArrivalAlert(route, stop string, minutes int, formattedTime string) error {
	title := "Arrival Alert"
	var body string
	switch minutes {
	case 0:
		body = fmt.Sprintf("Route %s is arriving at %s now (%s)", route, stop, formattedTime)
	case 1:
		body = fmt.Sprintf("Route %s arrives at %s in 1 minute (%s)", route, stop, formattedTime)
	default:
		body = fmt.Sprintf("Route %s arrives at %s in %d minutes (%s)", route, stop, minutes, formattedTime)
	}
	return n.SendWithPriority(title, body, PriorityHigh)
}
