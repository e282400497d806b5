// Package services sends HealthChain notifications by email.
package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/harentsoaR/healthchain-api/internal/models"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single email.
type Mailer interface {
	Send(msg Message) error
}

// SMTPMailer sends plain-text mail through an authenticated SMTP server.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	if from == "" {
		from = username
	}
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, username, password), from: from}
}

func (m *SMTPMailer) Send(msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// NotificationService sends emails in the background so handlers never wait
// on SMTP. Without a mailer it only logs what would have been sent.
type NotificationService struct {
	mailer Mailer
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewNotificationService(mailer Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{mailer: mailer, logger: logger}
}

// Wait blocks until every queued email has been attempted.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) dispatch(msg Message) {
	if msg.To == "" {
		s.logger.Warn("email not sent: no recipient", zap.String("subject", msg.Subject))
		return
	}
	if s.mailer == nil {
		s.logger.Info("email disabled, skipping", zap.String("to", msg.To), zap.String("subject", msg.Subject))
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.mailer.Send(msg); err != nil {
			s.logger.Error("failed to send email", zap.String("to", msg.To), zap.Error(err))
			return
		}
		s.logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	}()
}

func (s *NotificationService) SendWelcome(email string) {
	s.dispatch(Message{To: email, Subject: "Welcome to HealthChain", Body: "Thank you for joining HealthChain!"})
}

func (s *NotificationService) SendDoctorWelcome(email string) {
	s.dispatch(Message{
		To:      email,
		Subject: "Welcome to HealthChain as a Doctor",
		Body:    "Thank you for joining HealthChain as a doctor!",
	})
}

// SendAppointmentRequest tells a doctor about a new pending appointment.
func (s *NotificationService) SendAppointmentRequest(doctor *models.Doctor, apt *models.Appointment) {
	name := doctor.Name
	if name == "" {
		name, _, _ = strings.Cut(doctor.Email, "@")
	}
	body := fmt.Sprintf("Dear Dr. %s,\n\n"+
		"You have a new appointment request:\n"+
		"Patient Name: %s\n"+
		"Patient Email: %s\n"+
		"Requested At: %s\n"+
		"Appointment ID: %s\n\n"+
		"Please log in to your dashboard to accept or reject this appointment.\n\n"+
		"Best,\nHealthChain Team",
		name, apt.PatientName, apt.PatientEmail, apt.RequestedAt.Format(time.RFC1123), apt.ID.Hex())
	s.dispatch(Message{To: doctor.Email, Subject: "New Appointment Request", Body: body})
}

// SendAppointmentAccepted tells the patient their request was accepted.
func (s *NotificationService) SendAppointmentAccepted(apt *models.Appointment, doctor *models.Doctor) {
	accepted := "N/A"
	if apt.AcceptedAt != nil {
		accepted = apt.AcceptedAt.Format(time.RFC1123)
	}
	contact := apt.DoctorID.Hex()
	if doctor != nil {
		contact = fmt.Sprintf("Dr. %s (%s)", doctor.Name, doctor.Email)
	}
	body := fmt.Sprintf("Dear %s,\n\n"+
		"Your appointment request has been accepted by your doctor.\n"+
		"Appointment ID: %s\n"+
		"Requested At: %s\n"+
		"Accepted At: %s\n\n"+
		"Please contact %s for further details.\n\n"+
		"Best,\nHealthChain Team",
		apt.PatientName, apt.ID.Hex(), apt.RequestedAt.Format(time.RFC1123), accepted, contact)
	s.dispatch(Message{To: apt.PatientEmail, Subject: "Appointment Accepted", Body: body})
}

// SendMedicationReminder reminds a patient to take a medication at the given
// time of day.
func (s *NotificationService) SendMedicationReminder(user *models.User, medication string, at time.Time) {
	body := fmt.Sprintf("Dear %s,\n\nThis is a reminder to take your %s at %s.\n\nBest,\nHealthChain Team",
		user.Username, medication, at.Format("15:04"))
	s.dispatch(Message{To: user.Email, Subject: "Medication Reminder: " + medication, Body: body})
}
