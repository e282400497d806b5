package services

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/harentsoaR/healthchain-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *recordingMailer) Send(msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func TestWelcomeEmails(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewNotificationService(mailer, zap.NewNop())

	svc.SendWelcome("pat@example.com")
	svc.SendDoctorWelcome("doc@example.com")
	svc.Wait()

	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(mailer.sent))
	}
	subjects := mailer.sent[0].Subject + "|" + mailer.sent[1].Subject
	if !strings.Contains(subjects, "Welcome to HealthChain as a Doctor") {
		t.Fatalf("unexpected subjects %q", subjects)
	}
}

func TestAppointmentEmails(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewNotificationService(mailer, zap.NewNop())
	accepted := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	doctor := &models.Doctor{ID: primitive.NewObjectID(), Name: "House", Email: "house@example.com"}
	apt := &models.Appointment{
		ID:           primitive.NewObjectID(),
		DoctorID:     doctor.ID,
		PatientName:  "alice",
		PatientEmail: "alice@example.com",
		RequestedAt:  accepted.Add(-time.Hour),
		AcceptedAt:   &accepted,
	}

	svc.SendAppointmentRequest(doctor, apt)
	svc.Wait()
	svc.SendAppointmentAccepted(apt, doctor)
	svc.Wait()

	if len(mailer.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(mailer.sent))
	}
	req, acc := mailer.sent[0], mailer.sent[1]
	if req.To != "house@example.com" || !strings.Contains(req.Body, "Dear Dr. House") || !strings.Contains(req.Body, apt.ID.Hex()) {
		t.Fatalf("unexpected request email %+v", req)
	}
	if acc.To != "alice@example.com" || acc.Subject != "Appointment Accepted" || !strings.Contains(acc.Body, "Dear alice") {
		t.Fatalf("unexpected acceptance email %+v", acc)
	}
}

func TestMedicationReminder(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewNotificationService(mailer, zap.NewNop())
	at := time.Date(2026, 4, 1, 8, 5, 0, 0, time.UTC)

	svc.SendMedicationReminder(&models.User{Username: "bob", Email: "bob@example.com"}, "aspirin", at)
	svc.Wait()

	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}
	if mailer.sent[0].Subject != "Medication Reminder: aspirin" || !strings.Contains(mailer.sent[0].Body, "take your aspirin at 08:05") {
		t.Fatalf("unexpected reminder %+v", mailer.sent[0])
	}
}

func TestDispatchSkipsWithoutRecipientOrMailer(t *testing.T) {
	mailer := &recordingMailer{}
	svc := NewNotificationService(mailer, zap.NewNop())
	svc.SendWelcome("")
	svc.Wait()
	if len(mailer.sent) != 0 {
		t.Fatalf("expected no email without recipient, got %d", len(mailer.sent))
	}

	disabled := NewNotificationService(nil, zap.NewNop())
	disabled.SendWelcome("pat@example.com")
	disabled.Wait()
}

func TestSendFailureIsLogged(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	svc := NewNotificationService(mailer, zap.NewNop())
	svc.SendWelcome("pat@example.com")
	svc.Wait()
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one attempt, got %d", len(mailer.sent))
	}
}
