// Package inquiry handles the contact form: prospects' messages are stored, emailed to the staff
// and announced to whoever listens for them.
package inquiry

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mrxclay666777/speakyz/core"
)

var (
	NowFunc = time.Now // mockable

	ErrInvalidInterest = errors.New("unknown interest")

	staffTemplate = "contact_staff"
)

type (
	Repository interface {
		CreateInquiry(ctx context.Context, inq Inquiry) (Inquiry, error)
		// QueryInquiries returns the matching inquiries, newest first.
		QueryInquiries(ctx context.Context, filter QueryFilter) ([]Inquiry, error)
	}

	// Notifier announces received inquiries (e.g. on a message bus).
	Notifier interface {
		InquiryReceived(ctx context.Context, inq Inquiry) error
	}

	Deps struct {
		Repo     Repository
		Mailer   core.EmailService
		Notifier Notifier
		Validate *validator.Validate
		Logger   core.Logger
	}

	Service struct {
		repo     Repository
		mailer   core.EmailService
		notifier Notifier
		validate *validator.Validate
		logger   core.Logger
		staff    mail.Address
	}
)

func NewService(conf *core.Config, deps Deps) *Service {
	return &Service{
		repo:     deps.Repo,
		mailer:   deps.Mailer,
		notifier: deps.Notifier,
		validate: deps.Validate,
		logger:   deps.Logger,
		staff:    conf.StaffEmail,
	}
}

func (svc *Service) checkInterests(interests []string) error {
	for _, interest := range interests {
		var known bool
		for _, opt := range InterestOptions {
			if interest == opt {
				known = true
				break
			}
		}
		if !known {
			msg := fmt.Sprintf("%s: %q", ErrInvalidInterest.Error(), interest)
			return core.NewValidationError(ErrInvalidInterest, core.FieldError{Field: "interests", Error: msg})
		}
	}
	return nil
}

// Submit validates & stores a contact form submission, then lets the staff know about it.
// Email & notification failures are logged: the inquiry is stored either way.
func (svc *Service) Submit(ctx context.Context, visitorID, locale string, ni NewInquiry) (Inquiry, error) {
	if err := svc.validate.Struct(ni); err != nil {
		return Inquiry{}, err
	}
	if err := svc.checkInterests(ni.Interests); err != nil {
		return Inquiry{}, err
	}

	inq := Inquiry{
		ID:               uuid.NewString(),
		VisitorID:        visitorID,
		Locale:           locale,
		Name:             core.CleanString(ni.Name),
		Email:            core.CleanString(ni.Email, true /* lower */),
		Phone:            core.CleanString(ni.Phone),
		Subject:          core.CleanString(ni.Subject),
		Message:          strings.TrimSpace(ni.Message),
		PreferredContact: ni.PreferredContact,
		EnglishLevel:     ni.EnglishLevel,
		Interests:        append([]string{}, ni.Interests...),
		Newsletter:       ni.Newsletter,
		CreatedAt:        NowFunc().UTC(),
	}
	if inq.EnglishLevel == "" {
		inq.EnglishLevel = "beginner"
	}

	inq, err := svc.repo.CreateInquiry(ctx, inq)
	if err != nil {
		return Inquiry{}, errors.Wrap(err, "storing inquiry")
	}

	svc.mailer.SendMessages(svc.staffMessage(inq))
	if svc.notifier != nil {
		if err := svc.notifier.InquiryReceived(ctx, inq); err != nil {
			svc.logger.Error(fmt.Sprintf("inquiry.Submit: notifying: %v", err), err)
		}
	}
	return inq, nil
}

func (svc *Service) staffMessage(inq Inquiry) *core.EmailMessage {
	return &core.EmailMessage{
		To:       []mail.Address{svc.staff},
		ReplyTo:  &mail.Address{Name: inq.Name, Address: inq.Email},
		Subject:  "New contact form submission: " + inq.Subject,
		Template: staffTemplate,
		TemplateData: map[string]interface{}{
			"Name":             inq.Name,
			"Email":            inq.Email,
			"Phone":            inq.Phone,
			"Subject":          inq.Subject,
			"Message":          inq.Message,
			"EnglishLevel":     inq.EnglishLevel,
			"PreferredContact": inq.PreferredContact,
			"Interests":        inq.Interests,
			"Newsletter":       inq.Newsletter,
			"Locale":           inq.Locale,
			"CreatedAt":        inq.CreatedAt,
		},
	}
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Inquiry, error) {
	filter.Search = core.CleanString(filter.Search, true /* lower */)
	return svc.repo.QueryInquiries(ctx, filter)
}
