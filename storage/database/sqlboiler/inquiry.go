package boiledrepos

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"github.com/volatiletech/sqlboiler/v4/queries"

	"github.com/mrxclay666777/speakyz/core"
	"github.com/mrxclay666777/speakyz/core/inquiry"
)

type inquiryRow struct {
	ID               string      `boil:"id"`
	VisitorID        null.String `boil:"visitor_id"`
	Locale           string      `boil:"locale"`
	Name             string      `boil:"name"`
	Email            string      `boil:"email"`
	Phone            null.String `boil:"phone"`
	Subject          string      `boil:"subject"`
	Message          string      `boil:"message"`
	PreferredContact string      `boil:"preferred_contact"`
	EnglishLevel     string      `boil:"english_level"`
	Interests        string      `boil:"interests"`
	Newsletter       bool        `boil:"newsletter"`
	CreatedAt        time.Time   `boil:"created_at"`
}

const inquiryColumns = `id, visitor_id, locale, name, email, phone, subject, message,
	preferred_contact, english_level, interests, newsletter, created_at`

type inquiryRepository struct {
	exec     core.DBExecutor
	bindType int
}

var _ inquiry.Repository = (*inquiryRepository)(nil) // interface compliance check

// NewInquiryRepository runs raw queries through sqlboiler; driverName picks the placeholder style.
func NewInquiryRepository(exec core.DBExecutor, driverName string) *inquiryRepository {
	return &inquiryRepository{exec: exec, bindType: sqlx.BindType(driverName)}
}

func (repo inquiryRepository) rebind(q string) string {
	return sqlx.Rebind(repo.bindType, q)
}

func (repo inquiryRepository) boil(inq inquiry.Inquiry) (*inquiryRow, error) {
	interests, err := json.Marshal(inq.Interests)
	if err != nil {
		return nil, errors.Wrap(err, "encoding interests")
	}
	return &inquiryRow{
		ID:               inq.ID,
		VisitorID:        null.NewString(inq.VisitorID, inq.VisitorID != ""),
		Locale:           inq.Locale,
		Name:             inq.Name,
		Email:            inq.Email,
		Phone:            null.NewString(inq.Phone, inq.Phone != ""),
		Subject:          inq.Subject,
		Message:          inq.Message,
		PreferredContact: inq.PreferredContact,
		EnglishLevel:     inq.EnglishLevel,
		Interests:        string(interests),
		Newsletter:       inq.Newsletter,
		CreatedAt:        inq.CreatedAt.UTC(),
	}, nil
}

func (repo inquiryRepository) unboil(row *inquiryRow) (inquiry.Inquiry, error) {
	var interests []string
	if err := json.Unmarshal([]byte(row.Interests), &interests); err != nil {
		return inquiry.Inquiry{}, errors.Wrapf(err, "decoding interests of %s", row.ID)
	}
	if interests == nil {
		interests = []string{}
	}
	return inquiry.Inquiry{
		ID:               row.ID,
		VisitorID:        row.VisitorID.String,
		Locale:           row.Locale,
		Name:             row.Name,
		Email:            row.Email,
		Phone:            row.Phone.String,
		Subject:          row.Subject,
		Message:          row.Message,
		PreferredContact: row.PreferredContact,
		EnglishLevel:     row.EnglishLevel,
		Interests:        interests,
		Newsletter:       row.Newsletter,
		CreatedAt:        row.CreatedAt.UTC(),
	}, nil
}

func (repo inquiryRepository) CreateInquiry(ctx context.Context, inq inquiry.Inquiry) (inquiry.Inquiry, error) {
	row, err := repo.boil(inq)
	if err != nil {
		return inquiry.Inquiry{}, err
	}
	q := repo.rebind(`INSERT INTO inquiry (` + inquiryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = queries.Raw(q,
		row.ID, row.VisitorID, row.Locale, row.Name, row.Email, row.Phone, row.Subject, row.Message,
		row.PreferredContact, row.EnglishLevel, row.Interests, row.Newsletter, row.CreatedAt,
	).ExecContext(ctx, repo.exec)
	if err != nil {
		return inquiry.Inquiry{}, core.StorageError(errors.Wrap(err, "inserting inquiry"))
	}
	return repo.unboil(row)
}

func (repo inquiryRepository) QueryInquiries(ctx context.Context, filter inquiry.QueryFilter) ([]inquiry.Inquiry, error) {
	var (
		where []string
		args  []interface{}
	)
	if !filter.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, filter.Since.UTC())
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(subject) LIKE ?)")
		args = append(args, like, like, like)
	}

	q := `SELECT ` + inquiryColumns + ` FROM inquiry`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	var rows []*inquiryRow
	if err := queries.Raw(repo.rebind(q), args...).Bind(ctx, repo.exec, &rows); err != nil {
		return nil, core.StorageError(errors.Wrap(err, "selecting inquiries"))
	}

	inqs := make([]inquiry.Inquiry, 0, len(rows))
	for _, row := range rows {
		inq, err := repo.unboil(row)
		if err != nil {
			return nil, err
		}
		inqs = append(inqs, inq)
	}
	return inqs, nil
}
