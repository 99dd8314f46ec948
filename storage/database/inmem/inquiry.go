package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/mrxclay666777/speakyz/core/inquiry"
)

type inquiryRepository struct {
	db *inquiryTable
}

var _ inquiry.Repository = (*inquiryRepository)(nil) // interface compliance check

func NewInquiryRepository(db *DB) *inquiryRepository {
	return &inquiryRepository{db: db.inquiry}
}

func (repo *inquiryRepository) CreateInquiry(_ context.Context, inq inquiry.Inquiry) (inquiry.Inquiry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	inq.Interests = append([]string{}, inq.Interests...)
	repo.db.table = append(repo.db.table, inq)
	return inq, nil
}

func (repo *inquiryRepository) QueryInquiries(_ context.Context, filter inquiry.QueryFilter) ([]inquiry.Inquiry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	search := strings.ToLower(filter.Search)
	inqs := make([]inquiry.Inquiry, 0, len(repo.db.table))
	for _, inq := range repo.db.table {
		if !filter.Since.IsZero() && inq.CreatedAt.Before(filter.Since) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(inq.Name), search) &&
			!strings.Contains(strings.ToLower(inq.Email), search) &&
			!strings.Contains(strings.ToLower(inq.Subject), search) {
			continue
		}
		inqs = append(inqs, inq)
	}

	sort.SliceStable(inqs, func(i, j int) bool { return inqs[i].CreatedAt.After(inqs[j].CreatedAt) })
	if filter.Limit > 0 && len(inqs) > filter.Limit {
		inqs = inqs[:filter.Limit]
	}
	return inqs, nil
}
