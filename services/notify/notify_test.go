package notifysvc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrxclay666777/speakyz/core/inquiry"
)

type recorder struct {
	got []string
	err error
}

func (r *recorder) InquiryReceived(_ context.Context, inq inquiry.Inquiry) error {
	r.got = append(r.got, inq.ID)
	return r.err
}

func TestEncodeInquiry(t *testing.T) {
	b, err := encodeInquiry(inquiry.Inquiry{ID: "a1", Name: "Anna", Interests: []string{"Pronunciation"}})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "inquiry.received", got["type"])
	assert.Equal(t, "a1", got["inquiry"].(map[string]interface{})["id"])
	assert.NotEmpty(t, got["sent_at"])
}

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	a, b, c := &recorder{}, &recorder{err: boom}, &recorder{}

	err := Multi{a, b, c}.InquiryReceived(context.Background(), inquiry.Inquiry{ID: "x"})

	assert.Equal(t, boom, err)
	for _, r := range []*recorder{a, b, c} {
		assert.Equal(t, []string{"x"}, r.got)
	}
}
