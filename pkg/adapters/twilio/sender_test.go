package twilio

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/canvass/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeAPI struct {
	calls []*twilioApi.CreateMessageParams
	err   error
}

func (f *fakeAPI) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &twilioApi.ApiV2010Message{Sid: &sid}, nil
}

func TestSender_Send(t *testing.T) {
	api := &fakeAPI{}
	s, err := New("", "", "+14155238886", WithAPI(api))
	require.NoError(t, err)

	require.NoError(t, s.Send(context.Background(), "5581999990000", domain.TextReply("Do you vote?")))

	require.Len(t, api.calls, 1)
	assert.Equal(t, "whatsapp:5581999990000", *api.calls[0].To)
	assert.Equal(t, "whatsapp:+14155238886", *api.calls[0].From)
	assert.Equal(t, "Do you vote?", *api.calls[0].Body)
}

func TestSender_SkipsEmptyReply(t *testing.T) {
	api := &fakeAPI{}
	s, err := New("", "", "whatsapp:+1", WithAPI(api))
	require.NoError(t, err)

	require.NoError(t, s.Send(context.Background(), "5581", domain.Reply{}))
	assert.Empty(t, api.calls)
}

func TestSender_Errors(t *testing.T) {
	api := &fakeAPI{err: errors.New("401 unauthorized")}
	s, err := New("", "", "+1", WithAPI(api))
	require.NoError(t, err)

	err = s.Send(context.Background(), "5581", domain.TextReply("hi"))
	assert.ErrorContains(t, err, "401 unauthorized")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Send(ctx, "5581", domain.TextReply("hi")), context.Canceled)
}

func TestNew_Validation(t *testing.T) {
	_, err := New("AC1", "token", "")
	assert.Error(t, err)

	_, err = New("", "", "+1")
	assert.Error(t, err)

	s, err := New("AC1", "token", "+1")
	require.NoError(t, err)
	assert.NotNil(t, s.api)
}

func TestWithPrefix(t *testing.T) {
	assert.Equal(t, "whatsapp:+1", withPrefix(" +1 "))
	assert.Equal(t, "whatsapp:+1", withPrefix("whatsapp:+1"))
	assert.Equal(t, "", withPrefix(""))
}
