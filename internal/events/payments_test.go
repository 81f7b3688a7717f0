package events

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockDuesMarker struct {
	mock.Mock
}

func (m *mockDuesMarker) MarkDuesPaid(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func claimOf(payloads ...string) *fakeClaim {
	messages := make(chan *sarama.ConsumerMessage, len(payloads))
	for i, p := range payloads {
		messages <- &sarama.ConsumerMessage{Topic: "payments.success", Offset: int64(i), Value: []byte(p)}
	}
	close(messages)

	return &fakeClaim{messages: messages}
}

func TestPaymentConsumer_Handle(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantMark  bool
		wantError error
	}{
		{name: "success", payload: `{"user_id":7,"reference":"ref-1","status":"success"}`, wantMark: true},
		{name: "failed payment", payload: `{"user_id":7,"reference":"ref-2","status":"failed"}`},
		{name: "not json", payload: `nope`, wantError: ErrMalformedEvent},
		{name: "no user", payload: `{"reference":"ref-3","status":"success"}`, wantError: ErrMalformedEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voters := new(mockDuesMarker)
			if tt.wantMark {
				voters.On("MarkDuesPaid", mock.Anything, uint(7)).Return(nil)
			}

			err := NewPaymentConsumer(voters).Handle(context.Background(), []byte(tt.payload))
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				assert.NoError(t, err)
			}
			voters.AssertExpectations(t)
			if !tt.wantMark {
				voters.AssertNotCalled(t, "MarkDuesPaid", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestPaymentConsumer_ConsumeClaim(t *testing.T) {
	voters := new(mockDuesMarker)
	voters.On("MarkDuesPaid", mock.Anything, uint(7)).Return(nil)
	voters.On("MarkDuesPaid", mock.Anything, uint(8)).Return(nil)

	session := &fakeSession{ctx: context.Background()}
	claim := claimOf(
		`{"user_id":7,"reference":"a","status":"success"}`,
		`garbage`,
		`{"user_id":8,"reference":"b","status":"success"}`,
	)

	err := NewPaymentConsumer(voters).ConsumeClaim(session, claim)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2}, session.marked)
	voters.AssertExpectations(t)
}

func TestPaymentConsumer_ConsumeClaim_StorageFailureStopsWithoutMarking(t *testing.T) {
	voters := new(mockDuesMarker)
	boom := errors.New("db down")
	voters.On("MarkDuesPaid", mock.Anything, uint(7)).Return(boom)

	session := &fakeSession{ctx: context.Background()}
	err := NewPaymentConsumer(voters).ConsumeClaim(session, claimOf(`{"user_id":7,"status":"success"}`))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, session.marked)
}

func TestPaymentConsumer_ConsumeClaim_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := &fakeSession{ctx: ctx}
	claim := &fakeClaim{messages: make(chan *sarama.ConsumerMessage)}

	assert.NoError(t, NewPaymentConsumer(new(mockDuesMarker)).ConsumeClaim(session, claim))
}

func TestNewConsumerConfig(t *testing.T) {
	cfg := NewConsumerConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, sarama.OffsetOldest, cfg.Consumer.Offsets.Initial)
}
