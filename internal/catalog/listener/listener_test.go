package listener

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/order"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader replays messages, then cancels the listener.
type scriptedReader struct {
	messages [][]byte
	errs     []error
	cancel   context.CancelFunc
}

func (s *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return kafka.Message{}, err
	}
	if len(s.messages) == 0 {
		s.cancel()
		return kafka.Message{}, ctx.Err()
	}
	value := s.messages[0]
	s.messages = s.messages[1:]
	return kafka.Message{Value: value}, nil
}

type recorder struct {
	invalidated []string
	refreshed   []string
	refreshErr  error
}

func (r *recorder) Invalidate(ctx context.Context, storeID string) error {
	r.invalidated = append(r.invalidated, storeID)
	return nil
}

func (r *recorder) RefreshStore(ctx context.Context, storeID string) error {
	r.refreshed = append(r.refreshed, storeID)
	return r.refreshErr
}

func orderEvent(t *testing.T, storeID string) []byte {
	t.Helper()
	o := &model.Order{ID: "o1", StoreID: &storeID}
	data, err := json.Marshal(order.NewOrderCreatedEvent(o, time.Now()))
	require.NoError(t, err)
	return data
}

func TestOrderListener_RefreshesStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	other, err := json.Marshal(order.OrderCreatedEvent{EventType: "OrderRefunded", Payload: order.OrderPayload{StoreID: "s9"}})
	require.NoError(t, err)

	reader := &scriptedReader{
		messages: [][]byte{orderEvent(t, "s1"), []byte("not json"), other, orderEvent(t, "s2")},
		errs:     []error{errors.New("broker hiccup")},
		cancel:   cancel,
	}
	rec := &recorder{refreshErr: errors.New("store gone")}
	l := NewOrderListener(reader, rec, rec, logger.NewNop())
	l.backoff = time.Millisecond

	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}

	assert.Equal(t, []string{"s1", "s2"}, rec.invalidated)
	assert.Equal(t, []string{"s1", "s2"}, rec.refreshed)
}
