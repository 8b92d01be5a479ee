package handlerwrapper

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct {
	Name string `json:"name"`
}

type pong struct {
	Greeting string `json:"greeting"`
}

func TestWrapTransformingTyped(t *testing.T) {
	tests := []struct {
		name       string
		payload    []byte
		handler    func(context.Context, *ping) ([]Result, error)
		wantErr    bool
		wantTopics []string
	}{
		{
			name:    "success produces tagged messages",
			payload: []byte(`{"name":"Ana"}`),
			handler: func(ctx context.Context, p *ping) ([]Result, error) {
				return []Result{
					{Topic: "pong.v1", Payload: pong{Greeting: "hi " + p.Name}},
					{Topic: "audit.v1", Payload: p, Metadata: map[string]string{"source": "test"}},
				}, nil
			},
			wantTopics: []string{"pong.v1", "audit.v1"},
		},
		{
			name:    "malformed payload is dropped",
			payload: []byte(`{"name":`),
			handler: func(ctx context.Context, p *ping) ([]Result, error) {
				t.Fatal("handler should not be called")
				return nil, nil
			},
		},
		{
			name:    "handler error is returned",
			payload: []byte(`{"name":"Ben"}`),
			handler: func(ctx context.Context, p *ping) ([]Result, error) {
				return nil, errors.New("db down")
			},
			wantErr: true,
		},
		{
			name:    "result without topic fails",
			payload: []byte(`{}`),
			handler: func(ctx context.Context, p *ping) ([]Result, error) {
				return []Result{{Payload: pong{}}}, nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := message.NewMessage(watermill.NewUUID(), tt.payload)
			middleware.SetCorrelationID("corr-1", msg)

			fn := WrapTransformingTyped("test.handler", nil, nil, tt.handler)
			out, err := fn(msg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, out, len(tt.wantTopics))
			for i, m := range out {
				assert.Equal(t, tt.wantTopics[i], m.Metadata.Get(TopicMetadataKey))
				assert.Equal(t, "corr-1", middleware.MessageCorrelationID(m))
			}
			if len(out) > 0 {
				var got pong
				require.NoError(t, json.Unmarshal(out[0].Payload, &got))
				assert.Equal(t, "hi Ana", got.Greeting)
				assert.Equal(t, "test", out[1].Metadata.Get("source"))
			}
		})
	}
}

func TestWrapTransformingTypedPassesReplyTo(t *testing.T) {
	msg := message.NewMessage(watermill.NewUUID(), []byte(`{}`))
	msg.Metadata.Set("reply_to", "_INBOX.42")

	var seen string
	fn := WrapTransformingTyped("test.reply", nil, nil, func(ctx context.Context, _ *ping) ([]Result, error) {
		seen, _ = ctx.Value(CtxKeyReplyTo).(string)
		return nil, nil
	})
	_, err := fn(msg)
	require.NoError(t, err)
	assert.Equal(t, "_INBOX.42", seen)
}
