package codec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/danielpatrickdp/craftsense/go-validator/internal/classifier"
)

// #region wire-types

// InferRequest is the JSON request body sent to the inference service.
type InferRequest struct {
	ModelID string    `json:"model_id"`
	Values  []float64 `json:"values"`
}

// InferReply is the JSON reply body from the inference service.
type InferReply struct {
	Label      bool    `json:"label"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// #endregion wire-types

// #region client-struct

// DefaultTimeout bounds a single inference round trip.
const DefaultTimeout = 2 * time.Second

// subjectPrefix is the NATS subject namespace for inference requests; the
// discipline identifier is appended per backend.
const subjectPrefix = "craftsense.infer."

// InferenceClient wraps the NATS connection to the model-serving process.
// One connection serves every discipline; per-model backends are bound with
// BackendFor.
type InferenceClient struct {
	conn    *nats.Conn
	timeout time.Duration
	ownConn bool
}

// #endregion client-struct

// #region constructor

// NewInferenceClient connects to the inference service.
func NewInferenceClient(url string) (*InferenceClient, error) {
	conn, err := nats.Connect(url, nats.Name("craftsense-validator"))
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return &InferenceClient{conn: conn, timeout: DefaultTimeout, ownConn: true}, nil
}

// NewInferenceClientWithConn creates a client over an existing connection.
// Used for testing and for processes that share one connection.
func NewInferenceClientWithConn(conn *nats.Conn) *InferenceClient {
	return &InferenceClient{conn: conn, timeout: DefaultTimeout}
}

// SetTimeout overrides the per-call round-trip bound.
func (c *InferenceClient) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Close shuts down the connection when this client owns it.
func (c *InferenceClient) Close() {
	if c.ownConn {
		c.conn.Close()
	}
}

// #endregion constructor

// #region backend

// BackendFor binds a classifier backend to one discipline's model. The
// returned backend is safe for concurrent use; NATS request/reply is
// reentrant.
func (c *InferenceClient) BackendFor(disciplineID, modelID string) classifier.Backend {
	return &remoteBackend{
		client:  c,
		subject: subjectPrefix + disciplineID,
		modelID: modelID,
	}
}

// remoteBackend implements classifier.Backend over NATS request/reply.
type remoteBackend struct {
	client  *InferenceClient
	subject string
	modelID string
}

// Infer sends the encoded values and decodes the verdict. A missing or
// unreachable service maps to ErrModelUnavailable so callers can tell
// "backend down" apart from malformed input.
func (b *remoteBackend) Infer(ctx context.Context, values []float64) (bool, float64, error) {
	payload, err := json.Marshal(InferRequest{ModelID: b.modelID, Values: values})
	if err != nil {
		return false, 0, fmt.Errorf("marshal infer request: %w", err)
	}

	callCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, b.client.timeout)
		defer cancel()
	}

	msg, err := b.client.conn.RequestWithContext(callCtx, b.subject, payload)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) ||
			errors.Is(err, nats.ErrConnectionClosed) ||
			errors.Is(err, context.DeadlineExceeded) {
			return false, 0, fmt.Errorf("%w: %s (%v)", classifier.ErrModelUnavailable, b.subject, err)
		}
		return false, 0, fmt.Errorf("infer request %s: %w", b.subject, err)
	}

	var reply InferReply
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return false, 0, fmt.Errorf("decode infer reply %s: %w", b.subject, err)
	}
	if reply.Error != "" {
		return false, 0, fmt.Errorf("inference service %s: %s", b.subject, reply.Error)
	}
	return reply.Label, reply.Confidence, nil
}

// #endregion backend
